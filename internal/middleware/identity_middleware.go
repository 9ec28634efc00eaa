package middleware

import (
	"context"

	"hr-dashboard/internal/shared/apperror"
	"hr-dashboard/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentityResolver maps an authenticated user to their employee record.
type IdentityResolver interface {
	ResolveEmployeeID(ctx context.Context, userID string) (string, error)
}

// ResolveIdentity must run after AuthMiddleware. Requests from users with no
// linked employee stop here with IDENTITY_UNRESOLVED.
func ResolveIdentity(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			abortWithError(c, apperror.ErrIdentityUnresolved)
			return
		}

		employeeID, err := resolver.ResolveEmployeeID(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set("employee_id", employeeID)
		ctx := contextutil.WithEmployeeID(c.Request.Context(), employeeID)
		ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, nil).With(zap.String("employee_id", employeeID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
