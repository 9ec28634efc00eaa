package middleware

import (
	"hr-dashboard/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWithError(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			abortWithError(c, err)
			return
		}

		if !allowed {
			abortWithError(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

// HasPermission reports whether the caller's role grants resource:action.
// Handlers use it for row level decisions such as reviewing any request.
func HasPermission(c *gin.Context, service RBACService, resource, action string) bool {
	allowed, err := service.Enforce(c.GetString("role"), resource, action)
	return err == nil && allowed
}
