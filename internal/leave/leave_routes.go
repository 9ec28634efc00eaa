package leave

import (
	"hr-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /leaves. idempotent guards the mutating endpoints
// and may be nil.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	idempotent gin.HandlerFunc,
	authn ...gin.HandlerFunc,
) {
	mutate := func(resource, action string, h gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, resource, action)}
		if idempotent != nil {
			chain = append(chain, idempotent)
		}
		return append(chain, h)
	}

	leaves := r.Group("/leaves")
	leaves.Use(authn...)
	{
		leaves.POST("", mutate("leave", "create", handler.Submit)...)
		leaves.GET("/mine", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.ListMine)
		leaves.GET("/approvals", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.ListPendingApprovals)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("/:id/review", mutate("leave", "review", handler.Review)...)
		leaves.POST("/:id/cancel", mutate("leave", "cancel", handler.Cancel)...)
	}
}
