package leavebalance

import (
	"hr-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authn ...gin.HandlerFunc,
) {
	balances := r.Group("/leave-balances")
	balances.Use(authn...)
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "leave_balance", "read"), handler.GetMine)
	}
}
