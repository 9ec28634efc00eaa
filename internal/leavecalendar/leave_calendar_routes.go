package leavecalendar

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
	calendar := r.Group("/leave-calendar")
	calendar.Use(authn...)
	{
		calendar.GET("", middleware.RBACAuthorize(rbacService, "leave_calendar", "read"), handler.List)
	}
}
