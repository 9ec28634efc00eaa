package auth

import (
	"hr-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.GET("/me", authn, middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", authn, handler.Logout)
	}
}
