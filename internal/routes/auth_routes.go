package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"freight_routes/internal/auth"
	"freight_routes/internal/controllers"
	"freight_routes/internal/middleware"
)

func AuthRoutes(r *gin.Engine, ctl *controllers.AuthController, issuer *auth.Issuer, db *gorm.DB) {
	group := r.Group("/auth")
	{
		group.POST("/login", ctl.Login)
		group.POST("/refresh", ctl.Refresh)
		group.POST("/logout", ctl.Logout)
	}

	authed := r.Group("/auth")
	authed.Use(middleware.RequireAuth(issuer, db))
	{
		authed.GET("/me", ctl.Me)
		authed.POST("/change-password", ctl.ChangePassword)
	}
}
