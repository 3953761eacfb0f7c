package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"freight_routes/internal/auth"
	"freight_routes/internal/controllers"
	"freight_routes/internal/middleware"
)

func UserRoutes(r *gin.Engine, ctl *controllers.UserController, issuer *auth.Issuer, db *gorm.DB) {
	users := r.Group("/users")
	users.Use(middleware.RequireAuth(issuer, db), middleware.RequireAction(auth.ActionManageUsers))
	{
		users.POST("", ctl.Create)
		users.GET("", ctl.List)
		users.GET("/:id", ctl.Get)
		users.PATCH("/:id", ctl.Update)
		users.POST("/:id/reset-password", ctl.ResetPassword)
	}
}
