package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"freight_routes/internal/auth"
	"freight_routes/internal/controllers"
	"freight_routes/internal/middleware"
)

func RouteRoutes(r *gin.Engine, ctl *controllers.RouteController, issuer *auth.Issuer, db *gorm.DB) {
	group := r.Group("/routes")
	group.Use(middleware.RequireAuth(issuer, db))
	{
		// Reads are open to any authenticated role.
		group.GET("", middleware.RequireAction(auth.ActionViewRoutes), ctl.List)
		group.GET("/:id", middleware.RequireAction(auth.ActionViewRoutes), ctl.Get)

		// Writes need admin or dispatcher.
		group.POST("", middleware.RequireAction(auth.ActionEditRoutes), ctl.Create)
		group.PATCH("/:id", middleware.RequireAction(auth.ActionEditRoutes), ctl.Update)
		group.PUT("/:id/stops", middleware.RequireAction(auth.ActionEditRoutes), ctl.ReplaceStops)
		group.POST("/:id/cancel", middleware.RequireAction(auth.ActionEditRoutes), ctl.Cancel)
	}
}
