package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"freight_routes/internal/auth"
	"freight_routes/internal/config"
	"freight_routes/internal/controllers"
	"freight_routes/internal/services"
)

// SetupRouter wires the services, controllers and middleware into the Gin
// engine.
func SetupRouter(cfg config.Config, db *gorm.DB, issuer *auth.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlogger.SetLogger())

	authService := services.NewAuthService(db, issuer)
	userService := services.NewUserService(db)
	routeService := services.NewRouteService(db)

	r.GET("/health", controllers.Health(cfg.Version))

	AuthRoutes(r, controllers.NewAuthController(authService, userService), issuer, db)
	UserRoutes(r, controllers.NewUserController(userService), issuer, db)
	RouteRoutes(r, controllers.NewRouteController(routeService), issuer, db)

	return r
}
