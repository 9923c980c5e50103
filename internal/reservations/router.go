package reservations

import (
	"github.com/gin-gonic/gin"

	"reservio/internal/shared/middleware"
)

func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/reservations")
	group.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		group.POST("", controller.CreateTemporary)
		group.GET("", controller.List)
		group.GET("/:id", controller.Get)
		group.POST("/:id/release", controller.Release)
		group.POST("/:id/convert", controller.Convert)
	}
}
