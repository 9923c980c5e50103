package clients

import (
	"github.com/gin-gonic/gin"

	"reservio/internal/shared/middleware"
)

func SetupClientRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/clients")
	group.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		group.POST("", controller.Create)
		group.GET("", controller.List)
		group.GET("/:id", controller.Get)
		group.PUT("/:id", controller.Update)
		group.DELETE("/:id", controller.Deactivate)
	}
}
