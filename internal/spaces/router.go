package spaces

import (
	"github.com/gin-gonic/gin"

	"reservio/internal/shared/middleware"
)

func SetupSpaceRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Read routes for any authenticated user
	spacesGroup := rg.Group("/spaces")
	spacesGroup.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		spacesGroup.GET("", controller.ListSpaces)
		spacesGroup.GET("/:id", controller.GetSpace)
		spacesGroup.GET("/:id/blackouts", controller.ListBlackouts)
	}

	// Mutations are admin-only; blackouts are never user-overridable
	admin := rg.Group("/admin/spaces")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateSpace)
		admin.PUT("/:id", controller.UpdateSpace)
		admin.DELETE("/:id", controller.DeleteSpace)

		admin.POST("/blackouts", controller.CreateBlackout)
		admin.DELETE("/:id/blackouts/:blackoutId", controller.DeleteBlackout)
	}
}
