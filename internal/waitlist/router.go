package waitlist

import (
	"github.com/gin-gonic/gin"

	"reservio/internal/shared/middleware"
)

func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Clients join and follow their own entries
	group := rg.Group("/waitlist")
	group.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		group.POST("", controller.Join)
		group.GET("/:id", controller.Get)
		group.POST("/:id/cancel", controller.Cancel)
	}

	// Queue management is admin-only
	admin := rg.Group("/admin/waitlist")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.List)
		admin.GET("/next", controller.NextCandidate)
		admin.PATCH("/:id/priority", controller.UpdatePriority)
		admin.POST("/:id/notify", controller.Notify)
		admin.POST("/:id/attend", controller.Attend)
	}
}
