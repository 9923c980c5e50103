package audit

import (
	"github.com/gin-gonic/gin"

	"reservio/internal/shared/middleware"
)

func SetupAuditRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/admin/audit")
	group.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		group.GET("/records", controller.ListRecent)
		group.GET("/records/:originType/:originId", controller.ListByOrigin)
	}
}
