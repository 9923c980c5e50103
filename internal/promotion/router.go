package promotion

import (
	"github.com/gin-gonic/gin"

	"reservio/internal/shared/middleware"
)

func SetupSweepRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/admin/sweeps")
	group.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		group.POST("/expiry", controller.RunExpirySweep)
		group.POST("/promotion", controller.RunPromotionSweep)
	}
}
