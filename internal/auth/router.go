package auth

import (
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/auth")
	{
		group.POST("/register", controller.Register)
		group.POST("/login", controller.Login)
		group.POST("/refresh", controller.Refresh)
	}
}
