package routes

import (
	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler"
)

func RegisterMaterialRoutes(rg *gin.RouterGroup, h *handler.MaterialHandler) {
	g := rg.Group("/materials")
	{
		g.GET("", h.List)
		g.PUT("/:id", h.Upsert)
	}
}
