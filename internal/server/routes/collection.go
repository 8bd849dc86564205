package routes

import (
	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler"
)

func RegisterCollectionRoutes(rg *gin.RouterGroup, h *handler.CollectionHandler) {
	g := rg.Group("/collections")
	{
		g.POST("/quote", h.Quote)
		g.POST("", h.Submit)
		g.GET("/:id", h.Get)
		// 可以在这里添加 AdminAuth 中间件
		g.POST("/:id/approve", h.Approve)
		g.POST("/:id/reject", h.Reject)
	}
}
