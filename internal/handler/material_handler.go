package handler

import (
	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler/request"
	"wozamali-core/internal/handler/response"
	"wozamali-core/internal/service"
)

type MaterialHandler struct {
	catalog *service.CatalogStore
}

func NewMaterialHandler(catalog *service.CatalogStore) *MaterialHandler {
	return &MaterialHandler{catalog: catalog}
}

// List 物料目录
// @Summary List catalog materials
// @Tags Material
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Material}
// @Router /api/v1/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

// Upsert 新增或更新物料
// @Summary Create or update a material
// @Description The new rate applies to settlements that start after the update
// @Tags Material
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param request body request.UpsertMaterialRequest true "Material"
// @Success 200 {object} response.Response{data=model.Material}
// @Router /api/v1/materials/{id} [put]
func (h *MaterialHandler) Upsert(c *gin.Context) {
	var req request.UpsertMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	m := req.ToModel(c.Param("id"))
	if err := h.catalog.Upsert(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, m)
}
