package handler

import (
	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler/request"
	"wozamali-core/internal/handler/response"
	"wozamali-core/internal/model"
	"wozamali-core/internal/service"
	"wozamali-core/internal/settlement"
)

// SettlementResponse 结算结果
type SettlementResponse struct {
	CollectionID       string                   `json:"collection_id"`
	Status             string                   `json:"status"`
	PartiallyProcessed bool                     `json:"partially_processed"`
	SkippedIndices     []int                    `json:"skipped_indices"`
	Result             *settlement.Result       `json:"result"`
	LedgerEntry        *model.WalletLedgerEntry `json:"ledger_entry"`
}

// QuoteResponse is a settlement preview.
type QuoteResponse struct {
	PartiallyProcessed bool               `json:"partially_processed"`
	SkippedIndices     []int              `json:"skipped_indices"`
	Result             *settlement.Result `json:"result"`
}

type CollectionPage struct {
	Items  []model.Collection `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type CollectionHandler struct {
	svc *service.CollectionService
}

func NewCollectionHandler(svc *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

// Quote 结算预览
// @Summary Preview a settlement
// @Description Prices line items against the live catalog without storing anything
// @Tags Collection
// @Accept json
// @Produce json
// @Param request body request.QuoteRequest true "Line items"
// @Success 200 {object} response.Response{data=QuoteResponse}
// @Router /api/v1/collections/quote [post]
func (h *CollectionHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := h.svc.Quote(c.Request.Context(), req.ToSubmission())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, QuoteResponse{
		PartiallyProcessed: res.PartiallyProcessed(),
		SkippedIndices:     res.SkippedIndices(),
		Result:             res,
	})
}

// Submit 提交回收单
// @Summary Submit a collection
// @Description Stores a pending collection; resubmitting identical content returns the pending one
// @Tags Collection
// @Accept json
// @Produce json
// @Param request body request.SubmitCollectionRequest true "Collection"
// @Success 201 {object} response.Response{data=model.Collection}
// @Success 200 {object} response.Response{data=model.Collection} "duplicate of a pending collection"
// @Router /api/v1/collections [post]
func (h *CollectionHandler) Submit(c *gin.Context) {
	var req request.SubmitCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	col, created, err := h.svc.Submit(c.Request.Context(), req.ToSubmission())
	if err != nil {
		fail(c, err)
		return
	}
	if created {
		response.Created(c, col)
		return
	}
	response.Success(c, col)
}

// Get 查询回收单
// @Summary Get a collection
// @Tags Collection
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} response.Response{data=model.Collection}
// @Router /api/v1/collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	col, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, col)
}

// Approve 审核通过并结算
// @Summary Approve and settle a collection
// @Description Settles against the rates in effect now, credits the wallet and queues the fund contribution
// @Tags Collection
// @Produce json
// @Param id path string true "Collection ID"
// @Param X-Admin-ID header string false "Approver"
// @Success 200 {object} response.Response{data=SettlementResponse}
// @Router /api/v1/collections/{id}/approve [post]
func (h *CollectionHandler) Approve(c *gin.Context) {
	// 正常应该从 JWT 中获取
	approver := c.GetHeader("X-Admin-ID")
	if approver == "" {
		approver = "system"
	}

	out, err := h.svc.Approve(c.Request.Context(), c.Param("id"), approver)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, SettlementResponse{
		CollectionID:       out.Collection.ID,
		Status:             out.Collection.Status,
		PartiallyProcessed: out.Result.PartiallyProcessed(),
		SkippedIndices:     out.SkippedIndices(),
		Result:             out.Result,
		LedgerEntry:        out.LedgerEntry,
	})
}

// Reject 驳回回收单
// @Summary Reject a collection
// @Tags Collection
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param request body request.RejectCollectionRequest true "Reason"
// @Success 200 {object} response.Response{data=model.Collection}
// @Router /api/v1/collections/{id}/reject [post]
func (h *CollectionHandler) Reject(c *gin.Context) {
	var req request.RejectCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	col, err := h.svc.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, col)
}

// ListByCustomer 居民回收记录
// @Summary List a customer's collections
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response{data=CollectionPage}
// @Router /api/v1/customers/{id}/collections [get]
func (h *CollectionHandler) ListByCustomer(c *gin.Context) {
	var q request.ListCollectionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	items, total, err := h.svc.ListByCustomer(c.Request.Context(), c.Param("id"), q.Limit, q.Offset)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, CollectionPage{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset})
}
