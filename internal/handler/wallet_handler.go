package handler

import (
	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler/response"
	"wozamali-core/internal/service"
)

type WalletHandler struct {
	wallets *service.WalletService
	fund    *service.FundService
}

func NewWalletHandler(wallets *service.WalletService, fund *service.FundService) *WalletHandler {
	return &WalletHandler{wallets: wallets, fund: fund}
}

// GetWallet 居民钱包
// @Summary Get a customer's wallet
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Response{data=model.Wallet}
// @Router /api/v1/customers/{id}/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	w, err := h.wallets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, w)
}

// FundSummary 绿色奖学金基金汇总
// @Summary Green Scholar Fund totals
// @Tags Fund
// @Produce json
// @Success 200 {object} response.Response{data=service.FundSummary}
// @Router /api/v1/fund/summary [get]
func (h *WalletHandler) FundSummary(c *gin.Context) {
	s, err := h.fund.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, s)
}
