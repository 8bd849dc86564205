package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wozamali-core/internal/model"
	"wozamali-core/pkg/logger"
)

// 任务类型常量
const (
	TypeSettlementReceipt = "settlement:receipt"
)

// ReceiptPayload 结算回执任务参数
type ReceiptPayload struct {
	CollectionID string          `json:"collection_id"`
	CustomerID   string          `json:"customer_id"`
	ZARAmount    decimal.Decimal `json:"zar_amount"`
	FundAmount   decimal.Decimal `json:"fund_amount"`
	Points       int64           `json:"points"`
}

// ---------------------------------------------------------------------
// 1. Producer (Client) Code
// ---------------------------------------------------------------------

// NewReceiptTask builds the receipt task. The task ID is derived from the
// collection, so enqueueing twice yields asynq.ErrTaskIDConflict.
func NewReceiptTask(p ReceiptPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSettlementReceipt, payload,
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
		asynq.TaskID("receipt:"+p.CollectionID),
	), nil
}

// ---------------------------------------------------------------------
// 2. Consumer (Server) Code
// ---------------------------------------------------------------------

// WalletReader is the wallet lookup the receipt needs.
type WalletReader interface {
	Get(ctx context.Context, userID string) (*model.Wallet, error)
}

type ReceiptHandler struct {
	wallets WalletReader
}

func NewReceiptHandler(wallets WalletReader) *ReceiptHandler {
	return &ReceiptHandler{wallets: wallets}
}

// ProcessTask implements asynq.Handler.
func (h *ReceiptHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p ReceiptPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// JSON 解析失败，重试也没用，直接跳过 (SkipRetry)
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	w, err := h.wallets.Get(ctx, p.CustomerID)
	if err != nil {
		return fmt.Errorf("load wallet %s: %w", p.CustomerID, err)
	}

	logger.Info("settlement receipt delivered",
		zap.String("collection_id", p.CollectionID),
		zap.String("customer_id", p.CustomerID),
		zap.String("zar_amount", p.ZARAmount.StringFixed(2)),
		zap.String("fund_amount", p.FundAmount.StringFixed(2)),
		zap.Int64("points", p.Points),
		zap.String("wallet_balance", w.Balance.StringFixed(2)),
		zap.Int64("wallet_points", w.TotalPoints),
	)
	return nil
}
