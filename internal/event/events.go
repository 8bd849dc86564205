package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionSettledEvent 回收单结算完成事件
// Topic: settlement.settled_topic (default wozamali_events_collection_settled)
// Key: customer ID, so one customer's settlements stay ordered.
type CollectionSettledEvent struct {
	CollectionID     string          `json:"collection_id"`
	CustomerID       string          `json:"customer_id"`
	CollectorID      string          `json:"collector_id"`
	TotalKilograms   decimal.Decimal `json:"total_kilograms"`
	TotalValue       decimal.Decimal `json:"total_value"`
	PointsEarned     int64           `json:"points_earned"`
	GreenScholarFund decimal.Decimal `json:"green_scholar_fund"`
	UserWallet       decimal.Decimal `json:"user_wallet"`
	PETFundAmount    decimal.Decimal `json:"pet_fund_amount"`
	OtherFundAmount  decimal.Decimal `json:"other_fund_amount"`
	SkippedIndices   []int           `json:"skipped_indices,omitempty"`
	SettledAt        time.Time       `json:"settled_at"`
}
