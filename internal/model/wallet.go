package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet 居民钱包
// Version 字段实现乐观锁
type Wallet struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"user_id"`
	Balance     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	TotalPoints int64           `gorm:"not null;default:0" json:"total_points"`
	Version     uint64          `gorm:"not null;default:0" json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// WalletLedgerEntry 钱包流水, exactly one per settled collection.
type WalletLedgerEntry struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	CollectionID string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"collection_id"`
	Points       int64           `gorm:"not null" json:"points"`
	ZARAmount    decimal.Decimal `gorm:"column:zar_amount;type:decimal(14,2);not null" json:"zar_amount"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (WalletLedgerEntry) TableName() string {
	return "wallet_ledger_entries"
}

// GreenScholarFundEntry records the fund's share of one settled collection.
type GreenScholarFundEntry struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionID string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"collection_id"`
	CustomerID   string          `gorm:"type:varchar(64);not null;index" json:"customer_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PETAmount    decimal.Decimal `gorm:"column:pet_amount;type:decimal(14,2);not null;default:0" json:"pet_amount"`
	OtherAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"other_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (GreenScholarFundEntry) TableName() string {
	return "green_scholar_fund_entries"
}

// GreenScholarContribution is written by the asynchronous contribution
// processor once the settled event has been handled.
type GreenScholarContribution struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionID string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"collection_id"`
	CustomerID   string          `gorm:"type:varchar(64);not null;index" json:"customer_id"`
	PETAmount    decimal.Decimal `gorm:"column:pet_amount;type:decimal(14,2);not null;default:0" json:"pet_amount"`
	OtherAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"other_amount"`
	ProcessedAt  time.Time       `json:"processed_at"`
}

func (GreenScholarContribution) TableName() string {
	return "green_scholar_contributions"
}
