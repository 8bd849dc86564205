package model

// AllModels 返回所有需要迁移的数据库模型对象
// Tests and local development auto-migrate these; production uses migrations/.
func AllModels() []interface{} {
	return []interface{}{
		&Material{},
		&Collection{},
		&CollectionItem{},
		&Wallet{},
		&WalletLedgerEntry{},
		&GreenScholarFundEntry{},
		&GreenScholarContribution{},
		&OutboxMessage{},
	}
}
