package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	// Timed rewards and penalties
	TransactionTypeDaily      TransactionType = "daily"
	TransactionTypeWork       TransactionType = "work"
	TransactionTypeCrimeWin   TransactionType = "crime_win"
	TransactionTypeCrimeFine  TransactionType = "crime_fine"
	TransactionTypeRobGain    TransactionType = "rob_gain"
	TransactionTypeRobLoss    TransactionType = "rob_loss"
	TransactionTypeRobPenalty TransactionType = "rob_penalty"

	// Gambling
	TransactionTypeWagerWin  TransactionType = "wager_win"
	TransactionTypeWagerLoss TransactionType = "wager_loss"
	TransactionTypeDuelWin   TransactionType = "duel_win"
	TransactionTypeDuelLoss  TransactionType = "duel_loss"

	// Transfers
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Shop and marketplace
	TransactionTypeShopPurchase   TransactionType = "shop_purchase"
	TransactionTypeMarketPurchase TransactionType = "market_purchase"
	TransactionTypeMarketSale     TransactionType = "market_sale"

	// System
	TransactionTypeActivity    TransactionType = "activity"
	TransactionTypeAdminCredit TransactionType = "admin_credit"
)

// IsTransferType returns true for both legs of a peer transfer
func (tt TransactionType) IsTransferType() bool {
	return tt == TransactionTypeTransferIn || tt == TransactionTypeTransferOut
}

// CreatesCurrency reports whether the transaction type mints new currency
func (tt TransactionType) CreatesCurrency() bool {
	switch tt {
	case TransactionTypeDaily, TransactionTypeWork, TransactionTypeCrimeWin,
		TransactionTypeWagerWin, TransactionTypeActivity:
		return true
	}
	return false
}

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id" json:"id"`
	UserID              int64           `db:"user_id" json:"user_id,string"`
	GuildID             int64           `db:"guild_id" json:"guild_id,string"`
	BalanceBefore       int64           `db:"balance_before" json:"balance_before"`
	BalanceAfter        int64           `db:"balance_after" json:"balance_after"`
	ChangeAmount        int64           `db:"change_amount" json:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type" json:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata" json:"metadata,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}
