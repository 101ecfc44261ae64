package testutil

import (
	"context"
	"testing"

	"economy/database"

	"github.com/stretchr/testify/require"
)

// SeedAccount stores an account with the given balance, bypassing the ledger.
// A matching history row keeps the balances-equal-history check meaningful.
func SeedAccount(t *testing.T, db *database.DB, guildID, userID, balance int64) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO accounts (guild_id, user_id, balance) VALUES ($1, $2, $3)`,
		guildID, userID, balance)
	require.NoError(t, err)

	if balance != 0 {
		_, err = db.Exec(ctx, `
			INSERT INTO balance_history (guild_id, user_id, balance_before, balance_after, change_amount, transaction_type)
			VALUES ($1, $2, 0, $3, $3, 'admin_credit')`,
			guildID, userID, balance)
		require.NoError(t, err)
	}
}

// SeedShopItem stores a catalog item and returns its id
func SeedShopItem(t *testing.T, db *database.DB, guildID int64, name string, price int64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO shop_items (guild_id, name, price) VALUES ($1, $2, $3) RETURNING id`,
		guildID, name, price).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedInventory gives a user quantity of an item
func SeedInventory(t *testing.T, db *database.DB, guildID, userID, itemID, quantity int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO inventory (guild_id, user_id, item_id, quantity) VALUES ($1, $2, $3, $4)`,
		guildID, userID, itemID, quantity)
	require.NoError(t, err)
}

// Balance reads a stored balance directly
func Balance(t *testing.T, db *database.DB, guildID, userID int64) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(context.Background(),
		`SELECT balance FROM accounts WHERE guild_id = $1 AND user_id = $2`,
		guildID, userID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// HistoryCount counts history rows for a user
func HistoryCount(t *testing.T, db *database.DB, guildID, userID int64) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM balance_history WHERE guild_id = $1 AND user_id = $2`,
		guildID, userID).Scan(&count)
	require.NoError(t, err)
	return count
}
