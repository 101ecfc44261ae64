package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"economy/database"
	"economy/models"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `user_id, guild_id, balance, last_daily, last_work, last_crime, last_rob, created_at, updated_at`

// AccountRepository stores per-guild balances and cooldown timestamps
type AccountRepository struct {
	q       queryable
	guildID int64
}

// NewAccountRepository creates an account repository on the pool, outside any transaction
func NewAccountRepository(db *database.DB, guildID int64) *AccountRepository {
	return &AccountRepository{q: db.Pool, guildID: guildID}
}

func newAccountRepository(tx queryable, guildID int64) *AccountRepository {
	return &AccountRepository{q: tx, guildID: guildID}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.UserID,
		&a.GuildID,
		&a.Balance,
		&a.LastDaily,
		&a.LastWork,
		&a.LastCrime,
		&a.LastRob,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns the stored account, nil when the user has never been seen in this guild
func (r *AccountRepository) Get(ctx context.Context, userID int64) (*models.Account, error) {
	return r.get(ctx, userID, "")
}

// GetForUpdate returns the stored account with its row locked until the transaction ends
func (r *AccountRepository) GetForUpdate(ctx context.Context, userID int64) (*models.Account, error) {
	return r.get(ctx, userID, "FOR UPDATE")
}

func (r *AccountRepository) get(ctx context.Context, userID int64, lockClause string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE guild_id = $1 AND user_id = $2 ` + lockClause

	account, err := scanAccount(r.q.QueryRow(ctx, query, r.guildID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
	}
	return account, nil
}

// GetOrCreateForUpdate inserts a zero-balance account when missing and returns it locked.
// Concurrent creators serialize on the primary key, so exactly one of them sees created.
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*models.Account, bool, error) {
	insert := `
		INSERT INTO accounts (guild_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, user_id) DO NOTHING
		RETURNING user_id
	`

	created := true
	var inserted int64
	err := r.q.QueryRow(ctx, insert, r.guildID, userID).Scan(&inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to create account %d: %w", userID, err)
	}

	account, err := r.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if account == nil {
		return nil, false, fmt.Errorf("account %d vanished after insert", userID)
	}
	return account, created, nil
}

// SetBalance overwrites an account balance
func (r *AccountRepository) SetBalance(ctx context.Context, userID int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE guild_id = $2 AND user_id = $3
	`

	result, err := r.q.Exec(ctx, query, newBalance, r.guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found in guild %d", userID, r.guildID)
	}
	return nil
}

func cooldownColumn(action models.CooldownAction) (string, error) {
	switch action {
	case models.CooldownDaily:
		return "last_daily", nil
	case models.CooldownWork:
		return "last_work", nil
	case models.CooldownCrime:
		return "last_crime", nil
	case models.CooldownRob:
		return "last_rob", nil
	}
	return "", fmt.Errorf("unknown cooldown action %q", action)
}

// SetCooldown records the last use of a timed action
func (r *AccountRepository) SetCooldown(ctx context.Context, userID int64, action models.CooldownAction, at time.Time) error {
	column, err := cooldownColumn(action)
	if err != nil {
		return err
	}

	query := `UPDATE accounts SET ` + column + ` = $1, updated_at = NOW() WHERE guild_id = $2 AND user_id = $3`
	result, err := r.q.Exec(ctx, query, at.UTC(), r.guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to set %s cooldown for user %d: %w", action, userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found in guild %d", userID, r.guildID)
	}
	return nil
}

// TopBalances returns the richest accounts; ties are ordered by user id so ranks are stable
func (r *AccountRepository) TopBalances(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, balance
		FROM accounts
		WHERE guild_id = $1
		ORDER BY balance DESC, user_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.UserID, &entry.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}

// SumBalances returns the total currency held in the guild
func (r *AccountRepository) SumBalances(ctx context.Context) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0)::BIGINT FROM accounts WHERE guild_id = $1`, r.guildID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum balances: %w", err)
	}
	return total, nil
}
