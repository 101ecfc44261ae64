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

const duelColumns = `id, guild_id, challenger_id, opponent_id, amount, state, winner_id, message_id, channel_id, created_at, expires_at, resolved_at`

// DuelRepository stores duel challenges
type DuelRepository struct {
	q       queryable
	guildID int64
}

// NewDuelRepository creates a repository on the pool. The expiry worker uses it
// unscoped to discover which guilds have work.
func NewDuelRepository(db *database.DB) *DuelRepository {
	return &DuelRepository{q: db.Pool}
}

func newDuelRepository(tx queryable, guildID int64) *DuelRepository {
	return &DuelRepository{q: tx, guildID: guildID}
}

func scanDuel(row pgx.Row) (*models.Duel, error) {
	var d models.Duel
	err := row.Scan(
		&d.ID,
		&d.GuildID,
		&d.ChallengerID,
		&d.OpponentID,
		&d.Amount,
		&d.State,
		&d.WinnerID,
		&d.MessageID,
		&d.ChannelID,
		&d.CreatedAt,
		&d.ExpiresAt,
		&d.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a pending duel
func (r *DuelRepository) Create(ctx context.Context, duel *models.Duel) error {
	query := `
		INSERT INTO duels (guild_id, challenger_id, opponent_id, amount, state, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		duel.ChallengerID,
		duel.OpponentID,
		duel.Amount,
		duel.State,
		duel.ExpiresAt.UTC(),
	).Scan(&duel.ID, &duel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create duel: %w", err)
	}

	duel.GuildID = r.guildID
	return nil
}

// GetForUpdate returns the locked duel, nil when absent
func (r *DuelRepository) GetForUpdate(ctx context.Context, id int64) (*models.Duel, error) {
	query := `SELECT ` + duelColumns + ` FROM duels WHERE guild_id = $1 AND id = $2 FOR UPDATE`

	duel, err := scanDuel(r.q.QueryRow(ctx, query, r.guildID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get duel %d: %w", id, err)
	}
	return duel, nil
}

// Update persists the mutable fields of a duel
func (r *DuelRepository) Update(ctx context.Context, duel *models.Duel) error {
	query := `
		UPDATE duels
		SET state = $1, winner_id = $2, message_id = $3, channel_id = $4, resolved_at = $5
		WHERE guild_id = $6 AND id = $7
	`

	result, err := r.q.Exec(ctx, query,
		duel.State,
		duel.WinnerID,
		duel.MessageID,
		duel.ChannelID,
		duel.ResolvedAt,
		r.guildID,
		duel.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update duel %d: %w", duel.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("duel %d not found in guild %d", duel.ID, r.guildID)
	}
	return nil
}

// GetExpiredPending locks pending duels past their window. Rows another worker is
// already closing are skipped.
func (r *DuelRepository) GetExpiredPending(ctx context.Context, now time.Time) ([]*models.Duel, error) {
	query := `SELECT ` + duelColumns + `
		FROM duels
		WHERE guild_id = $1 AND state = 'pending' AND expires_at <= $2
		ORDER BY expires_at ASC
		FOR UPDATE SKIP LOCKED`

	rows, err := r.q.Query(ctx, query, r.guildID, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query expired duels: %w", err)
	}
	defer rows.Close()

	var duels []*models.Duel
	for rows.Next() {
		duel, err := scanDuel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan duel: %w", err)
		}
		duels = append(duels, duel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expired duels: %w", err)
	}
	return duels, nil
}

// GetGuildsWithPendingDuels ignores the guild scope
func (r *DuelRepository) GetGuildsWithPendingDuels(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT guild_id FROM duels WHERE state = 'pending' ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query guilds with pending duels: %w", err)
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		guildIDs = append(guildIDs, guildID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild ids: %w", err)
	}
	return guildIDs, nil
}
