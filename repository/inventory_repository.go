package repository

import (
	"context"
	"errors"
	"fmt"

	"economy/models"
	"economy/service"

	"github.com/jackc/pgx/v5"
)

// InventoryRepository stores how many of each item a user owns
type InventoryRepository struct {
	q       queryable
	guildID int64
}

func newInventoryRepository(tx queryable, guildID int64) *InventoryRepository {
	return &InventoryRepository{q: tx, guildID: guildID}
}

// GetForUpdate returns the locked entry, nil when the user owns none
func (r *InventoryRepository) GetForUpdate(ctx context.Context, userID, itemID int64) (*models.InventoryEntry, error) {
	query := `
		SELECT user_id, guild_id, item_id, quantity
		FROM inventory
		WHERE guild_id = $1 AND user_id = $2 AND item_id = $3
		FOR UPDATE
	`

	var entry models.InventoryEntry
	err := r.q.QueryRow(ctx, query, r.guildID, userID, itemID).Scan(
		&entry.UserID,
		&entry.GuildID,
		&entry.ItemID,
		&entry.Quantity,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory entry: %w", err)
	}
	return &entry, nil
}

// Add increments the owned quantity and returns the new total
func (r *InventoryRepository) Add(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, service.ErrInvalidAmount
	}

	query := `
		INSERT INTO inventory (guild_id, user_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, user_id, item_id)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING quantity
	`

	var total int64
	if err := r.q.QueryRow(ctx, query, r.guildID, userID, itemID, quantity).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to add %d of item %d to user %d: %w", quantity, itemID, userID, err)
	}
	return total, nil
}

// Remove decrements the owned quantity and drops the entry when it reaches zero
func (r *InventoryRepository) Remove(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, service.ErrInvalidAmount
	}

	query := `
		UPDATE inventory
		SET quantity = quantity - $4, updated_at = NOW()
		WHERE guild_id = $1 AND user_id = $2 AND item_id = $3 AND quantity >= $4
		RETURNING quantity
	`

	var remaining int64
	err := r.q.QueryRow(ctx, query, r.guildID, userID, itemID, quantity).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, service.ErrInsufficientItems
	}
	if err != nil {
		return 0, fmt.Errorf("failed to remove %d of item %d from user %d: %w", quantity, itemID, userID, err)
	}

	if remaining == 0 {
		_, err := r.q.Exec(ctx,
			`DELETE FROM inventory WHERE guild_id = $1 AND user_id = $2 AND item_id = $3 AND quantity = 0`,
			r.guildID, userID, itemID)
		if err != nil {
			return 0, fmt.Errorf("failed to drop empty inventory entry: %w", err)
		}
	}
	return remaining, nil
}

// ListByUser returns the user's items with their catalog names, alphabetically
func (r *InventoryRepository) ListByUser(ctx context.Context, userID int64) ([]*models.InventoryItem, error) {
	query := `
		SELECT i.item_id, s.name, s.description, i.quantity
		FROM inventory i
		JOIN shop_items s ON s.id = i.item_id
		WHERE i.guild_id = $1 AND i.user_id = $2 AND i.quantity > 0
		ORDER BY s.name ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Description, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return items, nil
}
