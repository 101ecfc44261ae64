package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"economy/models"
	"economy/service"

	"github.com/jackc/pgx/v5"
)

const shopItemColumns = `id, guild_id, name, price, description, role_id, created_at, removed_at`

// ShopItemRepository stores the guild catalog
type ShopItemRepository struct {
	q       queryable
	guildID int64
}

func newShopItemRepository(tx queryable, guildID int64) *ShopItemRepository {
	return &ShopItemRepository{q: tx, guildID: guildID}
}

func scanShopItem(row pgx.Row) (*models.ShopItem, error) {
	var item models.ShopItem
	err := row.Scan(
		&item.ID,
		&item.GuildID,
		&item.Name,
		&item.Price,
		&item.Description,
		&item.RoleID,
		&item.CreatedAt,
		&item.RemovedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a catalog item. A name clash with an item on sale returns service.ErrItemExists.
func (r *ShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	query := `
		INSERT INTO shop_items (guild_id, name, price, description, role_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, item.Name, item.Price, item.Description, item.RoleID).
		Scan(&item.ID, &item.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("shop item %q: %w", item.Name, service.ErrItemExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create shop item %q: %w", item.Name, err)
	}

	item.GuildID = r.guildID
	return nil
}

// GetByName finds an item still on sale, ignoring case
func (r *ShopItemRepository) GetByName(ctx context.Context, name string) (*models.ShopItem, error) {
	query := `SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2) AND removed_at IS NULL`

	item, err := scanShopItem(r.q.QueryRow(ctx, query, r.guildID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %q: %w", name, err)
	}
	return item, nil
}

// GetByID finds an item whether or not it is still on sale
func (r *ShopItemRepository) GetByID(ctx context.Context, id int64) (*models.ShopItem, error) {
	query := `SELECT ` + shopItemColumns + ` FROM shop_items WHERE guild_id = $1 AND id = $2`

	item, err := scanShopItem(r.q.QueryRow(ctx, query, r.guildID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %d: %w", id, err)
	}
	return item, nil
}

// List returns the items on sale, cheapest first
func (r *ShopItemRepository) List(ctx context.Context) ([]*models.ShopItem, error) {
	query := `SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1 AND removed_at IS NULL
		ORDER BY price ASC, name ASC`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	defer rows.Close()

	var items []*models.ShopItem
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shop items: %w", err)
	}
	return items, nil
}

// MarkRemoved takes an item off sale. Owned copies and listings keep referencing it.
func (r *ShopItemRepository) MarkRemoved(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE shop_items
		SET removed_at = $1
		WHERE guild_id = $2 AND id = $3 AND removed_at IS NULL
	`

	result, err := r.q.Exec(ctx, query, at.UTC(), r.guildID, id)
	if err != nil {
		return fmt.Errorf("failed to remove shop item %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("shop item %d: %w", id, service.ErrNotFound)
	}
	return nil
}
