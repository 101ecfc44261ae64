package repository

import (
	"context"
	"errors"
	"fmt"

	"economy/models"
	"economy/service"

	"github.com/jackc/pgx/v5"
)

const listingSelect = `
	SELECT l.id, l.guild_id, l.seller_id, l.item_id, s.name, l.quantity, l.unit_price, l.created_at
	FROM marketplace_listings l
	JOIN shop_items s ON s.id = l.item_id`

// MarketplaceListingRepository stores escrowed listings
type MarketplaceListingRepository struct {
	q       queryable
	guildID int64
}

func newMarketplaceListingRepository(tx queryable, guildID int64) *MarketplaceListingRepository {
	return &MarketplaceListingRepository{q: tx, guildID: guildID}
}

func scanListing(row pgx.Row) (*models.MarketplaceListing, error) {
	var l models.MarketplaceListing
	err := row.Scan(
		&l.ID,
		&l.GuildID,
		&l.SellerID,
		&l.ItemID,
		&l.ItemName,
		&l.Quantity,
		&l.UnitPrice,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a listing. The goods must already have left the seller's inventory.
func (r *MarketplaceListingRepository) Create(ctx context.Context, listing *models.MarketplaceListing) error {
	query := `
		INSERT INTO marketplace_listings (guild_id, seller_id, item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, r.guildID, listing.SellerID, listing.ItemID, listing.Quantity, listing.UnitPrice).
		Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create listing for user %d: %w", listing.SellerID, err)
	}

	listing.GuildID = r.guildID
	return nil
}

// GetForUpdate returns the listing with only its own row locked
func (r *MarketplaceListingRepository) GetForUpdate(ctx context.Context, id int64) (*models.MarketplaceListing, error) {
	query := listingSelect + `
		WHERE l.guild_id = $1 AND l.id = $2
		FOR UPDATE OF l`

	listing, err := scanListing(r.q.QueryRow(ctx, query, r.guildID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	return listing, nil
}

// List returns the oldest listings first
func (r *MarketplaceListingRepository) List(ctx context.Context, limit int) ([]*models.MarketplaceListing, error) {
	query := listingSelect + `
		WHERE l.guild_id = $1
		ORDER BY l.created_at ASC, l.id ASC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketplace: %w", err)
	}
	defer rows.Close()

	var listings []*models.MarketplaceListing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

// Delete removes a sold or cancelled listing
func (r *MarketplaceListingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM marketplace_listings WHERE guild_id = $1 AND id = $2`, r.guildID, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("listing %d: %w", id, service.ErrNotFound)
	}
	return nil
}
