package models

import (
	"time"
)

// ShopItem is a catalog entry sold by the guild shop
type ShopItem struct {
	ID          int64      `db:"id" json:"id"`
	GuildID     int64      `db:"guild_id" json:"guild_id,string"`
	Name        string     `db:"name" json:"name"`
	Price       int64      `db:"price" json:"price"`
	Description *string    `db:"description" json:"description,omitempty"`
	RoleID      *int64     `db:"role_id" json:"role_id,omitempty,string"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	RemovedAt   *time.Time `db:"removed_at" json:"-"`
}

// IsAvailable reports whether the item can still be bought from the shop
func (i *ShopItem) IsAvailable() bool {
	return i.RemovedAt == nil
}

// InventoryEntry is the quantity of one item owned by a user
type InventoryEntry struct {
	UserID   int64 `db:"user_id"`
	GuildID  int64 `db:"guild_id"`
	ItemID   int64 `db:"item_id"`
	Quantity int64 `db:"quantity"`
}

// InventoryItem is an inventory entry joined with its catalog data for display
type InventoryItem struct {
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Quantity    int64   `json:"quantity"`
}

// MarketplaceListing holds escrowed goods offered by a seller
type MarketplaceListing struct {
	ID        int64     `db:"id" json:"id"`
	GuildID   int64     `db:"guild_id" json:"guild_id,string"`
	SellerID  int64     `db:"seller_id" json:"seller_id,string"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	ItemName  string    `db:"-" json:"item_name"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	UnitPrice int64     `db:"unit_price" json:"unit_price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TotalPrice is what a buyer pays for the whole listing
func (l *MarketplaceListing) TotalPrice() int64 {
	return l.UnitPrice * l.Quantity
}
