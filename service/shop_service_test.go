package service

import (
	"context"
	"math"
	"testing"

	"economy/events"
	"economy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type shopFixture struct {
	*economyFixture
	shop      ShopService
	market    MarketplaceService
	items     *MockShopItemRepository
	inventory *MockInventoryRepository
	listings  *MockMarketplaceListingRepository
}

func newShopFixture() *shopFixture {
	f := newEconomyFixture(NewScriptedRandom())
	sf := &shopFixture{
		economyFixture: f,
		items:          new(MockShopItemRepository),
		inventory:      new(MockInventoryRepository),
		listings:       new(MockMarketplaceListingRepository),
	}
	sf.shop = NewShopService(TestGuildID, f.accounts, f.history, sf.items, sf.inventory, f.publisher, f.clock)
	sf.market = NewMarketplaceService(TestGuildID, f.accounts, f.history, sf.inventory, sf.listings, f.publisher)
	return sf
}

func (f *shopFixture) assertAll(t *testing.T) {
	f.economyFixture.assertAll(t)
	f.items.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
	f.listings.AssertExpectations(t)
}

func testItem(price int64) *models.ShopItem {
	return &models.ShopItem{ID: TestItemID, GuildID: TestGuildID, Name: TestItemName, Price: price}
}

func TestShopService_AddItem(t *testing.T) {
	t.Parallel()

	t.Run("creates item", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newShopFixture()
		f.items.On("GetByName", ctx, TestItemName).Return(nil, nil)
		f.items.On("Create", ctx, mock.MatchedBy(func(i *models.ShopItem) bool {
			return i.Name == TestItemName && i.Price == 250 && i.GuildID == TestGuildID
		})).Return(nil)

		item, err := f.shop.AddItem(ctx, "  "+TestItemName+" ", 250, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, TestItemName, item.Name)
		f.assertAll(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newShopFixture()
		f.items.On("GetByName", ctx, "golden ticket").Return(testItem(10), nil)

		_, err := f.shop.AddItem(ctx, "golden ticket", 250, nil, nil)
		assert.ErrorIs(t, err, ErrItemExists)
		f.assertAll(t)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		f := newShopFixture()
		_, err := f.shop.AddItem(context.Background(), "   ", 10, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = f.shop.AddItem(context.Background(), "Hat", 0, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestShopService_RemoveItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShopFixture()

	f.items.On("GetByName", ctx, TestItemName).Return(testItem(10), nil)
	f.items.On("MarkRemoved", ctx, int64(TestItemID), testNow).Return(nil)

	item, err := f.shop.RemoveItem(ctx, TestItemName)
	require.NoError(t, err)
	assert.False(t, item.IsAvailable())
	// Owned copies are left alone
	f.inventory.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)

	f.items.On("GetByName", ctx, "nothing").Return(nil, nil)
	_, err = f.shop.RemoveItem(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShopService_BuyItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShopFixture()

	roleID := int64(4242)
	item := testItem(30)
	item.RoleID = &roleID
	f.items.On("GetByName", ctx, "golden ticket").Return(item, nil)
	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 100), nil)
	f.expectChange(ctx, TestUser1ID, 100, 10, models.TransactionTypeShopPurchase)
	f.inventory.On("Add", ctx, int64(TestUser1ID), int64(TestItemID), int64(3)).Return(int64(5), nil)
	f.publisher.On("Publish", events.ItemPurchasedEvent{
		UserID:     TestUser1ID,
		GuildID:    TestGuildID,
		ItemID:     TestItemID,
		ItemName:   TestItemName,
		Quantity:   3,
		TotalPrice: 90,
		RoleID:     &roleID,
	}).Return(nil)

	result, err := f.shop.BuyItem(ctx, TestUser1ID, "golden ticket", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(90), result.TotalPrice)
	assert.Equal(t, int64(10), result.NewBalance)
	assert.Equal(t, int64(5), result.NewQuantity)
	f.assertAll(t)
}

func TestShopService_BuyItem_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("not enough balance", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newShopFixture()
		f.items.On("GetByName", ctx, TestItemName).Return(testItem(30), nil)
		f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 29), nil)

		_, err := f.shop.BuyItem(ctx, TestUser1ID, TestItemName, 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		f.inventory.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertAll(t)
	})

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newShopFixture()
		f.items.On("GetByName", ctx, "unicorn").Return(nil, nil)

		_, err := f.shop.BuyItem(ctx, TestUser1ID, "unicorn", 1)
		assert.ErrorIs(t, err, ErrNotFound)
		f.assertAll(t)
	})

	t.Run("quantity overflow", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newShopFixture()
		f.items.On("GetByName", ctx, TestItemName).Return(testItem(2), nil)

		_, err := f.shop.BuyItem(ctx, TestUser1ID, TestItemName, math.MaxInt64/2+1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		f.assertAll(t)
	})

	t.Run("zero quantity", func(t *testing.T) {
		t.Parallel()
		f := newShopFixture()
		_, err := f.shop.BuyItem(context.Background(), TestUser1ID, TestItemName, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
