package events

import (
	"context"
	"sync"

	"economy/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypeAccountCreated   EventType = "account_created"
	EventTypeItemPurchased    EventType = "item_purchased"
	EventTypeListingCreated   EventType = "listing_created"
	EventTypeListingSold      EventType = "listing_sold"
	EventTypeListingCancelled EventType = "listing_cancelled"
	EventTypeDuelResolved     EventType = "duel_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                  `json:"user_id"`
	GuildID         int64                  `json:"guild_id"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                  `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted the first time an account is stored
type AccountCreatedEvent struct {
	UserID  int64 `json:"user_id"`
	GuildID int64 `json:"guild_id"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// ItemPurchasedEvent is emitted when a shop item is bought
type ItemPurchasedEvent struct {
	UserID     int64  `json:"user_id"`
	GuildID    int64  `json:"guild_id"`
	ItemID     int64  `json:"item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int64  `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
	RoleID     *int64 `json:"role_id,omitempty"`
}

func (e ItemPurchasedEvent) Type() EventType {
	return EventTypeItemPurchased
}

// ListingCreatedEvent is emitted when goods move into marketplace escrow
type ListingCreatedEvent struct {
	ListingID int64 `json:"listing_id"`
	GuildID   int64 `json:"guild_id"`
	SellerID  int64 `json:"seller_id"`
	ItemID    int64 `json:"item_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

func (e ListingCreatedEvent) Type() EventType {
	return EventTypeListingCreated
}

// ListingSoldEvent is emitted when a marketplace trade completes
type ListingSoldEvent struct {
	ListingID  int64 `json:"listing_id"`
	GuildID    int64 `json:"guild_id"`
	SellerID   int64 `json:"seller_id"`
	BuyerID    int64 `json:"buyer_id"`
	ItemID     int64 `json:"item_id"`
	Quantity   int64 `json:"quantity"`
	TotalPrice int64 `json:"total_price"`
}

func (e ListingSoldEvent) Type() EventType {
	return EventTypeListingSold
}

// ListingCancelledEvent is emitted when escrowed goods return to the seller
type ListingCancelledEvent struct {
	ListingID   int64 `json:"listing_id"`
	GuildID     int64 `json:"guild_id"`
	SellerID    int64 `json:"seller_id"`
	CancelledBy int64 `json:"cancelled_by"`
}

func (e ListingCancelledEvent) Type() EventType {
	return EventTypeListingCancelled
}

// DuelResolvedEvent is emitted when a duel is settled
type DuelResolvedEvent struct {
	DuelID   int64 `json:"duel_id"`
	GuildID  int64 `json:"guild_id"`
	WinnerID int64 `json:"winner_id"`
	LoserID  int64 `json:"loser_id"`
	Amount   int64 `json:"amount"`
}

func (e DuelResolvedEvent) Type() EventType {
	return EventTypeDuelResolved
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]Handler
	allHandlers []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event, used to forward events off-process
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allHandlers = append(b.allHandlers, handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks a ledger operation
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes the event until Flush
func (b *TransactionalBus) Publish(e Event) error {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
	return nil
}

// Pending returns the number of events waiting for commit
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush emits pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events from transactional bus")

	// Subscribers outlive the transaction, so they must not inherit its deadline
	eventCtx := context.WithoutCancel(ctx)

	if b.real != nil {
		for _, ev := range b.pending {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	if len(b.pending) > 0 {
		log.WithField("discardedEventCount", len(b.pending)).Debug("Discarding pending events from transactional bus")
	}
	b.pending = nil
}
