package observability

import (
	"context"

	"economy/events"
)

// AttachEventMetrics counts committed balance changes as they leave the unit of work
func (mp *MetricsProvider) AttachEventMetrics(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, mp.handleBalanceChange)
}

func (mp *MetricsProvider) handleBalanceChange(_ context.Context, event events.Event) {
	change, ok := event.(events.BalanceChangeEvent)
	if !ok {
		return
	}
	mp.RecordBalanceTransaction(string(change.TransactionType))
}
