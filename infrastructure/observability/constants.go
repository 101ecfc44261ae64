package observability

const MetricPrefix = "economy"

// Metric names
const (
	OperationsTotal            = MetricPrefix + ".operations_total"
	OperationDuration          = MetricPrefix + ".operation_duration"
	BalanceTransactionsTotal   = MetricPrefix + ".balance.transactions_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelType      = "type"
	LabelEventType = "event_type"
)

// Operation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
