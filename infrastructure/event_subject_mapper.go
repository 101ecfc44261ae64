package infrastructure

import (
	"economy/events"
)

const subjectPrefix = "economy."

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:    subjectPrefix + "balance.changed",
	events.EventTypeAccountCreated:   subjectPrefix + "account.created",
	events.EventTypeItemPurchased:    subjectPrefix + "shop.purchased",
	events.EventTypeListingCreated:   subjectPrefix + "market.listed",
	events.EventTypeListingSold:      subjectPrefix + "market.sold",
	events.EventTypeListingCancelled: subjectPrefix + "market.cancelled",
	events.EventTypeDuelResolved:     subjectPrefix + "duel.resolved",
}

// EventSubjectMapper maps domain events to NATS subjects
type EventSubjectMapper struct{}

func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject returns the subject for an event, falling back to economy.unknown.<type>
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return subjectPrefix + "unknown." + string(event.Type())
}

// StreamSubjects is the subject filter of the economy stream
func (m *EventSubjectMapper) StreamSubjects() []string {
	return []string{subjectPrefix + ">"}
}
