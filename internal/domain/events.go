package domain

import "time"

type EventType string

const (
	EventTransactionRecorded EventType = "transaction.recorded"
	EventTransactionVoided   EventType = "transaction.voided"
)

// TransactionEvent is emitted after the ledger changes. Restocked lists the
// quantities put back on the shelf by a void, if any.
type TransactionEvent struct {
	Type        EventType      `json:"event_type"`
	Transaction Transaction    `json:"transaction"`
	Restocked   map[string]int `json:"restocked,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
