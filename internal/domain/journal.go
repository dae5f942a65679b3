package domain

import "time"

// JournalRecord — запись аудита о доставленном событии.
type JournalRecord struct {
	ID          string
	AggregateID string
	EventName   string
	Payload     []byte
	OccurredAt  time.Time
}
