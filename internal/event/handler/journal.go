package handler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// RecordJournal сохраняет каждое доставленное событие в журнал аудита.
// Подходит для регистрации на любой тип события.
type RecordJournal struct {
	repo   domain.JournalRepository
	logger *log.Entry
}

func NewRecordJournal(repo domain.JournalRepository, logger *log.Entry) *RecordJournal {
	return &RecordJournal{repo: repo, logger: componentLogger(logger, "record_journal")}
}

func (h *RecordJournal) Handle(e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", e.Name(), err)
	}

	record := domain.JournalRecord{
		ID:          uuid.NewString(),
		AggregateID: e.AggregateID(),
		EventName:   string(e.Name()),
		Payload:     payload,
		OccurredAt:  e.OccurredAt(),
	}
	if err := h.repo.Append(record); err != nil {
		return fmt.Errorf("append journal record: %w", err)
	}

	h.logger.WithFields(log.Fields{
		"event":        e.Name(),
		"aggregate_id": record.AggregateID,
		"record_id":    record.ID,
	}).Debug("event journaled")
	return nil
}
