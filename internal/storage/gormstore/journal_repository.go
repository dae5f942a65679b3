package gormstore

import (
	"fmt"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// JournalRepository: GORM-реализация domain.JournalRepository.
type JournalRepository struct {
	store *Store
}

func NewJournalRepository(store *Store) *JournalRepository {
	return &JournalRepository{store: store}
}

func (r *JournalRepository) Append(record domain.JournalRecord) error {
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := journalModel{
		ID:          record.ID,
		AggregateID: record.AggregateID,
		EventName:   record.EventName,
		Payload:     record.Payload,
		OccurredAt:  record.OccurredAt.UTC(),
	}
	if err := db.Create(&model).Error; err != nil {
		return fmt.Errorf("insert journal record: %w", err)
	}
	return nil
}

func (r *JournalRepository) List(aggregateID string) ([]domain.JournalRecord, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var models []journalModel
	if err := db.Where("aggregate_id = ?", aggregateID).Order("occurred_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select journal records: %w", err)
	}

	records := make([]domain.JournalRecord, 0, len(models))
	for _, m := range models {
		records = append(records, domain.JournalRecord{
			ID:          m.ID,
			AggregateID: m.AggregateID,
			EventName:   m.EventName,
			Payload:     m.Payload,
			OccurredAt:  m.OccurredAt,
		})
	}
	return records, nil
}

var _ domain.JournalRepository = (*JournalRepository)(nil)
