package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// JournalRepository хранит журнал событий в таблице journal_events.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(store *Store) *JournalRepository {
	return &JournalRepository{db: store.DB()}
}

func (r *JournalRepository) Append(record domain.JournalRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO journal_events (id, aggregate_id, event_name, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.ID, record.AggregateID, record.EventName, record.Payload, record.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("insert journal record: %w", err)
	}
	return nil
}

func (r *JournalRepository) List(aggregateID string) ([]domain.JournalRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, aggregate_id, event_name, payload, occurred_at
		FROM journal_events
		WHERE aggregate_id = $1
		ORDER BY occurred_at, id
	`, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("select journal records: %w", err)
	}
	defer rows.Close()

	var records []domain.JournalRecord
	for rows.Next() {
		var rec domain.JournalRecord
		if err := rows.Scan(&rec.ID, &rec.AggregateID, &rec.EventName, &rec.Payload, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan journal record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal records: %w", err)
	}
	return records, nil
}

var _ domain.JournalRepository = (*JournalRepository)(nil)
