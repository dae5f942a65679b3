package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// journalRepositoryInMemory хранит журнал событий в памяти (для разработки/тестов).
type journalRepositoryInMemory struct {
	mu      sync.RWMutex
	records map[string][]domain.JournalRecord
}

// NewJournalRepository создаёт in-memory реализацию JournalRepository.
func NewJournalRepository() domain.JournalRepository {
	return &journalRepositoryInMemory{records: make(map[string][]domain.JournalRecord)}
}

// Append добавляет запись, сохраняя хронологический порядок по агрегату.
func (r *journalRepositoryInMemory) Append(record domain.JournalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.records[record.AggregateID], record)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OccurredAt.Before(list[j].OccurredAt)
	})
	r.records[record.AggregateID] = list
	return nil
}

// List возвращает записи агрегата в хронологическом порядке.
func (r *journalRepositoryInMemory) List(aggregateID string) ([]domain.JournalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.records[aggregateID]
	result := make([]domain.JournalRecord, len(records))
	copy(result, records)
	return result, nil
}

var _ domain.JournalRepository = (*journalRepositoryInMemory)(nil)
