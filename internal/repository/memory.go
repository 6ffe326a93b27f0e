package repository

import (
	"context"
	"sync"

	appErrors "dailygoals-backend/pkg/errors"
)

// MemoryRowStore is an in-memory RowStore used by tests and local
// development. It mirrors the Supabase contract, including not-found
// semantics and date-ordered listings.
type MemoryRowStore struct {
	mu   sync.RWMutex
	rows map[string]Row

	// forcedErr, when set, is returned by every operation. Tests use it
	// to exercise the best-effort persistence path.
	forcedErr error

	upsertCalls int
}

// NewMemoryRowStore creates an empty in-memory store.
func NewMemoryRowStore() *MemoryRowStore {
	return &MemoryRowStore{rows: make(map[string]Row)}
}

// Seed loads rows without counting as upsert calls.
func (m *MemoryRowStore) Seed(rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.rows[r.ID] = r
	}
}

// SetError forces every subsequent operation to fail with err.
func (m *MemoryRowStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forcedErr = err
}

// UpsertCalls reports how many writes reached the store.
func (m *MemoryRowStore) UpsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upsertCalls
}

func (m *MemoryRowStore) Get(ctx context.Context, dateKey string) (*Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	row, ok := m.rows[dateKey]
	if !ok {
		return nil, appErrors.NewNotFound("no row for date " + dateKey)
	}
	return &row, nil
}

func (m *MemoryRowStore) List(ctx context.Context) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	rows := make([]Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, r)
	}
	SortRows(rows)
	return rows, nil
}

func (m *MemoryRowStore) Upsert(ctx context.Context, row Row) (*Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	m.upsertCalls++
	m.rows[row.ID] = row
	return &row, nil
}

func (m *MemoryRowStore) Delete(ctx context.Context, dateKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forcedErr != nil {
		return false, m.forcedErr
	}
	if _, ok := m.rows[dateKey]; !ok {
		return false, nil
	}
	delete(m.rows, dateKey)
	return true, nil
}
