package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	appErrors "dailygoals-backend/pkg/errors"
)

// SupabaseRowStore persists daily goal rows in a Supabase table. The
// client is constructed once per process and passed in; there is no
// package-level singleton.
type SupabaseRowStore struct {
	client *supabase.Client
	table  string
	logger *zap.Logger
}

// NewSupabaseRowStore creates the store against the given project URL and
// service key.
func NewSupabaseRowStore(url, key, table string, logger *zap.Logger) (*SupabaseRowStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, appErrors.NewInternal("failed to create supabase client", err)
	}
	return &SupabaseRowStore{
		client: client,
		table:  table,
		logger: logger.Named("SupabaseRowStore"),
	}, nil
}

// Get fetches the row for one date key.
func (s *SupabaseRowStore) Get(ctx context.Context, dateKey string) (*Row, error) {
	data, _, err := s.client.From(s.table).
		Select("id,date,goal,completed,summary,todos", "", false).
		Eq("id", dateKey).
		Execute()
	if err != nil {
		return nil, appErrors.NewInternal(fmt.Sprintf("failed to fetch row %s", dateKey), err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, appErrors.NewInternal("failed to decode row", err)
	}
	if len(rows) == 0 {
		return nil, appErrors.NewNotFound("no row for date " + dateKey)
	}
	row := rows[0]
	return &row, nil
}

// List returns all rows ordered by date ascending.
func (s *SupabaseRowStore) List(ctx context.Context) ([]Row, error) {
	data, _, err := s.client.From(s.table).
		Select("id,date,goal,completed,summary,todos", "", false).
		Order("date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, appErrors.NewInternal("failed to list rows", err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, appErrors.NewInternal("failed to decode row listing", err)
	}
	// The order clause already sorts server-side; sorting again keeps the
	// contract independent of the backend.
	SortRows(rows)
	return rows, nil
}

// Upsert writes the row, replacing any existing row for the same date.
func (s *SupabaseRowStore) Upsert(ctx context.Context, row Row) (*Row, error) {
	data, _, err := s.client.From(s.table).
		Insert(row, true, "id", "representation", "").
		Execute()
	if err != nil {
		return nil, appErrors.NewInternal(fmt.Sprintf("failed to upsert row %s", row.ID), err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, appErrors.NewInternal("failed to decode upsert result", err)
	}
	if len(rows) == 0 {
		// Representation can be disabled table-side; fall back to the
		// candidate we sent.
		return &row, nil
	}
	result := rows[0]
	return &result, nil
}

// Delete removes the row for the date key. Returns false when nothing was
// deleted.
func (s *SupabaseRowStore) Delete(ctx context.Context, dateKey string) (bool, error) {
	data, _, err := s.client.From(s.table).
		Delete("representation", "").
		Eq("id", dateKey).
		Execute()
	if err != nil {
		return false, appErrors.NewInternal(fmt.Sprintf("failed to delete row %s", dateKey), err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, appErrors.NewInternal("failed to decode delete result", err)
	}
	return len(rows) > 0, nil
}
