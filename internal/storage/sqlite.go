//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"evoselect/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) SaveResult(ctx context.Context, runID string, result model.Result) error {
	payload, err := EncodeResult(result)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "run_results", runID, payload)
}

func (s *SQLiteStore) GetResult(ctx context.Context, runID string) (model.Result, bool, error) {
	payload, ok, err := s.getPayload(ctx, "run_results", runID)
	if err != nil || !ok {
		return model.Result{}, ok, err
	}
	result, err := DecodeResult(payload)
	if err != nil {
		return model.Result{}, false, fmt.Errorf("decode result %s: %w", runID, err)
	}
	return result, true, nil
}

func (s *SQLiteStore) SaveHistory(ctx context.Context, runID string, history []model.GenerationStats) error {
	payload, err := EncodeHistory(history)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "run_histories", runID, payload)
}

func (s *SQLiteStore) GetHistory(ctx context.Context, runID string) ([]model.GenerationStats, bool, error) {
	payload, ok, err := s.getPayload(ctx, "run_histories", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	history, err := DecodeHistory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode history %s: %w", runID, err)
	}
	return history, true, nil
}

func (s *SQLiteStore) SaveReport(ctx context.Context, runID string, report model.Report) error {
	payload, err := EncodeReport(report)
	if err != nil {
		return err
	}
	return s.savePayload(ctx, "run_reports", runID, payload)
}

func (s *SQLiteStore) GetReport(ctx context.Context, runID string) (model.Report, bool, error) {
	payload, ok, err := s.getPayload(ctx, "run_reports", runID)
	if err != nil || !ok {
		return model.Report{}, ok, err
	}
	report, err := DecodeReport(payload)
	if err != nil {
		return model.Report{}, false, fmt.Errorf("decode report %s: %w", runID, err)
	}
	return report, true, nil
}

func (s *SQLiteStore) savePayload(ctx context.Context, table, runID string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET payload = excluded.payload
	`, table), runID, payload)
	return err
}

func (s *SQLiteStore) getPayload(ctx context.Context, table, runID string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx, fmt.Sprintf(`SELECT payload FROM %s WHERE run_id = ?`, table), runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"run_results", "run_histories", "run_reports"} {
		_, err := db.ExecContext(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				payload BLOB NOT NULL
			)
		`, table))
		if err != nil {
			return err
		}
	}
	return nil
}
