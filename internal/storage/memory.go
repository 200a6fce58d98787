package storage

import (
	"context"
	"sync"

	"evoselect/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	results     map[string]model.Result
	histories   map[string][]model.GenerationStats
	reports     map[string]model.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.results = make(map[string]model.Result)
	s.histories = make(map[string][]model.GenerationStats)
	s.reports = make(map[string]model.Report)
	return nil
}

func (s *MemoryStore) SaveResult(_ context.Context, runID string, result model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[runID] = result
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, runID string) (model.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[runID]
	return result, ok, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, runID string, history []model.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[runID] = append([]model.GenerationStats(nil), history...)
	return nil
}

func (s *MemoryStore) GetHistory(_ context.Context, runID string) ([]model.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationStats(nil), history...), true, nil
}

func (s *MemoryStore) SaveReport(_ context.Context, runID string, report model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[runID] = report
	return nil
}

func (s *MemoryStore) GetReport(_ context.Context, runID string) (model.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[runID]
	return report, ok, nil
}
