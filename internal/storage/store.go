package storage

import (
	"context"

	"evoselect/internal/model"
)

// Store persists finished run outputs keyed by run ID. It never holds live
// search state; a run that dies mid-evolution leaves nothing behind.
type Store interface {
	Init(ctx context.Context) error
	SaveResult(ctx context.Context, runID string, result model.Result) error
	GetResult(ctx context.Context, runID string) (model.Result, bool, error)
	SaveHistory(ctx context.Context, runID string, history []model.GenerationStats) error
	GetHistory(ctx context.Context, runID string) ([]model.GenerationStats, bool, error)
	SaveReport(ctx context.Context, runID string, report model.Report) error
	GetReport(ctx context.Context, runID string) (model.Report, bool, error)
}
