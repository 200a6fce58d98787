// Package evoselect is the public client surface for running and querying
// genetic feature selection optimizations.
package evoselect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"evoselect/internal/dataset"
	"evoselect/internal/evo"
	"evoselect/internal/model"
	"evoselect/internal/report"
	"evoselect/internal/scorer"
	"evoselect/internal/stats"
	"evoselect/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"
	defaultDBPath        = "evoselect.db"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
}

type Client struct {
	store       storage.Store
	initialized bool

	benchmarksDir string
	exportsDir    string
}

type RunRequest struct {
	DatasetPath    string
	TargetColumn   string
	Population     int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	EliteFraction  float64
	TournamentSize int
	Seed           int64
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	SelectedFeatures []int
	FeatureNames     []string
	FeatureCount     int
	Accuracy         float64
	FitnessScore     float64
	Reduction        float64
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Dataset      string
	Seed         int64
	Population   int
	Generations  int
	FeatureCount int
	Accuracy     float64
	FitnessScore float64
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ReportRequest struct {
	RunID  string
	Latest bool
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Inspect reports a dataset's shape and column types without running an
// optimization.
func (c *Client) Inspect(_ context.Context, datasetPath string) (dataset.Info, error) {
	if datasetPath == "" {
		return dataset.Info{}, errors.New("dataset path is required")
	}
	return dataset.Describe(datasetPath)
}

// Run executes one full optimization: load and prepare the dataset, evolve,
// build the report, write artifacts and persist the outputs.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.DatasetPath == "" {
		return RunSummary{}, errors.New("dataset path is required")
	}
	if req.Population <= 0 {
		req.Population = 60
	}
	if req.Generations <= 0 {
		req.Generations = 50
	}
	if req.MutationRate <= 0 {
		req.MutationRate = 0.15
	}
	if req.CrossoverRate <= 0 {
		req.CrossoverRate = 0.85
	}
	if req.EliteFraction <= 0 {
		req.EliteFraction = 0.1
	}
	if req.TournamentSize <= 0 {
		req.TournamentSize = 5
	}

	ds, err := dataset.Load(req.DatasetPath, req.TargetColumn)
	if err != nil {
		return RunSummary{}, fmt.Errorf("load dataset: %w", err)
	}

	sc, err := scorer.NewForestScorer(scorer.DefaultConfig())
	if err != nil {
		return RunSummary{}, err
	}

	optimizer, err := evo.NewOptimizer(ds, sc, evo.Config{
		PopulationSize: req.Population,
		Generations:    req.Generations,
		MutationRate:   req.MutationRate,
		CrossoverRate:  req.CrossoverRate,
		EliteFraction:  req.EliteFraction,
		TournamentSize: req.TournamentSize,
		Seed:           req.Seed,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := optimizer.Evolve(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	result.FeatureNames = selectedNames(ds.FeatureNames, result.SelectedFeatures)

	analyzer, err := report.NewAnalyzer(ds)
	if err != nil {
		return RunSummary{}, err
	}
	runReport := analyzer.Build(result)

	now := time.Now().UTC()
	runID := fmt.Sprintf("%s-%d-%s", datasetStem(req.DatasetPath), req.Seed, uuid.NewString()[:8])

	eliteCount := int(req.EliteFraction * float64(req.Population))
	if eliteCount < 1 {
		eliteCount = 1
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          runID,
			Dataset:        filepath.Base(req.DatasetPath),
			TargetColumn:   ds.TargetName,
			TotalFeatures:  ds.FeatureCount(),
			TotalRows:      ds.Rows(),
			PopulationSize: req.Population,
			Generations:    req.Generations,
			MutationRate:   req.MutationRate,
			CrossoverRate:  req.CrossoverRate,
			EliteFraction:  req.EliteFraction,
			EliteCount:     eliteCount,
			TournamentSize: req.TournamentSize,
			Seed:           req.Seed,
		},
		Result: result,
		Report: runReport,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:          runID,
		Dataset:        filepath.Base(req.DatasetPath),
		PopulationSize: req.Population,
		Generations:    req.Generations,
		Seed:           req.Seed,
		EliteCount:     eliteCount,
		FeatureCount:   result.FeatureCount,
		Accuracy:       result.Accuracy,
		FitnessScore:   result.FitnessScore,
		CreatedAtUTC:   now.Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveResult(ctx, runID, result); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveHistory(ctx, runID, result.History); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveReport(ctx, runID, runReport); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		SelectedFeatures: append([]int(nil), result.SelectedFeatures...),
		FeatureNames:     append([]string(nil), result.FeatureNames...),
		FeatureCount:     result.FeatureCount,
		Accuracy:         result.Accuracy,
		FitnessScore:     result.FitnessScore,
		Reduction:        runReport.Comparison.ReductionPercentage,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:        e.RunID,
			CreatedAtUTC: e.CreatedAtUTC,
			Dataset:      e.Dataset,
			Seed:         e.Seed,
			Population:   e.PopulationSize,
			Generations:  e.Generations,
			FeatureCount: e.FeatureCount,
			Accuracy:     e.Accuracy,
			FitnessScore: e.FitnessScore,
		})
	}
	return out, nil
}

// History returns a run's per-generation statistics.
func (c *Client) History(ctx context.Context, req HistoryRequest) ([]model.GenerationStats, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Stores scoped to one process miss runs recorded by earlier
		// invocations; the artifacts directory is the durable record.
		if err := readArtifact(c.benchmarksDir, runID, "history.json", &history); err != nil {
			return nil, fmt.Errorf("history not found for run id: %s", runID)
		}
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return history, nil
}

// Result returns a run's persisted result.
func (c *Client) Result(ctx context.Context, req ReportRequest) (model.Result, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return model.Result{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return model.Result{}, err
	}
	result, ok, err := c.store.GetResult(ctx, runID)
	if err != nil {
		return model.Result{}, err
	}
	if !ok {
		if err := readArtifact(c.benchmarksDir, runID, "result.json", &result); err != nil {
			return model.Result{}, fmt.Errorf("result not found for run id: %s", runID)
		}
	}
	return result, nil
}

// Report returns a run's persisted analysis report.
func (c *Client) Report(ctx context.Context, req ReportRequest) (model.Report, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return model.Report{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return model.Report{}, err
	}
	runReport, ok, err := c.store.GetReport(ctx, runID)
	if err != nil {
		return model.Report{}, err
	}
	if !ok {
		if err := readArtifact(c.benchmarksDir, runID, "report.json", &runReport); err != nil {
			return model.Report{}, fmt.Errorf("report not found for run id: %s", runID)
		}
	}
	return runReport, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.benchmarksDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func readArtifact(baseDir, runID, file string, out any) error {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, file))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func selectedNames(names []string, selected []int) []string {
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, names[idx])
	}
	return out
}

func datasetStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
