package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"evoselect/internal/storage"
	selapi "evoselect/pkg/evoselect"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "inspect":
		return runInspect(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "result":
		return runResult(ctx, args[1:])
	case "report":
		return runReport(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	datasetPath := fs.String("dataset", "", "path to .csv or .xlsx dataset")
	targetColumn := fs.String("target", "", "target column name (default: last column)")
	population := fs.Int("pop", 60, "population size")
	generations := fs.Int("gens", 50, "generation count")
	mutationRate := fs.Float64("mutation-rate", 0.15, "initial mutation probability")
	crossoverRate := fs.Float64("crossover-rate", 0.85, "crossover probability")
	eliteFraction := fs.Float64("elite-fraction", 0.1, "fraction of top individuals preserved per generation")
	tournamentSize := fs.Int("tournament", 5, "tournament selection size")
	seed := fs.Int64("seed", 0, "rng seed (0 uses a time-based seed)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "evoselect.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *datasetPath == "" {
		return usageError("run requires -dataset")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, selapi.RunRequest{
		DatasetPath:    *datasetPath,
		TargetColumn:   *targetColumn,
		Population:     *population,
		Generations:    *generations,
		MutationRate:   *mutationRate,
		CrossoverRate:  *crossoverRate,
		EliteFraction:  *eliteFraction,
		TournamentSize: *tournamentSize,
		Seed:           *seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", summary.RunID)
	fmt.Printf("artifacts: %s\n", summary.ArtifactsDir)
	fmt.Printf("selected %d features (%.1f%% reduction): %v\n", summary.FeatureCount, summary.Reduction, summary.FeatureNames)
	fmt.Printf("accuracy: %.4f fitness: %.4f\n", summary.Accuracy, summary.FitnessScore)
	return nil
}

func runInspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	datasetPath := fs.String("dataset", "", "path to .csv or .xlsx dataset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *datasetPath == "" {
		return usageError("inspect requires -dataset")
	}

	client, err := newClient(storage.DefaultStoreKind(), "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	info, err := client.Inspect(ctx, *datasetPath)
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum entries to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(storage.DefaultStoreKind(), "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, selapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Printf("%s dataset=%s pop=%d gens=%d seed=%d features=%d accuracy=%.4f fitness=%.4f created=%s\n",
			item.RunID, item.Dataset, item.Population, item.Generations, item.Seed,
			item.FeatureCount, item.Accuracy, item.FitnessScore, item.CreatedAtUTC)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "maximum generations to show (0 shows all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "evoselect.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, selapi.HistoryRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	return printJSON(history)
}

func runResult(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("result", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "evoselect.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	result, err := client.Result(ctx, selapi.ReportRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "evoselect.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runReport, err := client.Report(ctx, selapi.ReportRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	return printJSON(runReport)
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	outDir := fs.String("out", exportsDir, "export destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(storage.DefaultStoreKind(), "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, selapi.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run %s to %s\n", summary.RunID, summary.Directory)
	return nil
}

func newClient(storeKind, dbPath string) (*selapi.Client, error) {
	return selapi.New(selapi.Options{
		StoreKind:     storeKind,
		DBPath:        dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
	})
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: evoselectctl <run|inspect|runs|history|result|report|export> [flags]", msg)
}
