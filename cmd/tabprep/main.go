package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tabprep/internal/cleanse"
	"tabprep/internal/config"
	"tabprep/internal/files"
	"tabprep/internal/infrastructure"
)

func main() {
	inPath := flag.String("in", "", "input file (.csv or .xlsx)")
	outPath := flag.String("out", "", "output CSV file")
	bom := flag.Bool("bom", false, "prepend UTF-8 BOM to output for Excel")
	workers := flag.Int("workers", 0, "per-column workers within a stage (0 = one per CPU)")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tabprep -in input.csv -out cleaned.csv [-bom] [-workers N]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *workers == 0 {
		*workers = cfg.Pipeline.Workers
	}

	if err := run(context.Background(), logger, *inPath, *outPath, *bom, *workers); err != nil {
		logger.Error("Cleansing failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, inPath, outPath string, bom bool, workers int) error {
	f, err := files.Load(inPath)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	logger.Info("Input loaded",
		slog.String("path", inPath),
		slog.Int("rows", f.Rows()),
		slog.Int("columns", f.Cols()))

	runner, err := cleanse.NewPipeline(logger, cleanse.Options{Workers: workers})
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	state, err := runner.Run(ctx, f)
	if err != nil {
		return fmt.Errorf("pipeline run %s failed: %w", state.ID, err)
	}

	for _, col := range f.Columns() {
		logger.Info("Column classified",
			slog.String("column", col.Name),
			slog.String("type", string(col.Claim)))
	}

	if err := files.WriteCSVFile(outPath, f, files.WriteOptions{BOMPrefix: bom}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("Output written",
		slog.String("path", outPath),
		slog.Duration("duration", state.Duration()))
	return nil
}
