// Command scraper extracts a year of visa bulletins from the command line
// and writes the cutoff table and per-category series to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visatrack/internal/bulletin"
	"visatrack/internal/cache"
	"visatrack/internal/config"
	"visatrack/internal/exporter"
	"visatrack/internal/fetch"
	"visatrack/internal/infrastructure"
	"visatrack/internal/pipeline"
	"visatrack/internal/services"
	"visatrack/pkg/contracts/domain"
)

// logPublisher reports backfill progress on the console.
type logPublisher struct {
	logger *slog.Logger
}

func (p *logPublisher) Publish(e pipeline.Event) {
	attrs := []any{
		slog.String("period", e.Period),
		slog.String("status", e.Status),
	}
	if e.Records > 0 {
		attrs = append(attrs, slog.Int("records", e.Records))
	}
	if e.Error != "" {
		attrs = append(attrs, slog.String("error", e.Error))
	}
	p.logger.Info("backfill progress", attrs...)
}

func main() {
	year := flag.Int("year", time.Now().Year(), "bulletin year to extract")
	outDir := flag.String("out", "exports", "directory to write export files")
	format := flag.String("format", "both", "export format: csv | xlsx | both")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if *year < 2000 || *year > 2100 {
		logger.Error("year out of range", slog.Int("year", *year))
		os.Exit(1)
	}
	switch *format {
	case "csv", "xlsx", "both":
	default:
		logger.Error("unknown format", slog.String("format", *format))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *year, *outDir, *format); err != nil {
		logger.Error("extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, year int, outDir, format string) error {
	client := fetch.NewClient(cfg.Fetch, logger)
	service := services.NewBulletinService(
		client,
		cache.New(),
		cfg.Pipeline.Workers,
		&logPublisher{logger: logger},
		logger,
		nil,
	)

	logger.Info("starting extraction", slog.Int("year", year))
	extracted, err := service.Backfill(ctx, domain.PeriodsForYear(year))
	if err != nil {
		return err
	}
	if len(extracted) == 0 {
		return fmt.Errorf("no bulletins published for %d", year)
	}
	logger.Info("extraction complete",
		slog.Int("year", year),
		slog.Int("periods", len(extracted)))

	if format == "xlsx" || format == "both" {
		w := exporter.NewExcelWriter(outDir, logger)
		if _, err := w.WriteWorkbook(fmt.Sprintf("cutoffs_%d.xlsx", year), extracted); err != nil {
			return err
		}
	}

	if format == "csv" || format == "both" {
		w := exporter.NewCSVWriter(outDir, logger)
		for _, category := range domain.AllCategories() {
			if !category.Tracked() {
				continue
			}
			points := bulletin.BuildSeries(extracted, category)
			if _, err := w.WriteSeries(category, points); err != nil {
				return err
			}
		}
	}

	return nil
}
