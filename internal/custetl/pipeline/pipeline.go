// Package pipeline runs one customer ETL batch end to end:
// read -> transform -> dedup -> export -> load.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vaibhaw-/custetl/internal/custetl/config"
	"github.com/vaibhaw-/custetl/internal/custetl/dedup"
	"github.com/vaibhaw-/custetl/internal/custetl/export"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/metrics"
	"github.com/vaibhaw-/custetl/internal/custetl/reader"
	"github.com/vaibhaw-/custetl/internal/custetl/store"
	"github.com/vaibhaw-/custetl/internal/custetl/transform"
)

// RunSummary is appended to the run log as one JSON line per successful run.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	StartedAt   string        `json:"started_at"`
	FinishedAt  string        `json:"finished_at"`
	AsOf        string        `json:"as_of"`
	Input       string        `json:"input"`
	Export      string        `json:"export"`
	Driver      string        `json:"driver"`
	Database    string        `json:"database"`
	Lines       int           `json:"lines"`
	DetailRows  int           `json:"detail_rows"`
	SkippedRows int           `json:"skipped_rows"`
	ParseErrors int           `json:"parse_errors"`
	Customers   int           `json:"customers"`
	Load        store.Summary `json:"load"`
}

// Runner wires the stages together. Recorder may be nil.
type Runner struct {
	Config   *config.Config
	Recorder metrics.Recorder

	// openStore is replaced in tests.
	openStore func(context.Context, store.Options, store.Credentials) (*store.Conn, error)
}

// New returns a Runner for cfg. When metrics.pushgateway_url is set the
// run's counters are pushed at the end.
func New(cfg *config.Config) (*Runner, error) {
	rec := metrics.Nop()
	if cfg.Metrics.PushgatewayURL != "" {
		p, err := metrics.NewPushRecorder(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
		if err != nil {
			return nil, err
		}
		rec = p
	}
	return &Runner{Config: cfg, Recorder: rec, openStore: store.Open}, nil
}

// Run executes the batch. The first error stops the run; nothing is retried.
func (r *Runner) Run(ctx context.Context, creds store.Credentials) (RunSummary, error) {
	cfg := r.Config
	rec := r.Recorder
	if rec == nil {
		rec = metrics.Nop()
	}
	open := r.openStore
	if open == nil {
		open = store.Open
	}

	runID := uuid.NewString()
	log := logger.L().With("run_id", runID)
	started := time.Now()

	asOf, err := cfg.AsOfDate()
	if err != nil {
		return RunSummary{}, err
	}
	tr := transform.New(asOf)

	summary := RunSummary{
		RunID:     runID,
		StartedAt: started.UTC().Format(time.RFC3339Nano),
		AsOf:      tr.Today().Format("2006-01-02"),
		Input:     cfg.Input.FilePath,
		Export:    cfg.Output.ExportFile,
		Driver:    cfg.Database.Driver,
		Database:  cfg.Database.Name,
	}
	log.Infow("starting customer etl run",
		"input", cfg.Input.FilePath,
		"export", cfg.Output.ExportFile,
		"driver", cfg.Database.Driver,
		"database", cfg.Database.Name,
		"as_of", summary.AsOf)

	// Extract
	stageStart := time.Now()
	raw, readStats, err := reader.ReadFile(cfg.Input.FilePath)
	if err != nil {
		log.Errorw("read failed", "err", err.Error())
		return summary, err
	}
	r.stageDone(log, "read", stageStart)
	summary.Lines = readStats.Lines
	summary.DetailRows = readStats.Detail
	summary.SkippedRows = readStats.Skipped
	rec.AddRecords(metrics.KindRead, readStats.Lines)
	rec.AddRecords(metrics.KindDetail, readStats.Detail)
	rec.AddRecords(metrics.KindSkipped, readStats.Skipped)

	// Transform
	stageStart = time.Now()
	customers, trStats := tr.Apply(raw)
	summary.ParseErrors = trStats.Total()
	rec.AddRecords(metrics.KindParseErrors, trStats.Total())
	if trStats.Total() > 0 {
		log.Warnw("some dates could not be parsed and were left empty",
			"per_field", trStats.ParseErrors)
	}

	customers = dedup.Latest(customers)
	summary.Customers = len(customers)
	rec.AddRecords(metrics.KindDeduped, len(customers))
	r.stageDone(log, "transform", stageStart)

	// Export
	stageStart = time.Now()
	if err := export.WriteXLSX(cfg.Output.ExportFile, customers); err != nil {
		log.Errorw("export failed", "err", err.Error())
		return summary, err
	}
	rec.AddRecords(metrics.KindExported, len(customers))
	r.stageDone(log, "export", stageStart)

	// Load
	stageStart = time.Now()
	conn, err := open(ctx, store.Options{
		Driver: cfg.Database.Driver,
		Host:   cfg.Database.Host,
		Port:   cfg.DatabasePort(),
		Name:   cfg.Database.Name,
		Params: cfg.Database.Params,
	}, creds)
	if err != nil {
		log.Errorw("database connection failed", "err", err.Error())
		return summary, err
	}
	defer conn.Close()

	loader := store.NewLoader(conn, store.LoaderOptions{
		TablePrefix:       cfg.Load.TablePrefix,
		BatchSize:         cfg.Load.BatchSize,
		SingleTransaction: cfg.Load.SingleTransaction,
	})
	loadSummary, err := loader.Load(ctx, customers)
	summary.Load = loadSummary
	if err != nil {
		log.Errorw("load failed",
			"err", err.Error(),
			"committed", loadSummary.Committed)
		return summary, err
	}
	rec.AddRecords(metrics.KindLoaded, loadSummary.Rows)
	r.stageDone(log, "load", stageStart)

	summary.FinishedAt = time.Now().UTC().Format(time.RFC3339Nano)

	if cfg.Logging.RunLog != "" {
		if err := appendRunLog(cfg.Logging.RunLog, summary); err != nil {
			log.Errorw("failed to write run log",
				"path", cfg.Logging.RunLog,
				"err", err.Error())
		} else {
			log.Debugw("wrote run summary", "path", cfg.Logging.RunLog)
		}
	}

	if err := rec.Flush(); err != nil {
		log.Warnw("metrics push failed", "err", err.Error())
	}

	log.Infow("completed customer etl run",
		"duration", time.Since(started),
		"customers", summary.Customers,
		"tables", len(loadSummary.Tables),
		"rows_loaded", loadSummary.Rows)
	return summary, nil
}

func (r *Runner) stageDone(log *zap.SugaredLogger, stage string, start time.Time) {
	d := time.Since(start)
	if r.Recorder != nil {
		r.Recorder.ObserveStage(stage, d)
	}
	log.Debugw("stage finished", "stage", stage, "duration", d)
}

func appendRunLog(path string, summary RunSummary) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(summary); err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	return nil
}
