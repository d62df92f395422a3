// Package scan drives the sliding-window run: one window at a time,
// strictly in genome order. Sequential on purpose: DAVID rate-limits
// by session and parallel submission is against its usage policy.
package scan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/davidscan/logger"
	"github.com/yumyai/davidscan/pkg/david"
	"github.com/yumyai/davidscan/pkg/db"
	"github.com/yumyai/davidscan/pkg/model"
)

type Runner struct {
	cfg    Config
	client *david.Client
	store  *db.ScanDB // optional, nil disables the sqlite record
	runID  string

	sleep func(time.Duration)
}

// NewRunner wires the retry client around the service. store may be
// nil when no results database is wanted.
func NewRunner(cfg Config, svc david.Service, store *db.ScanDB) *Runner {
	return &Runner{
		cfg:    cfg,
		client: david.NewClient(svc, cfg.Retries, cfg.Wait),
		store:  store,
		runID:  "run-" + uuid.New().String(),
		sleep:  time.Sleep,
	}
}

// RunID tags this run's log lines and database rows.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes every window over the gene list and returns the
// accumulated summary table. The only error it can return is the
// up-front window validation; per-window failures degrade to empty
// rows instead.
func (r *Runner) Run(genes []int) (*model.SummaryTable, error) {

	windows, err := model.Windows(len(genes), r.cfg.WindowSize, r.cfg.StepSize)
	if err != nil {
		return nil, err
	}

	if r.store != nil {
		if err := r.store.InsertRun(r.runID, r.cfg.Species,
			r.cfg.WindowSize, r.cfg.StepSize, r.cfg.PvalThreshold); err != nil {
			return nil, err
		}
	}

	logger.Info("Starting scan",
		zap.String("run_id", r.runID),
		zap.Int("genes", len(genes)),
		zap.Int("windows", len(windows)))

	table := model.NewSummaryTable(r.cfg.PvalThreshold)

	for i, win := range windows {
		r.processWindow(i, win, genes, table)

		// Fixed pause after every window, success or not. DAVID asks
		// clients to space their requests out.
		r.sleep(r.cfg.Wait)
	}

	return table, nil
}

func (r *Runner) processWindow(position int, win model.Window, genes []int, table *model.SummaryTable) {

	subset := genes[win.Start:win.End]

	logger.Info("Processing window",
		zap.String("window", win.Label()),
		zap.Int("genes", len(subset)))

	report := r.client.Submit(subset, win.Prefix())

	// Persist before parsing, even when there is no report: a rerun of
	// the parsing stage must not need the service.
	var raw bytes.Buffer
	if err := david.WriteReport(&raw, report); err != nil {
		logger.Error("Could not render report", zap.String("window", win.Label()), zap.Error(err))
	}

	path := r.reportPath(win)
	if err := os.WriteFile(path, raw.Bytes(), 0o644); err != nil {
		logger.Error("Could not save report artifact",
			zap.String("window", win.Label()), zap.Error(err))
	}

	clusters := model.ParseReportFile(path, r.cfg.MaxClusters)
	table.Append(win.Label(), clusters)

	if r.store != nil {
		if err := r.store.SaveReport(r.runID, win.Label(), raw.String()); err != nil {
			logger.Error("Could not record report", zap.String("window", win.Label()), zap.Error(err))
		}
		rows := table.Rows()
		if err := r.store.SaveSummary(r.runID, position, rows[len(rows)-1]); err != nil {
			logger.Error("Could not record summary", zap.String("window", win.Label()), zap.Error(err))
		}
	}
}

func (r *Runner) reportPath(win model.Window) string {
	return filepath.Join(r.cfg.OutDir, fmt.Sprintf("%s_fullReport.txt", win.Prefix()))
}
