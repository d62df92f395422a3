package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/yumyai/davidscan/internal/util"
	"github.com/yumyai/davidscan/logger"
	"github.com/yumyai/davidscan/pkg/david"
	"github.com/yumyai/davidscan/pkg/db"
	"github.com/yumyai/davidscan/pkg/model"
	"github.com/yumyai/davidscan/pkg/render"
	"github.com/yumyai/davidscan/pkg/scan"
)

func main() {

	VERSION := "0.1.0"

	var cfg scan.Config
	var logLevel string
	var wait, timeout float64

	flag.StringVar(&cfg.Input, "input", "", "Text file with Entrez Gene IDs (one per line, genome-ordered)")
	flag.StringVar(&cfg.OutDir, "outdir", "", "Output directory")
	flag.StringVar(&cfg.Species, "species", "NA", "Species short name used in filenames (e.g. LT2, USA300, PAO1)")
	flag.IntVar(&cfg.WindowSize, "window-size", 100, "Number of genes per window")
	flag.IntVar(&cfg.StepSize, "step-size", 25, "Step size between windows")
	flag.StringVar(&cfg.Email, "email", "", "DAVID-registered email (or set DAVID_EMAIL)")
	flag.Float64Var(&wait, "wait", 10.0, "Seconds to wait between DAVID requests")
	flag.Float64Var(&timeout, "timeout", 60.0, "HTTP timeout per request (s)")
	flag.IntVar(&cfg.Retries, "retries", 3, "Max DAVID attempts per window")
	flag.Float64Var(&cfg.PvalThreshold, "pval-threshold", 0.01, "P-value filter for secondary clusters")
	flag.IntVar(&cfg.MaxClusters, "max-clusters", 3, "How many top clusters to summarize")
	flag.StringVar(&cfg.Endpoint, "endpoint", david.DefaultEndpoint, "DAVID SOAP endpoint")
	flag.BoolVar(&cfg.NoPlots, "no-plots", false, "Skip figure generation")
	flag.StringVar(&logLevel, "log", "INFO", "Log level (DEBUG, INFO, WARNING, ERROR)")
	flag.Parse()

	cfg.Wait = time.Duration(wait * float64(time.Second))
	cfg.Timeout = time.Duration(timeout * float64(time.Second))

	if err := logger.InitLogger(logger.ParseLevel(logLevel)); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	// Try load env
	if dotenvErr := godotenv.Load(); dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	if cfg.Email == "" {
		cfg.Email = os.Getenv("DAVID_EMAIL")
	}

	logger.Info("Start:", zap.String("Version", VERSION))

	if cfg.Input == "" || cfg.OutDir == "" {
		logger.Fatal("Both -input and -outdir are required")
	}

	// Everything that can be rejected up front is rejected here,
	// before the first call to DAVID.
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Bad configuration", zap.Error(err))
	}

	if err := util.EnsureDir(cfg.OutDir); err != nil {
		logger.Fatal("Could not create output directory", zap.Error(err))
	}

	genes, err := model.LoadGeneList(cfg.Input)
	if err != nil {
		logger.Fatal("Could not load gene list", zap.Error(err))
	}

	if len(genes) < cfg.WindowSize {
		logger.Fatal("Input has fewer genes than window size",
			zap.Int("genes", len(genes)), zap.Int("window_size", cfg.WindowSize))
	}

	// Results database next to the txt artifacts
	store, err := db.OpenScanDB(filepath.Join(cfg.OutDir, "scan_results.db"))
	if err != nil {
		logger.Fatal("Could not open results database", zap.Error(err))
	}
	defer store.Close()

	logger.Info("Connecting to DAVID SOAP service", zap.String("endpoint", cfg.Endpoint))

	svc, err := david.NewSOAPClient(cfg.Endpoint, cfg.Timeout)
	if err != nil {
		logger.Fatal("Could not build DAVID client", zap.Error(err))
	}

	if err := svc.Authenticate(cfg.Email); err != nil {
		logger.Fatal("DAVID authentication failed", zap.Error(err))
	}

	runner := scan.NewRunner(cfg, svc, store)

	table, err := runner.Run(genes)
	if err != nil {
		logger.Fatal("Scan failed", zap.Error(err))
	}

	excelName := fmt.Sprintf("%s_DAVID_enrichment_%s.xlsx",
		cfg.Species, time.Now().Format("2006-01-02"))
	excelPath := filepath.Join(cfg.OutDir, excelName)

	if err := render.WriteWorkbook(table, cfg.PvalThreshold, cfg.MaxClusters, excelPath); err != nil {
		logger.Fatal("Could not write workbook", zap.Error(err))
	}

	if !cfg.NoPlots {
		if err := render.WriteCharts(table, cfg.OutDir); err != nil {
			logger.Error("Could not write charts", zap.Error(err))
		}
	}

	logger.Info("Done", zap.String("run_id", runner.RunID()), zap.String("excel", excelPath))
	logger.Info("Outputs saved to", zap.String("outdir", cfg.OutDir))
}
