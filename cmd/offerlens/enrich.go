package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmorel/offerlens/internal/batch"
	"github.com/jmorel/offerlens/internal/config"
	"github.com/jmorel/offerlens/internal/db"
	"github.com/jmorel/offerlens/internal/dictionary"
	"github.com/jmorel/offerlens/internal/enrich"
	"github.com/jmorel/offerlens/internal/observability"
	"github.com/jmorel/offerlens/internal/textnorm"
)

var enrichCommand = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich pending job offers",
	Long: `Walks the pending offers and stores the enrichment results batch by batch.

Without --full or --resume the command runs in dry-run mode: it enriches a
small sample, prints the results and writes nothing.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runEnrichCmd,
}

var (
	enrichConfigPath   string
	enrichFull         bool
	enrichResume       bool
	enrichBatchSize    int
	enrichSampleSize   int
	enrichThreshold    float64
	enrichDatabaseURL  string
	enrichLogFile      string
	enrichDictTech     string
	enrichDictSoft     string
	enrichDictProfiles string
	enrichVerbose      bool
)

func init() {
	// Config file flag (processed first)
	enrichCommand.Flags().StringVar(&enrichConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	enrichCommand.Flags().BoolVar(&enrichFull, "full", false, "Process the whole pending backlog (mutually exclusive with --resume)")
	enrichCommand.Flags().BoolVar(&enrichResume, "resume", false, "Continue the latest interrupted run from its checkpoint")
	enrichCommand.Flags().IntVar(&enrichBatchSize, "batch-size", 0, "Offers per batch")
	enrichCommand.Flags().IntVar(&enrichSampleSize, "sample-size", 0, "Offers enriched in dry-run mode")
	enrichCommand.Flags().Float64Var(&enrichThreshold, "threshold", 0, "Minimum profile confidence in percent")
	enrichCommand.Flags().StringVar(&enrichLogFile, "log-file", "", "JSON log file (in addition to stderr)")
	enrichCommand.Flags().StringVar(&enrichDictTech, "dict-tech", "", "Technical skills dictionary (replaces the embedded one)")
	enrichCommand.Flags().StringVar(&enrichDictSoft, "dict-soft", "", "Soft skills dictionary (replaces the embedded one)")
	enrichCommand.Flags().StringVar(&enrichDictProfiles, "dict-profiles", "", "Reference profiles (replaces the embedded ones)")
	enrichCommand.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print every enriched offer, not only the dry-run sample")

	// Database URL for offer storage
	enrichCommand.Flags().StringVar(&enrichDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(enrichCommand)
}

func runEnrichCmd(cmd *cobra.Command, _ []string) error {
	// Step 1: Load config file if provided
	var cfg config.Config
	if enrichConfigPath != "" {
		loadedCfg, err := config.LoadConfig(enrichConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = enrichBatchSize
	}
	if cmd.Flags().Changed("sample-size") {
		cfg.SampleSize = enrichSampleSize
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ProfileThreshold = enrichThreshold
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = enrichDatabaseURL
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = enrichLogFile
	}
	if cmd.Flags().Changed("dict-tech") {
		cfg.DictTech = enrichDictTech
	}
	if cmd.Flags().Changed("dict-soft") {
		cfg.DictSoft = enrichDictSoft
	}
	if cmd.Flags().Changed("dict-profiles") {
		cfg.DictProfiles = enrichDictProfiles
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = enrichVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		BatchSize:      batch.DefaultBatchSize,
		SampleSize:     batch.DefaultSampleSize,
		StorageTimeout: int(batch.DefaultStorageTimeout / time.Second),
	})
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 4: Validate the merged config
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("no database configured: set --db-url, the config file or DATABASE_URL")
	}
	if enrichFull && enrichResume {
		return fmt.Errorf("--full and --resume are mutually exclusive")
	}

	mode := batch.ModeDryRun
	switch {
	case enrichResume:
		mode = batch.ModeResume
	case enrichFull:
		mode = batch.ModeFull
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := config.SetupLogger(cfg.LogFile, level)
	defer closeLog() //nolint:errcheck

	norm := textnorm.NewDefault()
	dict, err := loadDictionary(cfg, norm)
	if err != nil {
		return err
	}
	logger.Info("dictionary loaded", "skills", dict.Len(), "categories", len(dict.Categories()))

	// Interruption requests (Ctrl-C, SIGTERM) are honored at batch
	// boundaries; the in-flight batch always lands with its checkpoint.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	printer := observability.NewPrinter(os.Stdout)
	var onRecord batch.RecordCallback
	if mode == batch.ModeDryRun || cfg.Verbose {
		onRecord = printer.PrintEnrichedOffer
	}

	pipeline := enrich.New(norm, dict, cfg.ProfileThreshold)
	orch := batch.New(database, pipeline, batch.Options{
		Mode:           mode,
		BatchSize:      cfg.BatchSize,
		SampleSize:     cfg.SampleSize,
		StorageTimeout: time.Duration(cfg.StorageTimeout) * time.Second,
		Logger:         logger,
		OnRecord:       onRecord,
	})

	sum, err := orch.Run(ctx)
	printer.PrintSummary(sum)
	if err != nil {
		return err
	}
	return nil
}

// loadDictionary compiles either the embedded dictionary or the three
// override files named by the config.
func loadDictionary(cfg config.Config, norm *textnorm.Normalizer) (*dictionary.Dictionary, error) {
	if cfg.DictTech == "" {
		return dictionary.Load(norm)
	}

	tech, err := os.ReadFile(cfg.DictTech)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.DictTech, err)
	}
	soft, err := os.ReadFile(cfg.DictSoft)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.DictSoft, err)
	}
	profiles, err := os.ReadFile(cfg.DictProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.DictProfiles, err)
	}
	return dictionary.LoadFrom(tech, soft, profiles, norm)
}
