package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/tonight/internal/app"
	"github.com/okian/tonight/internal/config"
	"github.com/okian/tonight/internal/domain/affinity"
	"github.com/okian/tonight/internal/domain/taste"
	"github.com/okian/tonight/pkg/logger"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	configFile  string
	rootDir     string
	profileFile string
	dnaFile     string
	eventFiles  []string
	outputFile  string
	minScore    float64
	workerCount int
	logLevel    string
	logJSON     bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "tonight",
	Short: "Rank event listings against your taste",
	Long: `tonight reads event listings written by scrapers, collapses duplicates,
scores every event against your taste profile and ranks the result.

Configuration is layered: defaults, then the YAML file named by --config or
$TONIGHT_CONFIG, then TONIGHT_* environment variables, then flags.`,
	SilenceUsage: true,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML config file (default is $TONIGHT_CONFIG)")
	pf.StringVar(&rootDir, "root", "", "Directory relative paths resolve against")
	pf.StringVar(&profileFile, "profile", "", "Taste profile file")
	pf.StringVar(&dnaFile, "dna", "", "Taste DNA file")
	pf.StringSliceVar(&eventFiles, "events", nil, "Event files or glob patterns")
	pf.StringVar(&outputFile, "output", "", "File receiving the ranked events")
	pf.Float64Var(&minScore, "min-score", 0, "Drop events scoring below this")
	pf.IntVar(&workerCount, "workers", 0, "Number of scoring workers")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&logJSON, "log-json", false, "Emit JSON log records")
}

// loadConfig loads layered configuration and applies the flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFile(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.RootDir = rootDir
	}
	if flags.Changed("profile") {
		cfg.ProfileFile = profileFile
	}
	if flags.Changed("dna") {
		cfg.DNAFile = dnaFile
	}
	if flags.Changed("events") {
		cfg.EventFiles = eventFiles
	}
	if flags.Changed("output") {
		cfg.OutputFile = outputFile
	}
	if flags.Changed("min-score") {
		cfg.MinScore = minScore
	}
	if flags.Changed("workers") {
		cfg.WorkerCount = workerCount
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = logJSON
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging re-initializes the global logger from cfg. Logs go to stderr
// so stdout stays free for command output.
func setupLogging(cfg *config.Config) error {
	if err := logger.Init(logger.WithOutput(os.Stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	return nil
}

// newService loads the taste files and builds the pipeline service.
func newService(ctx context.Context, cfg *config.Config, opts ...service.Option) (*service.Service, error) {
	profile, dna, err := taste.Load(ctx, cfg.RootDir,
		taste.WithProfileFile(cfg.ProfileFile),
		taste.WithDNAFile(cfg.DNAFile),
	)
	if err != nil {
		return nil, fmt.Errorf("load taste profile: %w", err)
	}

	base := []service.Option{
		service.WithLogger(logger.Get().Named("service")),
		service.WithRootDir(cfg.RootDir),
		service.WithEventFiles(cfg.EventFiles...),
		service.WithOutputFile(cfg.OutputFile),
		service.WithMinScore(cfg.MinScore),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithTopPicks(cfg.TopPicks),
	}
	return service.New(profile, affinity.Resolve(dna), append(base, opts...)...)
}
