package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"npmship/internal/core/config"
)

var (
	cfgPath     string
	isDebug     bool
	registryURL string
	pkgDir      string
)

var rootCmd = &cobra.Command{
	Use:   "npmship",
	Short: "Resilient npm publish orchestrator",
	Long: `npmship publishes a single versioned npm artifact reliably: it probes
for existing versions, classifies registry failures, retries transient
ones with backoff under a time budget, and confirms visibility after a
successful publish. Safe to re-run.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to npmship.yaml (optional)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&registryURL, "registry", "", "registry URL (overrides config and NPM_REGISTRY)")
	rootCmd.PersistentFlags().StringVar(&pkgDir, "dir", ".", "package directory containing package.json")
}

// setup loads .env and configuration, then initializes logging. Called
// at the top of every command.
func setup() (*config.AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// Fall back to a default logger so the load error is visible
		initLogger(slog.LevelInfo)
		return nil, err
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	initLogger(slogLevel)

	if registryURL != "" {
		cfg.Registry.URL = registryURL
	}

	return cfg, nil
}

func initLogger(level slog.Level) {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})))
}
