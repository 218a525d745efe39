package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"npmship/internal/core/manifest"
	"npmship/internal/infra/npm"
	"npmship/internal/publish"
	"npmship/internal/telemetry/metrics"
)

var (
	budgetFlag         time.Duration
	pollWindowFlag     time.Duration
	attemptTimeoutFlag time.Duration
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the package in --dir, retrying transient failures",
	Run:   runPublish,
}

func init() {
	publishCmd.Flags().DurationVar(&budgetFlag, "budget", 0, "total wall-clock budget for the run (default from config)")
	publishCmd.Flags().DurationVar(&pollWindowFlag, "poll-window", 0, "max time to await registry visibility after a publish")
	publishCmd.Flags().DurationVar(&attemptTimeoutFlag, "attempt-timeout", 0, "bound a single npm publish invocation (0 = unbounded)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) {
	cfg, err := setup()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if budgetFlag > 0 {
		cfg.Publish.Budget = budgetFlag
	}
	if pollWindowFlag > 0 {
		cfg.Publish.PollWindow = pollWindowFlag
	}
	if attemptTimeoutFlag > 0 {
		cfg.Publish.AttemptTimeout = attemptTimeoutFlag
	}

	log := slog.Default().With("run_id", uuid.NewString())

	target, err := manifest.Read(pkgDir)
	if err != nil {
		log.Error("Failed to read package manifest", "error", err)
		os.Exit(1)
	}

	client := npm.NewClient(cfg.Registry.URL, pkgDir)
	orch := publish.New(publish.Config{
		Budget:           cfg.Publish.Budget,
		PollWindow:       cfg.Publish.PollWindow,
		PollInterval:     cfg.Publish.PollInterval,
		ProgressInterval: cfg.Publish.ProgressInterval,
		Backoff: publish.BackoffConfig{
			InitialDelay: cfg.Publish.InitialDelay,
			MaxDelay:     cfg.Publish.MaxDelay,
			MaxJitter:    cfg.Publish.MaxJitter,
		},
		AttemptTimeout: cfg.Publish.AttemptTimeout,
	}, target, client, client, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := orch.Run(ctx)

	metrics.RunsTotal.WithLabelValues(string(res.Outcome), string(res.Reason)).Inc()
	pushURL := cfg.Metrics.PushgatewayURL
	if env := os.Getenv("PUSHGATEWAY_URL"); env != "" {
		pushURL = env
	}
	if err := metrics.Push(pushURL, cfg.Metrics.JobName); err != nil {
		log.Warn("Failed to push metrics", "error", err)
	}

	if !res.Success() {
		os.Exit(1)
	}
}
