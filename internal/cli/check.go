package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"npmship/internal/core/manifest"
	"npmship/internal/infra/npm"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe whether the package version already exists in the registry",
	Run:   runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg, err := setup()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	target, err := manifest.Read(pkgDir)
	if err != nil {
		slog.Error("Failed to read package manifest", "error", err)
		os.Exit(1)
	}

	client := npm.NewClient(cfg.Registry.URL, pkgDir)

	if client.Exists(context.Background(), target) {
		slog.Info("Version exists in registry", "package", target.Spec(), "registry", cfg.Registry.URL)
		return
	}

	slog.Info("Version not found in registry", "package", target.Spec(), "registry", cfg.Registry.URL)
	os.Exit(1)
}
