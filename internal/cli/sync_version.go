package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"npmship/internal/version"
)

var syncDryRun bool

var syncVersionCmd = &cobra.Command{
	Use:   "sync-version <version>",
	Short: "Set the version across all workspace package.json files",
	Long: `Rewrites the version field in the root package.json and every
packages/*/package.json under --dir, and updates internal dependency
specs (exact, ^, ~) that pinned the old version. Accepts "0.1.7" or
"v0.1.7".`,
	Args: cobra.ExactArgs(1),
	Run:  runSyncVersion,
}

func init() {
	syncVersionCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report files that would change without writing")
	rootCmd.AddCommand(syncVersionCmd)
}

func runSyncVersion(cmd *cobra.Command, args []string) {
	if _, err := setup(); err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	res, err := version.Sync(pkgDir, args[0], syncDryRun)
	if err != nil {
		slog.Error("Version sync failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Version change", "old", res.OldVersion, "new", res.NewVersion)

	if len(res.Changed) == 0 {
		slog.Info("No files needed changes")
		return
	}

	for _, path := range res.Changed {
		slog.Info("Updated", "file", path)
	}
	if syncDryRun {
		slog.Info("Dry run, nothing written")
	}
}
