package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/server/config"
	"fieldsync/internal/utils/logger"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fieldsync-server",
	Short: "FieldSync - synchronization server for offline inspection devices",
	Long: `FieldSync is the server side of an offline-first inspection workflow.
Field engineers record infrastructure inspections on disconnected devices
and push them in batches when connectivity returns; the server deduplicates
creates, resolves version conflicts and keeps per-asset inspection summaries
up to date.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = config.MustLoad()
		log = logger.New(cfg.Env)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
