// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagebench/internal/runlog"
	"github.com/pdiddy/pagebench/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded export and OCR runs",
	Long: `Runs prints the pipeline run ledger: every export and ocr invocation
with its source, timestamps, and per-run success counts. Use --export to
dump the full ledger as YAML.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	runsCmd.Flags().Bool("export", false, "dump the full ledger as YAML")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := runlog.NewStore(runLogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if dump, _ := cmd.Flags().GetBool("export"); dump {
		return store.Export(context.Background(), os.Stdout)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	return store.Print(context.Background(), limit, os.Stdout)
}

// runLogConfig resolves the ledger directory from the --log-dir flag,
// then the config file, then the default.
func runLogConfig(cmd *cobra.Command) types.RunLogConfig {
	logDir, _ := cmd.Root().PersistentFlags().GetString("log-dir")
	if logDir == "" {
		logDir = viper.GetString("run_log.log_dir")
	}
	return types.RunLogConfig{LogDir: logDir}
}

// recordRun appends one entry to the run ledger. Ledger failures warn
// but never fail the run that produced the artifacts.
func recordRun(cmd *cobra.Command, rec runlog.Record) {
	store, err := runlog.NewStore(runLogConfig(cmd))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open run ledger: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}
