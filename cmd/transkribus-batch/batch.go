// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transkribus-batch/internal/batch"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// addBatchFlags registers the flags shared by upload and update.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "exit non-zero when any document or page failed")
	cmd.Flags().String("report", "", "write a YAML run summary to this file")
}

func batchConfig(cmd *cobra.Command, args []string) types.BatchConfig {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return types.BatchConfig{
		BaseDir:      args[0],
		CollectionID: args[1],
		DryRun:       dryRun,
	}
}

// finishBatch writes the optional report and turns the outcome into the
// command's error. Per-page failures only fail the command with --strict.
func finishBatch(cmd *cobra.Command, summary batch.Summary, runErr error) error {
	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := batch.WriteReport(path, summary); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
		}
	}

	if runErr != nil {
		return runErr
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict && summary.HasFailures() {
		return fmt.Errorf("%d document(s) and %d page(s) failed or were skipped",
			summary.Failed, summary.PagesFailed+summary.PagesSkipped)
	}

	fmt.Println("Done.")
	return nil
}
