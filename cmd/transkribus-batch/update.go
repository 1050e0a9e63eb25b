// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transkribus-batch/internal/batch"
)

var updateCmd = &cobra.Command{
	Use:   "update <base_dir> <collection_id>",
	Short: "Push local PageXML into the documents of a collection",
	Long: `Update lists the documents of a collection and, for each one whose title
matches a subdirectory of base_dir with a metadata.xml naming the same docId,
replaces the transcript of every page that has a matching PageXML file.

A remote page image "folio1.jpg" matches page/folio1.xml and page/0001_folio1.xml.
Pages are saved with status IN_PROGRESS, overwriting the current version.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	addBatchFlags(updateCmd)

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := batchConfig(cmd, args)

	client, err := newClient()
	if err != nil {
		return err
	}

	fmt.Printf("Using PageXMLs of %s to update collection %s...\n", cfg.BaseDir, cfg.CollectionID)
	summary, err := batch.UpdateBatch(cmd.Context(), client, cfg, os.Stdout)
	return finishBatch(cmd, summary, err)
}
