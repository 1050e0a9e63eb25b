// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transkribus-batch/internal/batch"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <base_dir> <collection_id>",
	Short: "Upload every document directory of base_dir into a collection",
	Long: `Upload creates one Transkribus document per subdirectory of base_dir.
Images with a .jpg extension become pages in file name order; files ending in
.done are left out. Each image is sent together with page/<name>.xml, and
images without PageXML are reported and skipped.`,
	Example: `  transkribus-batch upload ./export 123456
  transkribus-batch upload ./export 123456 --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().Bool("dry-run", false, "list the pages that would be uploaded without contacting Transkribus")
	addBatchFlags(uploadCmd)

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := batchConfig(cmd, args)

	var api batch.Uploader
	if !cfg.DryRun {
		client, err := newClient()
		if err != nil {
			return err
		}
		api = client
	}

	fmt.Printf("Uploading directory %s to collection %s...\n", cfg.BaseDir, cfg.CollectionID)
	summary, err := batch.UploadBatch(cmd.Context(), api, cfg, os.Stdout)
	return finishBatch(cmd, summary, err)
}
