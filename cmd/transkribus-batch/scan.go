// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transkribus-batch/internal/scan"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <base_dir>",
	Short: "List the documents and pages found under base_dir",
	Long: `Scan reads base_dir the same way upload does and prints each document
with its numbered pages. Nothing is sent to Transkribus.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(scanCmd)
}

type scanOutput struct {
	Name  string             `json:"name"`
	Path  string             `json:"path"`
	Pages []types.PageRecord `json:"pages"`
	Error string             `json:"error,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	docs, err := scan.ScanBaseDir(args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		out := make([]scanOutput, 0, len(docs))
		for _, d := range docs {
			o := scanOutput{Name: d.Name, Path: d.Path, Pages: d.Pages}
			if d.Err != nil {
				o.Error = d.Err.Error()
			}
			out = append(out, o)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(docs) == 0 {
		fmt.Println("No document directories found.")
		return nil
	}

	pages := 0
	for _, d := range docs {
		if d.Err != nil {
			fmt.Printf("%s (unreadable: %v)\n", d.Name, d.Err)
			continue
		}
		fmt.Printf("%s (%d pages)\n", d.Name, len(d.Pages))
		for _, p := range d.Pages {
			fmt.Printf("  %4d  %-40s  %s\n", p.PageNr, p.FileName, p.PageXMLName)
		}
		pages += len(d.Pages)
	}
	fmt.Printf("\n%d documents, %d pages\n", len(docs), pages)
	return nil
}
