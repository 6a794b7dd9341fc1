// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagebench/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare [base-dir]",
	Short: "Compare layout-based and LLM OCR markdown page by page",
	Long: `Compare pairs the markdown files under <base-dir>/md/ with those under
<base-dir>/llm_md/ by filename and reports how the two extraction
methods differ. Without --page it prints a per-page summary table;
with --page it prints a unified diff for that page.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().String("page", "", `page to diff: a filename ("page_0003.md") or a 1-indexed number ("3")`)
	compareCmd.Flags().Int("context", compare.DefaultContext, "context lines in the unified diff")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	base := args[0]
	page, _ := cmd.Flags().GetString("page")
	contextLines, _ := cmd.Flags().GetInt("context")

	if page == "" {
		return compare.Report(base, os.Stdout)
	}

	pair, err := compare.LoadPair(base, pageFileName(page))
	if err != nil {
		return err
	}

	diff, err := compare.Diff(pair, contextLines)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Printf("%s: both sides identical\n", pair.Name)
		return nil
	}
	fmt.Print(diff)
	fmt.Printf("\nsimilarity: %.1f%%\n", pair.Similarity()*100)
	return nil
}

// pageFileName accepts either a full page filename or a bare 1-indexed
// page number and returns the canonical filename.
func pageFileName(arg string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		return fmt.Sprintf("page_%04d.md", n)
	}
	return arg
}
