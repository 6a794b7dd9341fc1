// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagebench/internal/export"
	"github.com/pdiddy/pagebench/internal/runlog"
	"github.com/pdiddy/pagebench/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [pdf]",
	Short: "Export selected PDF pages as markdown and page images",
	Long: `Export renders the selected pages of a PDF into three parallel output
trees under a directory named after the document:

  <stem>/md/page_0001.md       layout-based markdown per page
  <stem>/png/page_0001.png     color raster per page
  <stem>/png_bw/page_0001.png  grayscale, contrast-enhanced raster

Filenames carry the source page number, so selecting pages 5 and 9
produces page_0005.* and page_0009.*. The png_bw variant is tuned as
vision-model input for the ocr subcommand.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("range", "", `pages to export: "all", "1-5", or "1,3,5-7" (1-indexed)`)
	exportCmd.Flags().Int("dpi", export.DefaultDPI, "rendering resolution for page images")
	exportCmd.Flags().Float64("contrast", export.DefaultContrast, "contrast factor for the grayscale variant (1.0 = unchanged)")
	exportCmd.Flags().String("targets", "md,png,png_bw", "comma-separated targets to produce")
	exportCmd.Flags().String("out", "", "base output directory (default: PDF filename stem)")
	exportCmd.MarkFlagRequired("range")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	if err := validatePDFPath(pdfPath); err != nil {
		return err
	}

	rangeExpr, _ := cmd.Flags().GetString("range")
	dpi, _ := cmd.Flags().GetInt("dpi")
	contrast, _ := cmd.Flags().GetFloat64("contrast")
	outDir, _ := cmd.Flags().GetString("out")
	targetsFlag, _ := cmd.Flags().GetString("targets")

	targets, err := parseTargets(targetsFlag)
	if err != nil {
		return err
	}

	doc, err := export.Open(pdfPath)
	if err != nil {
		return err
	}

	// Run takes ownership of doc and closes it on every exit path.
	result, err := export.Run(doc, pdfPath, rangeExpr, export.Options{
		DPI:      dpi,
		Contrast: contrast,
		Targets:  targets,
		BaseDir:  outDir,
	}, os.Stdout)
	if errors.Is(err, export.ErrEmptySelection) {
		return fmt.Errorf("no pages selected by range %q", rangeExpr)
	}
	if err != nil {
		return err
	}

	recordRun(cmd, runlog.FromRunResult(result))

	if !result.OK() {
		return fmt.Errorf("%d export(s) failed", result.Failed())
	}
	return nil
}

// validatePDFPath rejects missing paths and non-PDF files before any
// side effects occur.
func validatePDFPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source %s: %w", path, err)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%s is not a PDF file", path)
	}
	return nil
}

func parseTargets(flag string) ([]types.ExportTarget, error) {
	var targets []types.ExportTarget
	for _, tok := range strings.Split(flag, ",") {
		switch t := types.ExportTarget(strings.TrimSpace(tok)); t {
		case types.TargetMarkdown, types.TargetColorImage, types.TargetGrayscaleImage:
			targets = append(targets, t)
		default:
			return nil, fmt.Errorf("unknown target %q (valid: md, png, png_bw)", tok)
		}
	}
	return targets, nil
}
