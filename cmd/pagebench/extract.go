// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagebench/internal/export"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf|dir]",
	Short: "Extract whole-document markdown from PDFs",
	Long: `Extract converts an entire PDF to one markdown file next to the source
(file.pdf becomes file.md). Given a directory, every PDF inside it is
converted in turn. For per-page output use the export subcommand.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source %s: %w", path, err)
	}

	if info.IsDir() {
		return extractDir(path, os.Stdout)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%s is not a PDF file", path)
	}
	return extractFile(path, os.Stdout)
}

// extractFile converts one PDF into a sibling markdown file.
func extractFile(pdfPath string, w io.Writer) error {
	doc, err := export.Open(pdfPath)
	if err != nil {
		return err
	}
	defer doc.Close()

	md, err := export.DocumentMarkdown(doc)
	if err != nil {
		return fmt.Errorf("converting %s: %w", pdfPath, err)
	}

	mdPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".md"
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mdPath, err)
	}

	fmt.Fprintf(w, "extracted: %s -> %s\n", filepath.Base(pdfPath), filepath.Base(mdPath))
	return nil
}

// extractDir batch-converts every PDF directly inside dir, continuing
// past individual failures.
func extractDir(dir string, w io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	var pdfs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, entry.Name()))
		}
	}
	if len(pdfs) == 0 {
		return fmt.Errorf("no PDF files found in %s", dir)
	}

	fmt.Fprintf(w, "Found %d PDF file(s)\n", len(pdfs))

	failed := 0
	for _, pdf := range pdfs {
		if err := extractFile(pdf, w); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(pdf), err)
			failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		len(pdfs)-failed, failed, len(pdfs))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed extraction", failed)
	}
	return nil
}
