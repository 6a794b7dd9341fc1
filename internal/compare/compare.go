// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare pairs the layout-based markdown outputs (md/) with the
// vision-LLM outputs (llm_md/) under one export base directory and
// reports how they differ. Pairing is by filename: both pipelines name
// pages identically, so the common set is the filename intersection.
package compare

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	mdDir    = "md"
	llmMdDir = "llm_md"

	// DefaultContext is the unified diff context line count.
	DefaultContext = 3
)

// Pair is one comparable page: the same filename present on both sides.
type Pair struct {
	Name string
	// Left is the layout-based extraction, Right the LLM OCR output.
	Left, Right string
}

// Similarity returns the line-based similarity ratio of the pair in [0, 1].
func (p Pair) Similarity() float64 {
	m := difflib.NewMatcher(difflib.SplitLines(p.Left), difflib.SplitLines(p.Right))
	return m.Ratio()
}

// CommonPages returns the sorted intersection of markdown filenames
// present in both base/md/ and base/llm_md/. A missing side contributes
// the empty set rather than an error.
func CommonPages(base string) ([]string, error) {
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("base directory %s: %w", base, err)
	}

	left := mdNames(filepath.Join(base, mdDir))
	right := mdNames(filepath.Join(base, llmMdDir))

	var common []string
	for name := range left {
		if right[name] {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common, nil
}

// mdNames returns the set of *.md filenames directly inside dir.
func mdNames(dir string) map[string]bool {
	names := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return names
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			names[entry.Name()] = true
		}
	}
	return names
}

// LoadPair reads both sides of one page by filename.
func LoadPair(base, name string) (Pair, error) {
	left, err := os.ReadFile(filepath.Join(base, mdDir, name))
	if err != nil {
		return Pair{}, fmt.Errorf("reading %s side: %w", mdDir, err)
	}
	right, err := os.ReadFile(filepath.Join(base, llmMdDir, name))
	if err != nil {
		return Pair{}, fmt.Errorf("reading %s side: %w", llmMdDir, err)
	}
	return Pair{Name: name, Left: string(left), Right: string(right)}, nil
}

// Diff returns the unified diff between the two sides of a pair.
func Diff(p Pair, contextLines int) (string, error) {
	if contextLines <= 0 {
		contextLines = DefaultContext
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(p.Left),
		B:        difflib.SplitLines(p.Right),
		FromFile: filepath.Join(mdDir, p.Name),
		ToFile:   filepath.Join(llmMdDir, p.Name),
		Context:  contextLines,
	})
}

// Report prints a per-page comparison table for every common page under
// base: byte counts for both sides and the similarity ratio.
func Report(base string, w io.Writer) error {
	pages, err := CommonPages(base)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no matching markdown files in both %s/ and %s/ under %s", mdDir, llmMdDir, base)
	}

	fmt.Fprintf(w, "%-16s %10s %10s %12s\n", "PAGE", "MD BYTES", "LLM BYTES", "SIMILARITY")
	for _, name := range pages {
		pair, err := LoadPair(base, name)
		if err != nil {
			fmt.Fprintf(w, "%-16s %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%-16s %10d %10d %11.1f%%\n",
			name, len(pair.Left), len(pair.Right), pair.Similarity()*100)
	}
	fmt.Fprintf(w, "\n%d page(s) compared\n", len(pages))
	return nil
}
