// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export drives per-page PDF exports: markdown text, color page
// images, and grayscale contrast-enhanced page images, laid out under a
// base directory named after the source document.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagebench/internal/imaging"
	"github.com/pdiddy/pagebench/internal/pagerange"
	"github.com/pdiddy/pagebench/pkg/types"
)

const (
	// DefaultDPI is the rendering resolution when none is given.
	DefaultDPI = 150
	// DefaultContrast is the grayscale contrast enhancement factor.
	DefaultContrast = 1.25

	manifestFile = "manifest.yaml"
)

// ErrEmptySelection reports that the page-range expression parsed cleanly
// but selected no pages within the document. The run performs no work;
// callers decide whether that is fatal.
var ErrEmptySelection = errors.New("page range selects no pages")

// Document is an open multi-page source. Different backends (MuPDF in
// production, fakes in tests) implement this interface.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// RenderImage rasterizes the zero-indexed page at the given DPI
	// (scale dpi/72 relative to the 72-dpi baseline).
	RenderImage(page int, dpi int) (image.Image, error)

	// RenderMarkdown extracts the zero-indexed page as markdown text.
	RenderMarkdown(page int) (string, error)

	// Close releases the underlying document resources.
	Close() error
}

// Options configures one export run. Zero values fall back to defaults;
// an empty Targets slice requests all three targets.
type Options struct {
	DPI      int
	Contrast float64
	Targets  []types.ExportTarget
	BaseDir  string
}

func (o Options) withDefaults(source string) Options {
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.Contrast <= 0 {
		o.Contrast = DefaultContrast
	}
	if len(o.Targets) == 0 {
		o.Targets = []types.ExportTarget{
			types.TargetMarkdown,
			types.TargetColorImage,
			types.TargetGrayscaleImage,
		}
	}
	if o.BaseDir == "" {
		o.BaseDir = Stem(source)
	}
	return o
}

// Stem returns the filename of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileName returns the artifact filename for a zero-indexed page:
// the 1-indexed page number zero-padded to 4 digits, e.g. "page_0007.png".
// The comparison tooling pairs files across targets by this convention.
func FileName(target types.ExportTarget, page int) string {
	ext := "png"
	if target == types.TargetMarkdown {
		ext = "md"
	}
	return fmt.Sprintf("page_%04d.%s", page+1, ext)
}

// Run exports the pages selected by rangeExpr from doc into the three
// output trees, writing per-artifact progress to w. Run takes ownership
// of doc and closes it on every exit path. Parse failures abort before
// any side effects; per-page failures are recorded and processing
// continues. An empty selection returns a zero-work result together with
// ErrEmptySelection.
func Run(doc Document, source, rangeExpr string, opts Options, w io.Writer) (*types.RunResult, error) {
	defer doc.Close()

	opts = opts.withDefaults(source)

	total := doc.PageCount()
	pages, err := pagerange.Parse(rangeExpr, total)
	if err != nil {
		return nil, err
	}

	result := &types.RunResult{
		Source:   source,
		BaseDir:  opts.BaseDir,
		DPI:      opts.DPI,
		Contrast: opts.Contrast,
		Started:  time.Now().UTC(),
		Pages:    pages,
	}
	for _, target := range opts.Targets {
		result.Targets = append(result.Targets, types.TargetResult{
			Target: target,
			Dir:    filepath.Join(opts.BaseDir, string(target)),
		})
	}

	if len(pages) == 0 {
		return result, ErrEmptySelection
	}

	// Idempotent: re-running into an existing tree overwrites in place.
	for i := range result.Targets {
		if err := os.MkdirAll(result.Targets[i].Dir, 0o755); err != nil {
			return result, fmt.Errorf("creating %s: %w", result.Targets[i].Dir, err)
		}
	}

	fmt.Fprintf(w, "Exporting %d page(s) from %s (of %d) to %s/\n",
		len(pages), filepath.Base(source), total, opts.BaseDir)

	wantMD := hasTarget(opts.Targets, types.TargetMarkdown)
	wantColor := hasTarget(opts.Targets, types.TargetColorImage)
	wantGray := hasTarget(opts.Targets, types.TargetGrayscaleImage)

	for _, page := range pages {
		if wantMD {
			result.Results = append(result.Results, exportMarkdown(doc, page, opts, w))
		}
		if wantColor || wantGray {
			result.Results = append(result.Results, exportImages(doc, page, opts, wantColor, wantGray, w)...)
		}
	}

	tally(result)

	if err := writeManifest(result); err != nil {
		fmt.Fprintf(w, "warning: could not write manifest: %v\n", err)
	}

	fmt.Fprintf(w, "\nRun summary: %d succeeded, %d failed (attempted: %d)\n",
		result.Succeeded(), result.Failed(), result.Attempted())
	return result, nil
}

// exportMarkdown produces the markdown artifact for one page.
func exportMarkdown(doc Document, page int, opts Options, w io.Writer) types.PageResult {
	res := types.PageResult{Page: page, Target: types.TargetMarkdown}
	path := filepath.Join(opts.BaseDir, string(types.TargetMarkdown), FileName(types.TargetMarkdown, page))

	md, err := doc.RenderMarkdown(page)
	if err != nil {
		return failed(res, path, fmt.Errorf("rendering markdown: %w", err), w)
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return failed(res, path, err, w)
	}
	return done(res, path, w)
}

// exportImages produces the color and/or grayscale artifacts for one page.
// The page is rasterized once; the grayscale variant derives from the
// in-memory color raster. A failed render fails both requested targets
// (the grayscale entry is a dependent failure).
func exportImages(doc Document, page int, opts Options, wantColor, wantGray bool, w io.Writer) []types.PageResult {
	colorPath := filepath.Join(opts.BaseDir, string(types.TargetColorImage), FileName(types.TargetColorImage, page))
	grayPath := filepath.Join(opts.BaseDir, string(types.TargetGrayscaleImage), FileName(types.TargetGrayscaleImage, page))

	img, err := doc.RenderImage(page, opts.DPI)
	if err != nil {
		renderErr := fmt.Errorf("rendering page: %w", err)
		var out []types.PageResult
		if wantColor {
			out = append(out, failed(types.PageResult{Page: page, Target: types.TargetColorImage}, colorPath, renderErr, w))
		}
		if wantGray {
			out = append(out, failed(types.PageResult{Page: page, Target: types.TargetGrayscaleImage}, grayPath,
				fmt.Errorf("color raster unavailable: %w", err), w))
		}
		return out
	}

	var out []types.PageResult
	if wantColor {
		res := types.PageResult{Page: page, Target: types.TargetColorImage}
		if err := writePNG(colorPath, img); err != nil {
			out = append(out, failed(res, colorPath, err, w))
		} else {
			out = append(out, done(res, colorPath, w))
		}
	}
	if wantGray {
		res := types.PageResult{Page: page, Target: types.TargetGrayscaleImage}
		gray := imaging.EnhanceContrast(imaging.Grayscale(img), opts.Contrast)
		if err := writePNG(grayPath, gray); err != nil {
			out = append(out, failed(res, grayPath, err, w))
		} else {
			out = append(out, done(res, grayPath, w))
		}
	}
	return out
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func done(res types.PageResult, path string, w io.Writer) types.PageResult {
	res.Status = types.PageDone
	res.Path = path
	fmt.Fprintf(w, "exported: %s\n", path)
	return res
}

func failed(res types.PageResult, path string, err error, w io.Writer) types.PageResult {
	res.Status = types.PageFailed
	res.Err = err.Error()
	fmt.Fprintf(w, "failed:   %s (%v)\n", path, err)
	return res
}

// tally folds the per-(page, target) results into per-target counts,
// preserving the requested target order.
func tally(result *types.RunResult) {
	byTarget := make(map[types.ExportTarget]*types.TargetResult, len(result.Targets))
	for i := range result.Targets {
		byTarget[result.Targets[i].Target] = &result.Targets[i]
	}
	for _, r := range result.Results {
		t := byTarget[r.Target]
		t.Attempted++
		if r.Status == types.PageDone {
			t.Succeeded++
		} else {
			t.Failed++
		}
	}
}

// writeManifest records the run summary into the base directory.
func writeManifest(result *types.RunResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(result.BaseDir, manifestFile), data, 0o644)
}

// DocumentMarkdown renders every page of doc as markdown and joins the
// pages in order. Used by the legacy whole-document extraction mode.
func DocumentMarkdown(doc Document) (string, error) {
	var b strings.Builder
	for page := 0; page < doc.PageCount(); page++ {
		md, err := doc.RenderMarkdown(page)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page+1, err)
		}
		b.WriteString(md)
		if !strings.HasSuffix(md, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func hasTarget(targets []types.ExportTarget, t types.ExportTarget) bool {
	for _, x := range targets {
		if x == t {
			return true
		}
	}
	return false
}
