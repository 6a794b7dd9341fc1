// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr runs a two-stage vision-LLM pipeline over exported page
// images: a transcription pass extracts markdown from each image, a
// refinement pass corrects it against the same image. Results land in a
// llm_md/ directory sibling to the input, named so that every output
// pairs 1:1 with the layout-based md/ files.
package ocr

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// llmDir is the output subdirectory, created next to the input directory.
const llmDir = "llm_md"

// mediaTypes maps image file extensions to MIME types. Unknown
// extensions fall back to PNG.
var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Image is one page image handed to the vision model.
type Image struct {
	Data      []byte
	MediaType string
}

// VisionBackend abstracts the vision model so tests can supply a mock.
type VisionBackend interface {
	// Transcribe extracts the image content as markdown.
	Transcribe(ctx context.Context, img Image) (string, error)

	// Refine corrects a first-pass transcription against the image.
	Refine(ctx context.Context, draft string, img Image) (string, error)
}

// Summary holds counts from one OCR run.
type Summary struct {
	Processed int
	Failed    int
	OutputDir string
}

// Total returns the number of images attempted.
func (s Summary) Total() int {
	return s.Processed + s.Failed
}

// HasFailures reports whether any images failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// MediaTypeFor returns the MIME type for an image path by extension.
func MediaTypeFor(path string) string {
	if mt, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "image/png"
}

// ProcessFolder runs the pipeline over every image in dir (non-recursive),
// writing one markdown file per image to the llm_md/ directory next to
// dir. Output names reuse the image stem, so png/page_0007.png becomes
// llm_md/page_0007.md. Per-image failures are counted and logged to w;
// the run continues. A missing directory or an image-free directory is an
// error before any work starts.
func ProcessFolder(ctx context.Context, backend VisionBackend, dir string, maxRetries int, w io.Writer) (Summary, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("%s is not a directory", dir)
	}

	images, err := listImages(dir)
	if err != nil {
		return Summary{}, err
	}
	if len(images) == 0 {
		return Summary{}, fmt.Errorf("no image files found in %s", dir)
	}

	outDir := filepath.Join(filepath.Dir(filepath.Clean(dir)), llmDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}

	summary := Summary{OutputDir: outDir}
	fmt.Fprintf(w, "Processing %d image(s) from %s to %s\n", len(images), dir, outDir)

	for _, name := range images {
		imgPath := filepath.Join(dir, name)
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, filepath.Ext(name))+".md")

		if err := processImage(ctx, backend, imgPath, outPath, maxRetries); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "ocr:     %s -> %s\n", name, filepath.Base(outPath))
		summary.Processed++
	}

	fmt.Fprintf(w, "\nOCR summary: %d processed, %d failed (total: %d)\n",
		summary.Processed, summary.Failed, summary.Total())
	return summary, nil
}

// processImage runs both passes for one image and writes the result.
func processImage(ctx context.Context, backend VisionBackend, imgPath, outPath string, maxRetries int) error {
	data, err := os.ReadFile(imgPath)
	if err != nil {
		return err
	}
	img := Image{Data: data, MediaType: MediaTypeFor(imgPath)}

	draft, err := callWithRetry(ctx, maxRetries, func(ctx context.Context) (string, error) {
		return backend.Transcribe(ctx, img)
	})
	if err != nil {
		return fmt.Errorf("transcribing: %w", err)
	}

	refined, err := callWithRetry(ctx, maxRetries, func(ctx context.Context) (string, error) {
		return backend.Refine(ctx, draft, img)
	})
	if err != nil {
		return fmt.Errorf("refining: %w", err)
	}

	return os.WriteFile(outPath, []byte(refined), 0o644)
}

// listImages returns the image filenames in dir, sorted.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := mediaTypes[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry invokes fn with exponential backoff on transient errors.
func callWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
