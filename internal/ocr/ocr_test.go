// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// --- mock backends ---

// mockBackend keys forced transcription errors on the image content,
// which setupImages sets to the image's own filename.
type mockBackend struct {
	transcribeErr map[string]error
	calls         int
}

func (m *mockBackend) Transcribe(_ context.Context, img Image) (string, error) {
	m.calls++
	if err := m.transcribeErr[string(img.Data)]; err != nil {
		return "", err
	}
	return "raw<" + string(img.Data) + ">", nil
}

func (m *mockBackend) Refine(_ context.Context, draft string, _ Image) (string, error) {
	return "refined:" + draft, nil
}

// failNTimesBackend fails the first N Transcribe calls, then succeeds.
type failNTimesBackend struct {
	failures  int
	callCount int
}

func (f *failNTimesBackend) Transcribe(_ context.Context, _ Image) (string, error) {
	f.callCount++
	if f.callCount <= f.failures {
		return "", errors.New("transient error")
	}
	return "raw", nil
}

func (f *failNTimesBackend) Refine(_ context.Context, draft string, _ Image) (string, error) {
	return draft, nil
}

func TestMain(m *testing.M) {
	// Override backoff to avoid real sleeps in retry tests.
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

// setupImages creates base/png_bw/ with the named fake image files, each
// containing its own name as content.
func setupImages(t *testing.T, names ...string) (baseDir, imgDir string) {
	t.Helper()
	baseDir = t.TempDir()
	imgDir = filepath.Join(baseDir, "png_bw")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(imgDir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return baseDir, imgDir
}

func TestProcessFolder(t *testing.T) {
	baseDir, imgDir := setupImages(t, "page_0001.png", "page_0002.png", "notes.txt")
	backend := &mockBackend{}
	var out bytes.Buffer

	summary, err := ProcessFolder(context.Background(), backend, imgDir, 1, &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 2 || summary.Failed != 0 {
		t.Errorf("summary: %+v", summary)
	}
	if summary.HasFailures() {
		t.Error("HasFailures true on clean run")
	}

	// Outputs land in the llm_md sibling, paired by stem; non-image
	// files are ignored.
	for _, name := range []string{"page_0001.md", "page_0002.md"} {
		data, err := os.ReadFile(filepath.Join(baseDir, "llm_md", name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "refined:raw<") {
			t.Errorf("%s content: %q", name, data)
		}
	}
	if _, err := os.Stat(filepath.Join(baseDir, "llm_md", "notes.md")); !os.IsNotExist(err) {
		t.Error("non-image file was processed")
	}
}

func TestProcessFolder_FailureIsolated(t *testing.T) {
	baseDir, imgDir := setupImages(t, "page_0001.png", "page_0002.png")
	backend := &mockBackend{
		transcribeErr: map[string]error{"page_0001.png": errors.New("model refused")},
	}

	summary, err := ProcessFolder(context.Background(), backend, imgDir, 0, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Errorf("summary: %+v", summary)
	}
	if !summary.HasFailures() {
		t.Error("HasFailures false despite failure")
	}

	if _, err := os.Stat(filepath.Join(baseDir, "llm_md", "page_0002.md")); err != nil {
		t.Errorf("surviving page missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(baseDir, "llm_md", "page_0001.md")); !os.IsNotExist(err) {
		t.Error("failed page produced output")
	}
}

func TestProcessFolder_RetriesTransientErrors(t *testing.T) {
	_, imgDir := setupImages(t, "page_0001.png")
	backend := &failNTimesBackend{failures: 2}

	summary, err := ProcessFolder(context.Background(), backend, imgDir, 3, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 0 {
		t.Errorf("summary: %+v", summary)
	}
	if backend.callCount != 3 {
		t.Errorf("got %d calls, want 3", backend.callCount)
	}
}

func TestProcessFolder_InputValidation(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := ProcessFolder(context.Background(), &mockBackend{}, filepath.Join(t.TempDir(), "nope"), 1, &bytes.Buffer{})
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f.png")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := ProcessFolder(context.Background(), &mockBackend{}, file, 1, &bytes.Buffer{})
		if err == nil {
			t.Fatal("expected error for file input")
		}
	})

	t.Run("no images", func(t *testing.T) {
		_, err := ProcessFolder(context.Background(), &mockBackend{}, t.TempDir(), 1, &bytes.Buffer{})
		if err == nil {
			t.Fatal("expected error for image-free directory")
		}
	})
}

func TestMediaTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"page_0001.png", "image/png"},
		{"scan.JPG", "image/jpeg"},
		{"scan.jpeg", "image/jpeg"},
		{"weird.webp", "image/png"},
	}
	for _, tt := range tests {
		if got := MediaTypeFor(tt.path); got != tt.want {
			t.Errorf("MediaTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
