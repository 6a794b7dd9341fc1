// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBase creates a base directory with md/ and llm_md/ files.
func setupBase(t *testing.T, md, llmMd map[string]string) string {
	t.Helper()
	base := t.TempDir()
	for dir, files := range map[string]map[string]string{mdDir: md, llmMdDir: llmMd} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0o755))
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(base, dir, name), []byte(content), 0o644))
		}
	}
	return base
}

func TestCommonPages(t *testing.T) {
	base := setupBase(t,
		map[string]string{"page_0001.md": "a", "page_0002.md": "b", "page_0003.md": "c"},
		map[string]string{"page_0002.md": "B", "page_0003.md": "C", "page_0004.md": "D"},
	)

	pages, err := CommonPages(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"page_0002.md", "page_0003.md"}, pages)
}

func TestCommonPages_MissingSide(t *testing.T) {
	base := setupBase(t, map[string]string{"page_0001.md": "a"}, nil)
	require.NoError(t, os.RemoveAll(filepath.Join(base, llmMdDir)))

	pages, err := CommonPages(base)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestCommonPages_MissingBase(t *testing.T) {
	_, err := CommonPages(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestPairSimilarity(t *testing.T) {
	identical := Pair{Left: "# Title\n\nBody text.\n", Right: "# Title\n\nBody text.\n"}
	assert.InDelta(t, 1.0, identical.Similarity(), 0.001)

	divergent := Pair{Left: "# Title\nalpha\nbeta\n", Right: "# Title\ngamma\ndelta\n"}
	sim := divergent.Similarity()
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestDiff(t *testing.T) {
	pair := Pair{
		Name:  "page_0001.md",
		Left:  "# Title\n\nold line\n",
		Right: "# Title\n\nnew line\n",
	}

	diff, err := Diff(pair, 0)
	require.NoError(t, err)
	assert.Contains(t, diff, "-old line")
	assert.Contains(t, diff, "+new line")
	assert.Contains(t, diff, "md/page_0001.md")
	assert.Contains(t, diff, "llm_md/page_0001.md")
}

func TestReport(t *testing.T) {
	base := setupBase(t,
		map[string]string{"page_0001.md": "# Same\n", "page_0002.md": "left only content\n"},
		map[string]string{"page_0001.md": "# Same\n", "page_0002.md": "right side text\n"},
	)

	var out bytes.Buffer
	require.NoError(t, Report(base, &out))

	report := out.String()
	assert.Contains(t, report, "page_0001.md")
	assert.Contains(t, report, "page_0002.md")
	assert.Contains(t, report, "100.0%")
	assert.True(t, strings.Contains(report, "2 page(s) compared"), report)
}

func TestReport_NoPairs(t *testing.T) {
	base := setupBase(t, map[string]string{"page_0001.md": "a"}, map[string]string{})
	var out bytes.Buffer
	require.Error(t, Report(base, &out))
}
