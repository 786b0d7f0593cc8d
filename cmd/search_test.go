package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/suggest/internal/store"
)

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("search", "apple")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"apple tart\t80", "apple pie\t50", "apple orchard\t5"}, lines)
}

func TestSearch_JoinsArgs(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, env.run("search", "yosemite val"), env.run("search", "yosemite", "val"))
	env.contains(env.run("search", "yosemite", "val"), "yosemite valley\t900")
}

func TestSearch_JSON(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("search", "yosemite", "-o", "json")

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "yosemite valley", items[0]["name"])
	assert.Equal(t, float64(900), items[0]["qrank"])
	assert.Equal(t, "CA", items[0]["state"])
	assert.Equal(t, "yosemite falls", items[1]["name"])
}

func TestSearch_Floor(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("search", "--strategy", "floor", "apple")
	assert.NotContains(t, out, "apple orchard")
	env.contains(out, "apple tart")
	env.contains(out, "apple pie")
}

func TestSearch_Empty(t *testing.T) {
	env := newTestEnv(t)

	assert.Empty(t, env.run("search"))
	assert.Equal(t, "[]\n", env.run("search", "   ", "-o", "json"))
}

func TestSearch_NoMatch(t *testing.T) {
	env := newTestEnv(t)
	assert.Empty(t, env.run("search", "zzz"))
}

func TestSearch_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("search", `apple"pie`)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
}

func TestSearch_InvalidQueryJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("search", `apple"pie`, "-o", "json")
	require.Error(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &body))
	assert.Contains(t, body["error"], "invalid query")
}

func TestSearch_MissingIndex(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("--index", filepath.Join(env.dir, "absent.db"), "search", "apple")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrIndexUnavailable)
}

func TestSearch_InvalidStrategy(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("--strategy", "fastest", "search", "apple")
	assert.Error(t, err)
}

func TestSearch_InvalidOutput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("search", "apple", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, isTerminal(&buf))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, isTerminal(w))
}

func TestResultsMarkdown(t *testing.T) {
	items := []store.Item{
		{"name": "a|b", "qrank": int64(3)},
	}
	md := resultsMarkdown("a", items)
	assert.Contains(t, md, `| 1 | a\|b | 3 |`)
	assert.Contains(t, resultsMarkdown("zzz", nil), "No matches for `zzz`.")
}
