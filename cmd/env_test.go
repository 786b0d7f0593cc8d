// CLI tests run the root command in-process against a fixture index built
// in a temp directory. Package-level flag variables persist between cobra
// executions, so every run resets them first.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpl-au/suggest/internal/service"
	"github.com/jpl-au/suggest/internal/store/storetest"
)

// testEnv holds test environment state.
type testEnv struct {
	t     *testing.T
	dir   string
	index string
}

// fixtureItems mirror the shape of the real index: a few well-known items in
// the popular table and some obscure ones only in the full table.
var fixtureItems = []storetest.Item{
	{Name: "apple pie", State: "CA", QRank: 50, Popular: true},
	{Name: "apple tart", State: "OR", QRank: 80, Popular: true},
	{Name: "apple orchard", QRank: 5},
	{Name: "yosemite valley", State: "CA", QRank: 900, Popular: true},
	{Name: "yosemite falls", State: "CA", QRank: 700, Popular: true},
}

// newTestEnv builds a fixture index and isolates config lookup from the
// developer's home directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SUGGEST_INDEX", "")
	t.Setenv("SUGGEST_STRATEGY", "")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return &testEnv{t: t, dir: dir, index: storetest.Build(t, fixtureItems)}
}

func resetFlags() {
	output = ""
	indexPath = ""
	strategy = ""
	configFile = ""
	configLocal = false
	serveAddr = ""
	cfg = nil
	svc = nil
	_ = service.Close()
}

// run executes suggest with the given args and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("suggest %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes suggest against the fixture index and returns stdout and
// any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	return e.runStdinErr("", args...)
}

// runStdinErr executes suggest with stdin input. Cobra's own error line
// goes to a separate buffer so stdout stays parseable.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()

	resetFlags()
	e.t.Cleanup(resetFlags)

	var buf, stderr bytes.Buffer
	SetOut(&buf)
	defer SetOut(os.Stdout)

	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--index", e.index}, args...))

	err := rootCmd.Execute()
	return buf.String(), err
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// localConfig writes .suggest/config.yaml in the test directory.
func (e *testEnv) localConfig(yaml string) {
	e.t.Helper()
	p := filepath.Join(e.dir, ".suggest", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(yaml), 0644); err != nil {
		e.t.Fatal(err)
	}
}
