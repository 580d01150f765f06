package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliHarness struct {
	configPath string
	dir        string
	calls      *atomic.Int32
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	calls := &atomic.Int32{}
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"x":%q,"y":%q,"r":%q,"hit":true,"currentTime":"12:00:00","executionTime":0.01}`,
			r.Form.Get("x"), r.Form.Get("y"), r.Form.Get("r"))
	}))
	t.Cleanup(stub.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	raw := fmt.Sprintf("service:\n  endpoint: %s/calculate\nstorage:\n  backend: file\n  path: %s\n",
		stub.URL, filepath.Join(dir, "storage"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(raw), 0o600))
	return &cliHarness{configPath: cfgPath, dir: dir, calls: calls}
}

func (h *cliHarness) run(args ...string) (string, error) {
	root := NewRootCmd(Options{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSubmitPrintsTableAndLink(t *testing.T) {
	h := newCLIHarness(t)
	svgPath := filepath.Join(h.dir, "graph.svg")

	out, err := h.run("submit", "--x", "2", "--y", "1,5", "--r", "2", "-q", "--svg", svgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2.00")
	assert.Contains(t, out, "1.50")
	assert.Contains(t, out, "Hit")
	assert.Contains(t, out, "Share link: http://127.0.0.1:8090/?r=2&x=2&y=1.5")

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `id="result-dot"`)
	assert.Contains(t, string(svg), `cx="100"`)
	assert.Contains(t, string(svg), `cy="-75"`)
}

func TestSubmitValidationError(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("submit", "--y", "1", "--r", "2", "-q")
	require.Error(t, err)
	assert.Equal(t, "Please select an X value.", err.Error())
	assert.Equal(t, int32(0), h.calls.Load())
}

func TestHistoryLifecycle(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("submit", "--x", "1", "--y", "1", "--r", "2", "-q")
	require.NoError(t, err)
	_, err = h.run("submit", "--x", "-1", "--y", "0", "--r", "3", "-q")
	require.NoError(t, err)

	out, err := h.run("history", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "-1.00"), strings.Index(out, " 1.00"), "newest first")

	out, err = h.run("history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries analyzed: 2")
	assert.Contains(t, out, "Hit rate: 100.0%")

	export := filepath.Join(h.dir, "history.jsonl")
	_, err = h.run("history", "export", export)
	require.NoError(t, err)
	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(string(data)), "\n")+1)

	_, err = h.run("history", "clear")
	require.NoError(t, err)
	out, err = h.run("history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No history recorded yet.")
}

func TestReplay(t *testing.T) {
	h := newCLIHarness(t)
	out, err := h.run("replay", "http://127.0.0.1:8090/?x=0.5&y=-2&r=3", "-q")
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.calls.Load())
	assert.Contains(t, out, "0.50")

	_, err = h.run("replay", "http://127.0.0.1:8090/?x=0.5", "-q")
	require.Error(t, err)
	assert.Equal(t, int32(1), h.calls.Load())
}

func TestGraphCommand(t *testing.T) {
	h := newCLIHarness(t)
	out, err := h.run("graph", "--r", "2", "--x", "1", "--y", "1", "--hit")
	require.NoError(t, err)
	assert.Contains(t, out, `cx="50"`)
	assert.Contains(t, out, `cy="-50"`)
	assert.Contains(t, out, "#198754")

	out, err = h.run("graph", "--r", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "result-dot")
}

func TestConfigAndVersionCommands(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("config", "path")
	require.NoError(t, err)
	assert.Equal(t, h.configPath+"\n", out)

	out, err = h.run("config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	_, err = h.run("config", "set", "service.timeout_seconds", "3")
	require.NoError(t, err)
	out, err = h.run("config", "get", "--key", "service.timeout_seconds")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = h.run("config", "set", "form.y_min", "10")
	require.Error(t, err)

	_, err = h.run("config", "set", "service.timout", "3")
	require.ErrorContains(t, err, "unknown config key")

	out, err = h.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "areacheck version")
}
