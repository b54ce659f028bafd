package daemon

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T) (*Coordinator, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "horsetab.conf")
	require.NoError(t, os.WriteFile(path, []byte(".-  true\n.. true\n"), 0o644))

	c := New(path)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c.Run(ctx)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	c.Reinstall(string(data))

	return c, path
}

func TestInjectSequenceDispatchesMatchingCommand(t *testing.T) {
	c, _ := newTestCoordinator(t)

	c.InjectSequence(".-")

	require.Eventually(t, func() bool {
		families, err := c.Metrics().Registry.Gather()
		if err != nil {
			return false
		}
		for _, mf := range families {
			if mf.GetName() == "horsetab_commands_dispatched_total" {
				return mf.GetMetric()[0].GetCounter().GetValue() == 1
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "matching command should be dispatched")

	require.Eventually(t, func() bool {
		return len(c.Processes().Snapshot()) == 0
	}, 2*time.Second, 10*time.Millisecond, "spawned process should finish quickly")
}

func TestReinstallReportsUnreachableSequence(t *testing.T) {
	c, _ := newTestCoordinator(t)

	cfg := c.Reinstall(".-  echo one\n.-.  echo two\n")
	require.Len(t, cfg.Commands, 2)
	require.Contains(t, cfg.UnreachableSequences, ".-.")

	commands := c.CurrentCommands()
	require.Len(t, commands, 2)
}

func TestLoadOrInitBootstrapsMissingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "horsetab.conf")

	c := New(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Run(ctx)

	cfg, err := c.LoadOrInit(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Commands)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestHTTPSurfaceServesControlPlaneRoutes(t *testing.T) {
	c, _ := newTestCoordinator(t)

	srv := NewServer("127.0.0.1:0", c)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/current-installed-commands")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	resp2, err := ts.Client().Get(ts.URL + "/tcp-port")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, 200, resp2.StatusCode)

	resp3, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, 200, resp3.StatusCode)
}
