package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pickupgames/internal/api"
	"github.com/mcoot/pickupgames/internal/factory"
	"github.com/mcoot/pickupgames/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "pickup-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pickup")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) args(args ...string) []string {
	return append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)
}

func (r *cliRunner) run(args ...string) (string, error) {
	cmd := exec.Command(r.binaryPath, r.args(args...)...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) mustRun(t *testing.T, result any, args ...string) {
	t.Helper()
	out, err := r.run(args...)
	require.NoError(t, err, "pickup %s: %s", strings.Join(args, " "), out)
	if result != nil {
		require.NoError(t, json.Unmarshal([]byte(out), result), out)
	}
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server over a SQLite-backed app
type testServer struct {
	app      *factory.App
	url      string
	shutdown func()
}

func startTestServer(t *testing.T, dbPath string) *testServer {
	t.Helper()

	app, err := factory.New(t.Context(), factory.Config{
		Logger:      testutil.NopLogger(),
		StorageType: factory.StorageTypeSQLite,
		SQLitePath:  dbPath,
	})
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := api.DefaultServerConfig()
	cfg.Addr = listener.Addr().String()
	cfg.ShutdownTimeout = 5 * time.Second
	server := api.NewServer(app.Router(), cfg, testutil.NopLogger())
	server.OnShutdown(app.Hub.Close)

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/v1/health")

	var stopped bool
	ts := &testServer{
		app: app,
		url: serverURL,
		shutdown: func() {
			if stopped {
				return
			}
			stopped = true
			_ = server.Shutdown(context.Background())
			_ = app.Close(context.Background())
		},
	}
	t.Cleanup(ts.shutdown)
	return ts
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("server at %s did not become ready", url)
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type event struct {
	ID         string `json:"id"`
	MaxPlayers int    `json:"max_players"`
}

type joinRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func createEvent(t *testing.T, cli *cliRunner, title string) event {
	t.Helper()
	var e event
	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	cli.mustRun(t, &e, "event", "create",
		"--title", title, "--sport", "football", "--location", "Hackney Marshes",
		"--start", start, "--duration", "90m", "--max-players", "2")
	return e
}

func TestCLIFullFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the CLI binary")
	}

	dbPath := filepath.Join(t.TempDir(), "pickup.db")
	ts := startTestServer(t, dbPath)
	cli := newCLIRunner(t, ts.url)

	var alice, bob user
	cli.mustRun(t, &alice, "user", "register", "alice", "--password", "secret")
	assert.Equal(t, "alice", alice.Username)

	e := createEvent(t, cli, "Five-a-side")
	assert.Equal(t, 2, e.MaxPlayers)

	cli.mustRun(t, &bob, "user", "register", "bob", "--password", "secret")

	var req joinRequest
	cli.mustRun(t, &req, "request", "join", e.ID)
	assert.Equal(t, "PENDING", req.Status)

	// A second request for the same event is refused
	out, err := cli.run("request", "join", e.ID)
	require.Error(t, err)
	assert.Contains(t, out, "You already have an active request for this event")

	cli.mustRun(t, nil, "user", "login", "alice", "--password", "secret")
	cli.mustRun(t, &req, "request", "accept", req.ID)
	assert.Equal(t, "ACCEPTED", req.Status)

	var summary struct {
		ParticipantOf []string `json:"participant_of"`
	}
	cli.mustRun(t, &summary, "user", "summary", bob.ID)
	assert.Equal(t, []string{e.ID}, summary.ParticipantOf)

	// Restart over the same database file
	ts.shutdown()
	ts = startTestServer(t, dbPath)
	cli.serverURL = ts.url

	var me user
	cli.mustRun(t, &me, "user", "me")
	assert.Equal(t, alice.ID, me.ID)

	var participants struct {
		Participants []user `json:"participants"`
	}
	cli.mustRun(t, &participants, "event", "participants", e.ID)
	require.Len(t, participants.Participants, 1)
	assert.Equal(t, "bob", participants.Participants[0].Username)
}

func TestCLIWatchStreamsChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the CLI binary")
	}

	ts := startTestServer(t, filepath.Join(t.TempDir(), "pickup.db"))
	cli := newCLIRunner(t, ts.url)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	watch := exec.CommandContext(ctx, cli.binaryPath, "--server", ts.url, "watch", "--json")
	stdout, err := watch.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, watch.Start())
	defer func() {
		_ = watch.Process.Kill()
		_ = watch.Wait()
	}()

	lines := bufio.NewScanner(stdout)
	require.True(t, lines.Scan())
	assert.Contains(t, lines.Text(), `"event":"connected"`)

	cli.mustRun(t, nil, "user", "register", "alice", "--password", "secret")

	require.True(t, lines.Scan())
	var evt struct {
		Event string `json:"event"`
		Data  string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(lines.Bytes(), &evt))
	assert.Equal(t, "change", evt.Event)
	assert.Contains(t, evt.Data, `"users"`)
}
