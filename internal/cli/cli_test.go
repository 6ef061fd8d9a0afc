package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pickupgames/internal/factory"
	"github.com/mcoot/pickupgames/internal/model"
)

func newTestServer(t *testing.T) (*httptest.Server, *factory.TestApp) {
	t.Helper()
	app := factory.NewTestApp()
	srv := httptest.NewServer(app.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close(t.Context())
	})
	return srv, app
}

// run executes the CLI against the server and returns stdout
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestHealthCommand(t *testing.T) {
	srv, _ := newTestServer(t)

	out, err := run(t, srv, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: ok")
}

func TestRegisterAndMeCommands(t *testing.T) {
	srv, _ := newTestServer(t)

	out, err := run(t, srv, "user", "register", "alice", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "User: alice")

	out, err = run(t, srv, "-o", "json", "user", "me")
	require.NoError(t, err)
	var me User
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.Equal(t, "alice", me.Username)
}

func TestAPIErrorsSurface(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := run(t, srv, "user", "me")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "You must be logged in", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "pickup user login")
}

func TestClientErrorsMatchModelErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(&Config{ServerURL: srv.URL, Timeout: 5 * time.Second}, nil)
	ctx := t.Context()

	err := c.Get(ctx, "/api/v1/events/missing", nil)
	assert.ErrorIs(t, err, model.ErrEventNotFound)
	assert.NotErrorIs(t, err, model.ErrRequestNotFound)

	require.NoError(t, c.Post(ctx, "/api/v1/auth/register", map[string]string{"username": "alice", "password": "pw"}, nil))
	err = c.Post(ctx, "/api/v1/auth/register", map[string]string{"username": "alice", "password": "pw"}, nil)
	assert.ErrorIs(t, err, model.ErrUsernameTaken)

	// Codes shared by several model errors match all of them
	err = c.Post(ctx, "/api/v1/events", map[string]any{"title": ""}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.ErrorIs(t, err, model.ErrInvalidTimeRange)

	internal := &APIError{Code: "INTERNAL_ERROR", Message: "Internal server error"}
	assert.NotErrorIs(t, internal, errors.New("disk on fire"))
}

func TestClientTracesRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	var trace bytes.Buffer
	c := NewClient(&Config{ServerURL: srv.URL + "/", Timeout: 5 * time.Second}, &trace)

	require.NoError(t, c.Get(t.Context(), "/api/v1/health", nil))
	assert.Contains(t, trace.String(), "GET /api/v1/health -> 200")
}

func TestVerboseFlagTracesToStderr(t *testing.T) {
	srv, _ := newTestServer(t)
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--server", srv.URL, "-v", "health"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Status: ok")
	assert.Contains(t, stderr.String(), "GET /api/v1/health -> 200")
}

func TestConfigValidate(t *testing.T) {
	valid := Config{ServerURL: "http://localhost:8080", Output: "text", Timeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"output", func(c *Config) { c.Output = "yaml" }, "invalid output format"},
		{"scheme", func(c *Config) { c.ServerURL = "localhost:8080" }, "invalid server URL"},
		{"no host", func(c *Config) { c.ServerURL = "http://" }, "invalid server URL"},
		{"timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInvalidOutputFlagFailsBeforeRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := run(t, srv, "-o", "yaml", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestPrintErrorIncludesCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	NewOutput("json", &stdout, &stderr).PrintError(&APIError{Code: "EVENT_FULL", Message: "Event is full"})

	var body struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &body))
	assert.Equal(t, "EVENT_FULL", body.Error["code"])
	assert.Equal(t, "Event is full (EVENT_FULL)", body.Error["message"])
}

func TestEventLifecycleCommands(t *testing.T) {
	srv, app := newTestServer(t)

	_, err := run(t, srv, "user", "register", "alice", "--password", "secret")
	require.NoError(t, err)

	start := app.MockClock.Now().Add(time.Hour).Format(time.RFC3339)
	out, err := run(t, srv, "-o", "json", "event", "create",
		"--title", "Basketball", "--sport", "basketball",
		"--start", start, "--duration", "90m", "--max-players", "10")
	require.NoError(t, err)
	var event Event
	require.NoError(t, json.Unmarshal([]byte(out), &event))
	assert.Equal(t, 90*time.Minute, event.EndTime.Sub(event.StartTime))

	out, err = run(t, srv, "event", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Basketball")

	_, err = run(t, srv, "user", "register", "bob", "--password", "secret")
	require.NoError(t, err)

	out, err = run(t, srv, "event", "can-join", event.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "You can join this event")

	out, err = run(t, srv, "-o", "json", "request", "join", event.ID)
	require.NoError(t, err)
	var req JoinRequest
	require.NoError(t, json.Unmarshal([]byte(out), &req))
	assert.Equal(t, "PENDING", req.Status)

	_, err = run(t, srv, "user", "login", "alice", "--password", "secret")
	require.NoError(t, err)

	out, err = run(t, srv, "event", "pending", event.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "from bob")

	out, err = run(t, srv, "request", "accept", req.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Status: ACCEPTED")

	out, err = run(t, srv, "event", "participants", event.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Participants (1)")

	out, err = run(t, srv, "event", "update", event.ID, "--max-players", "1")
	require.Error(t, err)
	assert.Empty(t, out)

	out, err = run(t, srv, "event", "delete", event.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Event deleted")

	out, err = run(t, srv, "event", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No upcoming events")
}

func TestCreateRejectsBadStart(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := run(t, srv, "event", "create",
		"--title", "Squash", "--start", "tomorrow", "--duration", "1h", "--max-players", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --start")
}

func TestWipeRequiresConfirmation(t *testing.T) {
	srv, app := newTestServer(t)

	_, err := run(t, srv, "user", "register", "alice", "--password", "secret")
	require.NoError(t, err)

	out, err := run(t, srv, "store", "wipe")
	require.NoError(t, err)
	assert.Contains(t, out, "Refusing")
	assert.Len(t, app.Store.Snapshot().Users, 1)

	out, err = run(t, srv, "store", "wipe", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Store wiped")
	assert.Empty(t, app.Store.Snapshot().Users)
}

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		"event: connected",
		`data: {"status":"connected"}`,
		"",
		": keepalive",
		"",
		"event: change",
		`data: {"collections":["events"],"revision":3}`,
		"",
	}, "\n")

	var events []string
	err := readEvents(strings.NewReader(stream), func(event, data string) {
		events = append(events, event+" "+data)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		`connected {"status":"connected"}`,
		`change {"collections":["events"],"revision":3}`,
	}, events)
}
