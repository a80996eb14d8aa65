package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/ballot/internal/api"
	"github.com/ballotbox/ballot/internal/backend"
	"github.com/ballotbox/ballot/internal/infrastructure/credstore"
)

const (
	adminEmail    = "admin@cli.test"
	adminPassword = "admin123"
	testSecret    = "cli-test-secret"
)

type harness struct {
	t        *testing.T
	srv      *httptest.Server
	dir      string
	credFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	store := backend.NewMemoryStore()
	auth := backend.NewAuthService(store, testSecret, time.Hour)
	election := backend.NewElectionService(store, store, backend.NewMemoryGuard(), zerolog.Nop())
	require.NoError(t, backend.Seed(ctx, auth, election, adminEmail, adminPassword, true))

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Auth:              auth,
		Election:          election,
		JWTSecret:         testSecret,
		Log:               zerolog.Nop(),
		DisableRequestLog: true,
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &harness{t: t, srv: srv, dir: dir, credFile: filepath.Join(dir, "state", "credential.json")}
}

// run executes one CLI invocation, like a fresh process would.
func (h *harness) run(args ...string) (string, int) {
	h.t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--api-url", h.srv.URL + "/api",
		"--credential-file", h.credFile,
		"--config", filepath.Join(h.dir, "missing.yaml"),
		"--log-level", "error",
	}, args...))
	code := execute(cmd)
	return out.String(), code
}

func TestRootCmd_Help(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	for _, sub := range []string{"login", "register", "logout", "refresh", "whoami", "candidates", "status", "vote", "results", "admin"} {
		assert.Contains(t, buf.String(), sub)
	}
}

func TestCLI_VoteFlow(t *testing.T) {
	h := newHarness(t)

	out, code := h.run("register", "--name", "Alice", "--email", "alice@cli.test", "--password", "secret1")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "✓ Registration successful")
	assert.Contains(t, out, "ballot vote <id>")

	out, code = h.run("whoami")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as Alice <alice@cli.test> (voter")

	out, code = h.run("candidates")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Grace Hopper")

	out, code = h.run("status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "You have not voted yet.")

	out, code = h.run("vote", "2")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Vote recorded for Grace Hopper")

	out, code = h.run("vote", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "You have already voted for candidate 2.")

	out, code = h.run("results")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Total votes: 1")
	assert.Contains(t, out, "100.0%")
}

func TestCLI_VoteForUnknownCandidate(t *testing.T) {
	h := newHarness(t)

	_, code := h.run("register", "--name", "Bob", "--email", "bob@cli.test", "--password", "secret1")
	require.Equal(t, 0, code)

	out, code := h.run("vote", "42")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "candidate not in current roster")
}

func TestCLI_LoginFailureReportedOnce(t *testing.T) {
	h := newHarness(t)

	out, code := h.run("login", "--email", adminEmail, "--password", "wrong")
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(out, "Invalid credentials. Please check your email and password."), out)
	assert.NotContains(t, out, "Session expired")
	assert.NotContains(t, out, "Error:")

	out, _ = h.run("whoami")
	assert.Contains(t, out, "Not logged in.")
}

func TestCLI_LoginFromStdin(t *testing.T) {
	h := newHarness(t)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(adminPassword + "\n"))
	cmd.SetArgs([]string{
		"--api-url", h.srv.URL + "/api",
		"--credential-file", h.credFile,
		"--config", filepath.Join(h.dir, "missing.yaml"),
		"login", "--email", adminEmail,
	})

	require.Equal(t, 0, execute(cmd), out.String())
	assert.Contains(t, out.String(), "✓ Login successful")
}

func TestCLI_AdminCommands(t *testing.T) {
	h := newHarness(t)

	_, code := h.run("register", "--name", "Voter", "--email", "voter@cli.test", "--password", "secret1")
	require.Equal(t, 0, code)
	out, code := h.run("admin", "add", "--name", "Edsger Dijkstra", "--party", "Structured", "--position", "Mayor")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "needs an admin account")

	_, code = h.run("login", "--email", adminEmail, "--password", adminPassword)
	require.Equal(t, 0, code)

	out, code = h.run("admin", "add", "--name", "Edsger Dijkstra", "--party", "Structured", "--position", "Mayor")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Added candidate 4: Edsger Dijkstra")

	out, code = h.run("admin", "update", "4", "--party", "Goto Considered Harmful")
	require.Equal(t, 0, code, out)

	out, code = h.run("candidates", "4")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Goto Considered Harmful")
	assert.Contains(t, out, "Edsger Dijkstra")

	out, code = h.run("admin", "add", "--name", "Nameless")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "invalid candidate data")

	out, code = h.run("admin", "delete", "4")
	require.Equal(t, 0, code, out)

	out, code = h.run("candidates")
	require.Equal(t, 0, code, out)
	assert.NotContains(t, out, "Dijkstra")
}

func TestCLI_RevokedSessionExpires(t *testing.T) {
	h := newHarness(t)

	_, code := h.run("login", "--email", adminEmail, "--password", adminPassword)
	require.Equal(t, 0, code)

	cred, ok := credstore.NewFileStore(h.credFile, zerolog.Nop()).Load()
	require.True(t, ok)
	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+cred.BearerToken())
	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	out, code := h.run("status")
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(out, "Session expired. Please log in again."), out)
	assert.Contains(t, out, "ballot login")

	out, _ = h.run("whoami")
	assert.Contains(t, out, "Not logged in.")
}

func TestCLI_RefreshAndLogout(t *testing.T) {
	h := newHarness(t)

	_, code := h.run("register", "--name", "Cy", "--email", "cy@cli.test", "--password", "secret1")
	require.Equal(t, 0, code)
	before, _ := credstore.NewFileStore(h.credFile, zerolog.Nop()).Load()

	out, code := h.run("refresh")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Token refreshed.")
	after, _ := credstore.NewFileStore(h.credFile, zerolog.Nop()).Load()
	assert.NotEqual(t, before.BearerToken(), after.BearerToken())

	out, code = h.run("whoami", "--verify")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as Cy")

	out, code = h.run("logout")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "✓ Logged out successfully")

	out, code = h.run("status")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not logged in")
}

func TestCLI_QuietSendsNoticesToLog(t *testing.T) {
	h := newHarness(t)

	out, code := h.run("--quiet", "login", "--email", adminEmail, "--password", adminPassword)
	require.Equal(t, 0, code, out)
	assert.NotContains(t, out, "✓ Login successful")

	out, code = h.run("whoami")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as Administrator")
	assert.Contains(t, out, "(admin")
}
