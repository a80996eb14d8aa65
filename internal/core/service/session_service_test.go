package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
	"github.com/ballotbox/ballot/internal/infrastructure/credstore"
	"github.com/ballotbox/ballot/internal/infrastructure/notify"
)

var errBoom = errors.New("boom")

func aliceResult(token string) *ports.AuthResult {
	return &ports.AuthResult{
		User:  domain.Profile{ID: "1", Role: domain.RoleVoter},
		Token: token,
	}
}

type sessionFixture struct {
	auth    *fakeAuth
	store   *credstore.MemoryStore
	rec     *notify.Recorder
	session *SessionService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		auth:  &fakeAuth{},
		store: credstore.NewMemoryStore(),
		rec:   notify.NewRecorder(),
	}
	f.session = NewSessionService(f.auth, f.store, f.rec, f.rec, zerolog.Nop())
	f.session.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func (f *sessionFixture) token(t *testing.T) string {
	t.Helper()
	c, ok := f.store.Load()
	if !ok {
		return ""
	}
	return c.Token
}

func TestSession_StartsUnknownAndLoading(t *testing.T) {
	f := newSessionFixture(t)
	cur := f.session.Current()
	assert.Equal(t, domain.StateUnknown, cur.State)
	assert.True(t, cur.IsLoading)
	assert.False(t, cur.IsAuthenticated)
}

func TestSession_BootstrapAnonymous(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSessionFixture(t)

	snap := f.session.Bootstrap(context.Background())

	assert.Equal(t, domain.StateAnonymous, snap.State)
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
}

func TestSession_BootstrapRestoresCredential(t *testing.T) {
	f := newSessionFixture(t)
	cred, err := domain.NewCredential(domain.Profile{ID: "7", Name: "root", Role: domain.RoleAdmin}, "t9", time.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.Save(cred))

	snap := f.session.Bootstrap(context.Background())

	assert.Equal(t, domain.StateAuthenticated, snap.State)
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.IsAdmin)
	assert.Equal(t, "7", snap.SubjectID)
	assert.Empty(t, f.auth.calls, "bootstrap never calls the server")
}

func TestSession_BootstrapCorruptIsAnonymous(t *testing.T) {
	f := newSessionFixture(t)
	f.store.SetRaw([]byte(`{"token":`))

	snap := f.session.Bootstrap(context.Background())

	assert.Equal(t, domain.StateAnonymous, snap.State)
	assert.True(t, f.store.Empty())
	assert.Empty(t, f.rec.Notices(), "corrupt state is recovered silently")
}

func TestSession_LoginScenario(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newSessionFixture(t)
	f.auth.loginRes = aliceResult("t1")
	f.session.Bootstrap(context.Background())

	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))

	assert.True(t, f.session.IsAuthenticated())
	assert.False(t, f.session.IsAdmin())
	assert.False(t, f.session.IsLoading())
	assert.Equal(t, "t1", f.token(t))
	assert.Equal(t, []string{msgLoginOK}, f.rec.Messages())
	assert.Equal(t, []ports.Route{ports.RouteVote}, f.rec.Routes())
}

func TestSession_LoginAdminFlag(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = &ports.AuthResult{User: domain.Profile{ID: "2", Role: domain.RoleAdmin}, Token: "a1"}

	require.NoError(t, f.session.Login(context.Background(), "admin@x.com", "pw"))
	assert.True(t, f.session.IsAdmin())
}

func TestSession_LoginFailureClearsAndNotifies(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = aliceResult("t1")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))
	f.rec.Reset()

	f.auth.loginRes, f.auth.loginErr = nil, errBoom
	err := f.session.Login(context.Background(), "alice@x.com", "wrong")

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.StateAnonymous, f.session.Current().State)
	assert.False(t, f.session.IsLoading())
	assert.True(t, f.store.Empty())
	assert.Equal(t, []string{msgLoginFailed}, f.rec.Messages())
}

func TestSession_LoginIncompleteResponse(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = &ports.AuthResult{User: domain.Profile{ID: "1", Role: domain.RoleVoter}}

	err := f.session.Login(context.Background(), "alice@x.com", "pw")

	assert.ErrorIs(t, err, domain.ErrIncompleteCredential)
	assert.False(t, f.session.IsAuthenticated())
	assert.True(t, f.store.Empty())
}

func TestSession_RegisterAlwaysVoter(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.registerRes = &ports.AuthResult{User: domain.Profile{ID: "3", Name: "bob", Role: domain.RoleAdmin}, Token: "r1"}

	require.NoError(t, f.session.Register(context.Background(), "bob", "bob@x.com", "pw"))

	assert.True(t, f.session.IsAuthenticated())
	assert.False(t, f.session.IsAdmin())
	assert.Equal(t, []string{msgRegisterOK}, f.rec.Messages())
}

func TestSession_RegisterFailure(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.registerErr = errBoom

	assert.ErrorIs(t, f.session.Register(context.Background(), "bob", "bob@x.com", "pw"), errBoom)
	assert.Equal(t, domain.StateAnonymous, f.session.Current().State)
	assert.Equal(t, []string{msgRegisterFailed}, f.rec.Messages())
}

func TestSession_RefreshReplacesTokenKeepsRole(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = &ports.AuthResult{User: domain.Profile{ID: "2", Role: domain.RoleAdmin}, Token: "a1"}
	require.NoError(t, f.session.Login(context.Background(), "admin@x.com", "pw"))

	f.auth.refreshTok = "a2"
	require.NoError(t, f.session.Refresh(context.Background()))

	assert.Equal(t, "a2", f.token(t))
	assert.True(t, f.session.IsAdmin())
	assert.True(t, f.session.IsAuthenticated())
	assert.False(t, f.session.IsLoading())
}

func TestSession_RefreshRequiresAuthenticated(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Bootstrap(context.Background())

	err := f.session.Refresh(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.NotContains(t, f.auth.calls, "refresh")
}

func TestSession_RefreshFailureForcesLogout(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = aliceResult("t1")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))
	f.rec.Reset()

	f.auth.refreshErr = errBoom
	err := f.session.Refresh(context.Background())

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.StateAnonymous, f.session.Current().State)
	assert.True(t, f.store.Empty())
	assert.Equal(t, []string{msgSessionExpired}, f.rec.Messages())
	assert.Equal(t, []ports.Route{ports.RouteLogin}, f.rec.Routes())
}

func TestSession_RefreshSupersededBySessionChange(t *testing.T) {
	tests := []struct {
		name      string
		change    func(f *sessionFixture)
		wantState domain.SessionState
		wantToken string
	}{
		{
			name: "login as someone else",
			change: func(f *sessionFixture) {
				f.auth.loginRes = &ports.AuthResult{User: domain.Profile{ID: "9", Name: "Bob", Role: domain.RoleVoter}, Token: "b1"}
				require.NoError(t, f.session.Login(context.Background(), "bob@x.com", "pw"))
			},
			wantState: domain.StateAuthenticated,
			wantToken: "b1",
		},
		{
			name:      "logout",
			change:    func(f *sessionFixture) { f.session.Logout(context.Background()) },
			wantState: domain.StateAnonymous,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			f.auth.loginRes = aliceResult("t1")
			require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))

			f.auth.refreshTok = "t2"
			f.auth.onRefresh = func() { tt.change(f) }
			f.rec.Reset()

			err := f.session.Refresh(context.Background())

			require.ErrorIs(t, err, domain.ErrSessionChanged)
			assert.Equal(t, tt.wantState, f.session.Current().State)
			assert.False(t, f.session.IsLoading())
			if tt.wantToken != "" {
				assert.Equal(t, tt.wantToken, f.token(t))
			} else {
				assert.True(t, f.store.Empty())
			}
			assert.NotContains(t, f.rec.Messages(), msgSessionExpired)
			assert.NotContains(t, f.rec.Routes(), ports.RouteLogin)
		})
	}
}

func TestSession_LogoutAlwaysEndsAnonymous(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{"server ok", nil},
		{"server down", errBoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t)
			f.auth.loginRes = aliceResult("t1")
			require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))
			f.rec.Reset()

			f.auth.logoutErr = tt.logoutErr
			f.session.Logout(context.Background())

			assert.Equal(t, domain.StateAnonymous, f.session.Current().State)
			assert.True(t, f.store.Empty())
			assert.Equal(t, []string{msgLoggedOut}, f.rec.Messages())
			assert.Equal(t, []ports.Route{ports.RouteHome}, f.rec.Routes())
		})
	}
}

func TestSession_LoginRefreshLogoutSequences(t *testing.T) {
	defer goleak.VerifyNone(t)
	ops := []string{"login", "refresh", "refresh", "login", "refresh-fail", "login", "logout"}

	for n := 1; n <= len(ops); n++ {
		f := newSessionFixture(t)
		f.auth.loginRes = aliceResult("t1")
		f.auth.refreshTok = "t2"
		ctx := context.Background()
		for _, op := range ops[:n] {
			switch op {
			case "login":
				f.auth.refreshErr = nil
				_ = f.session.Login(ctx, "alice@x.com", "pw")
			case "refresh":
				_ = f.session.Refresh(ctx)
			case "refresh-fail":
				f.auth.refreshErr = errBoom
				_ = f.session.Refresh(ctx)
			}
		}
		f.session.Logout(ctx)

		assert.Equal(t, domain.StateAnonymous, f.session.Current().State, "after %v", ops[:n])
		assert.True(t, f.store.Empty(), "after %v", ops[:n])
	}
}

func TestSession_InvalidateCurrentToken(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = aliceResult("t1")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))

	assert.True(t, f.session.Invalidate("t1"))
	assert.Equal(t, domain.StateAnonymous, f.session.Current().State)
	assert.True(t, f.store.Empty())

	// Repeated 401s for the same token change nothing.
	assert.False(t, f.session.Invalidate("t1"))
}

func TestSession_InvalidateStaleToken(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = aliceResult("t2")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))

	assert.False(t, f.session.Invalidate("t1"))
	assert.True(t, f.session.IsAuthenticated())
	assert.Equal(t, "t2", f.token(t))
}

func TestSession_InvalidateWithoutToken(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Bootstrap(context.Background())

	assert.True(t, f.session.Invalidate(""), "anonymous 401 still sends the user to login")
	assert.Equal(t, domain.StateAnonymous, f.session.Current().State)

	f.auth.loginRes = aliceResult("t1")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))
	assert.False(t, f.session.Invalidate(""), "an unauthenticated request cannot end a live session")
	assert.True(t, f.session.IsAuthenticated())
}

func TestSession_VerifyUpdatesProfile(t *testing.T) {
	f := newSessionFixture(t)
	f.auth.loginRes = aliceResult("t1")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))

	f.auth.me = &domain.Profile{ID: "1", Name: "Alice", Email: "alice@x.com", Role: domain.RoleVoter}
	p, err := f.session.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)

	cur := f.session.Current()
	assert.Equal(t, "Alice", cur.DisplayName)
	stored, ok := f.store.Load()
	require.True(t, ok)
	assert.Equal(t, "alice@x.com", stored.Email)
	assert.Equal(t, "t1", stored.Token)
}

func TestSession_VerifyRequiresAuthenticated(t *testing.T) {
	f := newSessionFixture(t)
	f.session.Bootstrap(context.Background())

	_, err := f.session.Verify(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestSession_Subscribe(t *testing.T) {
	f := newSessionFixture(t)
	var states []domain.SessionState
	unsubscribe := f.session.Subscribe(func(s domain.Session) {
		states = append(states, s.State)
	})

	f.auth.loginRes = aliceResult("t1")
	require.NoError(t, f.session.Login(context.Background(), "alice@x.com", "pw"))
	unsubscribe()
	f.session.Logout(context.Background())

	assert.Equal(t, []domain.SessionState{
		domain.StateAnonymous,      // bootstrap
		domain.StateAuthenticating, // login started
		domain.StateAuthenticated,
	}, states)
}
