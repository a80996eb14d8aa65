package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/ballotbox/ballot/internal/core/domain"
	"github.com/ballotbox/ballot/internal/core/ports"
)

const (
	msgLoginOK        = "Login successful"
	msgLoginFailed    = "Invalid credentials. Please check your email and password."
	msgRegisterOK     = "Registration successful"
	msgRegisterFailed = "Registration failed. Please try again."
	msgLoggedOut      = "Logged out successfully"
	msgSessionExpired = "Session expired. Please log in again."
)

// SessionService is the authentication state machine. It owns the
// transitions of the Credential Store; the request pipeline reaches it
// through Invalidate when the server rejects a credential.
type SessionService struct {
	auth      ports.AuthAPI
	store     ports.CredentialStore
	notifier  ports.Notifier
	navigator ports.Navigator
	log       zerolog.Logger
	now       func() time.Time

	mu         sync.Mutex
	state      domain.SessionState
	cred       domain.Credential
	loading    bool
	loggingOut int
	observers  map[int]func(domain.Session)
	nextObs    int
}

func NewSessionService(
	auth ports.AuthAPI,
	store ports.CredentialStore,
	notifier ports.Notifier,
	navigator ports.Navigator,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		auth:      auth,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		log:       log.With().Str("component", "session").Logger(),
		now:       time.Now,
		state:     domain.StateUnknown,
		observers: make(map[int]func(domain.Session)),
	}
}

// Bootstrap resolves the Unknown state from the Credential Store. Later
// calls return the current snapshot unchanged.
func (s *SessionService) Bootstrap(_ context.Context) domain.Session {
	s.mu.Lock()
	if s.state != domain.StateUnknown {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.loading = true

	cred, ok := s.store.Load()
	if ok {
		s.setLocked(domain.StateAuthenticated, cred)
		s.log.Debug().Object("credential", cred).Msg("session restored")
	} else {
		s.setLocked(domain.StateAnonymous, domain.Credential{})
	}
	s.loading = false
	return s.unlockAndPublish()
}

// Login authenticates with email and password. On failure the store is
// cleared and the session ends Anonymous.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	s.begin(ctx)

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.failAuth(msgLoginFailed)
		return oops.In("session").With("operation", "login").Wrap(err)
	}
	if err := s.completeAuth(res.User, res.Token, msgLoginOK, msgLoginFailed); err != nil {
		return oops.In("session").With("operation", "login").Wrap(err)
	}
	return nil
}

// Register creates an account and signs in as a voter.
func (s *SessionService) Register(ctx context.Context, name, email, password string) error {
	s.begin(ctx)

	res, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		s.failAuth(msgRegisterFailed)
		return oops.In("session").With("operation", "register").Wrap(err)
	}
	res.User.Role = domain.RoleVoter
	if err := s.completeAuth(res.User, res.Token, msgRegisterOK, msgRegisterFailed); err != nil {
		return oops.In("session").With("operation", "register").Wrap(err)
	}
	return nil
}

// begin moves the machine into Authenticating, bootstrapping first when
// nothing has resolved the initial state yet.
func (s *SessionService) begin(ctx context.Context) {
	s.mu.Lock()
	unknown := s.state == domain.StateUnknown
	s.mu.Unlock()
	if unknown {
		s.Bootstrap(ctx)
	}

	s.mu.Lock()
	s.loading = true
	s.transitionLocked(domain.StateAuthenticating, s.cred)
	s.unlockAndPublish()
}

func (s *SessionService) completeAuth(p domain.Profile, token, okMsg, failMsg string) error {
	cred, err := domain.NewCredential(p, token, s.now())
	if err == nil {
		err = s.store.Save(cred)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("auth response rejected")
		s.failAuth(failMsg)
		return err
	}

	s.mu.Lock()
	s.loading = false
	// The store now holds cred, so the state follows it even when an
	// overlapping auth call already resolved to Anonymous.
	s.setLocked(domain.StateAuthenticated, cred)
	s.unlockAndPublish()

	s.log.Info().Object("credential", cred).Msg("authenticated")
	s.notifier.Notify(ports.Notice{Level: ports.NoticeSuccess, Message: okMsg})
	s.navigator.Navigate(ports.RouteVote)
	return nil
}

func (s *SessionService) failAuth(notice string) {
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("clear credential")
	}
	s.mu.Lock()
	s.loading = false
	s.transitionLocked(domain.StateAnonymous, domain.Credential{})
	s.unlockAndPublish()

	s.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: notice})
}

// Refresh replaces the token in place. Any failure ends the session: a
// token the server would not renew is not kept. If the session was replaced
// or ended while the call was in flight, the new token is dropped and
// ErrSessionChanged returned.
func (s *SessionService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.StateAuthenticated {
		s.mu.Unlock()
		return oops.In("session").With("operation", "refresh").Wrap(domain.ErrNotAuthenticated)
	}
	old := s.cred
	s.loading = true
	s.unlockAndPublish()

	token, err := s.auth.Refresh(ctx)
	if err == nil && token == "" {
		err = domain.ErrIncompleteCredential
	}
	if err == nil {
		err = s.replaceToken(old, token)
	}
	if errors.Is(err, domain.ErrSessionChanged) {
		s.log.Debug().Str("subject", old.SubjectID).Msg("refreshed token dropped, session changed")
		return oops.In("session").With("operation", "refresh").Wrap(err)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("token refresh failed")
		s.expire(old.BearerToken())
		s.mu.Lock()
		s.loading = false
		s.unlockAndPublish()
		return oops.In("session").With("operation", "refresh").Wrap(err)
	}

	s.log.Debug().Str("subject", old.SubjectID).Msg("token refreshed")
	return nil
}

func (s *SessionService) replaceToken(old domain.Credential, token string) error {
	s.mu.Lock()
	defer func() { s.unlockAndPublish() }()

	s.loading = false
	// Someone else replaced or ended the session meanwhile.
	if s.state != domain.StateAuthenticated || s.cred.BearerToken() != old.BearerToken() {
		return domain.ErrSessionChanged
	}
	next := old.WithToken(token, s.now())
	if err := s.store.Save(next); err != nil {
		return err
	}
	s.cred = next
	return nil
}

// Logout always ends Anonymous with an empty store. The server is told on a
// best-effort basis.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.loggingOut++
	s.mu.Unlock()

	if err := s.auth.Logout(ctx); err != nil {
		s.log.Info().Err(err).Msg("server logout failed; clearing locally")
	}

	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("clear credential")
	}
	s.mu.Lock()
	s.loggingOut--
	s.loading = false
	s.transitionLocked(domain.StateAnonymous, domain.Credential{})
	s.unlockAndPublish()

	s.notifier.Notify(ports.Notice{Level: ports.NoticeSuccess, Message: msgLoggedOut})
	s.navigator.Navigate(ports.RouteHome)
}

// Verify asks the server who the stored token belongs to and folds the
// answer into the credential. A rejected token is handled by the pipeline
// before the error reaches here.
func (s *SessionService) Verify(ctx context.Context) (*domain.Profile, error) {
	s.mu.Lock()
	if s.state != domain.StateAuthenticated {
		s.mu.Unlock()
		return nil, oops.In("session").With("operation", "verify").Wrap(domain.ErrNotAuthenticated)
	}
	cur := s.cred
	s.mu.Unlock()

	p, err := s.auth.Me(ctx)
	if err != nil {
		return nil, oops.In("session").With("operation", "verify").Wrap(err)
	}

	s.mu.Lock()
	if s.state == domain.StateAuthenticated && s.cred.BearerToken() == cur.BearerToken() {
		next := s.cred
		if p.ID != "" {
			next.SubjectID = p.ID
		}
		if p.Name != "" {
			next.DisplayName = p.Name
		}
		if p.Email != "" {
			next.Email = p.Email
		}
		next.Role = p.Role
		if next != s.cred {
			if err := s.store.Save(next); err != nil {
				s.log.Warn().Err(err).Msg("persist verified profile")
			} else {
				s.cred = next
			}
		}
	}
	s.unlockAndPublish()
	return p, nil
}

// Invalidate implements ports.Invalidator. The rejected token must still be
// the stored one; a request that carried no token only counts while nothing
// is stored.
func (s *SessionService) Invalidate(token string) bool {
	s.mu.Lock()
	cur, ok := s.store.Load()
	switch {
	case token == "" && ok:
		s.mu.Unlock()
		return false
	case token != "" && (!ok || cur.BearerToken() != token):
		s.mu.Unlock()
		return false
	}
	if ok {
		if err := s.store.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("clear credential")
		}
	}

	// Login, register and logout report their own outcome.
	quiet := s.state == domain.StateAuthenticating || s.loggingOut > 0
	wasAuthenticated := s.state == domain.StateAuthenticated
	if s.state != domain.StateAuthenticating {
		s.transitionLocked(domain.StateAnonymous, domain.Credential{})
	}
	s.unlockAndPublish()

	if wasAuthenticated {
		s.log.Info().Str("subject", cur.SubjectID).Msg("session invalidated by server")
	}
	return !quiet
}

// expire ends the session held under token with the same feedback as a
// server rejection. It is a no-op when that session is already gone.
func (s *SessionService) expire(token string) {
	if token == "" || !s.Invalidate(token) {
		return
	}
	s.navigator.Navigate(ports.RouteLogin)
	s.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: msgSessionExpired})
}

// Subscribe registers fn to receive the session after every change. The
// returned func removes it.
func (s *SessionService) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *SessionService) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) IsAuthenticated() bool { return s.Current().IsAuthenticated }

func (s *SessionService) IsAdmin() bool { return s.Current().IsAdmin }

// IsLoading is true while the initial state is unresolved or an auth call
// is outstanding.
func (s *SessionService) IsLoading() bool { return s.Current().IsLoading }

// Subject returns the acting voter's id.
func (s *SessionService) Subject() (string, bool) {
	snap := s.Current()
	return snap.SubjectID, snap.IsAuthenticated
}

func (s *SessionService) transitionLocked(next domain.SessionState, cred domain.Credential) {
	if !s.state.CanTransitionTo(next) {
		s.log.Warn().
			Str("from", string(s.state)).
			Str("to", string(next)).
			Msg("invalid session transition")
		return
	}
	s.setLocked(next, cred)
}

func (s *SessionService) setLocked(next domain.SessionState, cred domain.Credential) {
	if s.state != next {
		s.log.Debug().Str("from", string(s.state)).Str("to", string(next)).Msg("session transition")
	}
	s.state = next
	s.cred = cred
}

func (s *SessionService) snapshotLocked() domain.Session {
	snap := domain.Session{
		State:     s.state,
		IsLoading: s.loading || s.state == domain.StateUnknown,
	}
	if s.state == domain.StateAuthenticated {
		snap.IsAuthenticated = true
		snap.IsAdmin = s.cred.IsAdmin()
		snap.SubjectID = s.cred.SubjectID
		snap.DisplayName = s.cred.DisplayName
		snap.Email = s.cred.Email
		snap.Role = s.cred.Role
	}
	return snap
}

// unlockAndPublish releases s.mu and hands the new snapshot to observers
// outside the lock.
func (s *SessionService) unlockAndPublish() domain.Session {
	snap := s.snapshotLocked()
	obs := make([]func(domain.Session), 0, len(s.observers))
	for _, fn := range s.observers {
		obs = append(obs, fn)
	}
	s.mu.Unlock()

	for _, fn := range obs {
		fn(snap)
	}
	return snap
}
