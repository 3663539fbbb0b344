package connect

import (
	"context"
	"time"

	"github.com/rlunar/ionize/internal/domain"
)

// Session is the request-scoped login state: one per incoming request,
// bound to the session token carried by the request (empty when anonymous).
// The current user is fetched at most once and cached for the render.
type Session struct {
	svc   *Service
	store SessionStore
	ttl   time.Duration

	token  string
	user   *domain.User
	loaded bool
}

func NewSession(svc *Service, store SessionStore, ttl time.Duration, token string) *Session {
	return &Session{svc: svc, store: store, ttl: ttl, token: token}
}

// Token returns the current session token. It changes after Login and
// becomes empty after Logout; the transport layer mirrors it to the cookie.
func (s *Session) Token() string { return s.token }

// LoggedIn reports whether the request carries a live session.
func (s *Session) LoggedIn(ctx context.Context) bool {
	_, ok := s.CurrentUser(ctx)
	return ok
}

// CurrentUser returns the session's user, fetching it on first use.
func (s *Session) CurrentUser(ctx context.Context) (domain.User, bool) {
	if s.loaded {
		if s.user == nil {
			return domain.User{}, false
		}
		return *s.user, true
	}
	s.loaded = true

	if s.token == "" {
		return domain.User{}, false
	}
	username, err := s.store.Get(ctx, s.token)
	if err != nil {
		return domain.User{}, false
	}
	u, err := s.svc.GetUser(ctx, username)
	if err != nil {
		return domain.User{}, false
	}
	s.user = &u
	return u, true
}

// Login authenticates the credentials and opens a session. The caller is
// responsible for policy checks (group level) before attempting a login.
func (s *Session) Login(ctx context.Context, email, password string) error {
	u, found, err := s.svc.FindUser(ctx, map[string]string{domain.FieldEmail: email})
	if err != nil {
		return err
	}
	if !found || !s.svc.CheckPassword(u, password) {
		return domain.ErrInvalidCredentials()
	}

	token, err := s.store.Create(ctx, u.Username(), s.ttl)
	if err != nil {
		return domain.ErrStore("session_create", err)
	}
	s.token = token
	s.user = &u
	s.loaded = true
	return nil
}

// Logout ends the session, if any.
func (s *Session) Logout(ctx context.Context) error {
	if s.token != "" {
		if err := s.store.Delete(ctx, s.token); err != nil {
			return domain.ErrStore("session_delete", err)
		}
	}
	s.token = ""
	s.user = nil
	s.loaded = true
	return nil
}
