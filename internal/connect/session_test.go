package connect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rlunar/ionize/internal/domain"
)

func TestSession_AnonymousByDefault(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	sess := NewSession(svc, newFakeSessionStore(), time.Hour, "")

	require.False(t, sess.LoggedIn(context.Background()))
	_, ok := sess.CurrentUser(context.Background())
	require.False(t, ok)
}

func TestSession_LoginOpensSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seededUser(repo, svc, "jane@example.com", "secret")

	store := newFakeSessionStore()
	sess := NewSession(svc, store, time.Hour, "")

	require.NoError(t, sess.Login(context.Background(), "jane@example.com", "secret"))
	require.Equal(t, "token-1", sess.Token())
	require.True(t, sess.LoggedIn(context.Background()))

	u, ok := sess.CurrentUser(context.Background())
	require.True(t, ok)
	require.Equal(t, "jane@example.com", u.Email())
}

func TestSession_LoginRejectsBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seededUser(repo, svc, "jane@example.com", "secret")

	sess := NewSession(svc, newFakeSessionStore(), time.Hour, "")

	err := sess.Login(context.Background(), "jane@example.com", "wrong")
	require.True(t, domain.Is(err, "invalid_credentials"))
	require.Empty(t, sess.Token())
}

func TestSession_LoginRejectsUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	sess := NewSession(svc, newFakeSessionStore(), time.Hour, "")

	err := sess.Login(context.Background(), "missing@example.com", "secret")
	require.True(t, domain.Is(err, "invalid_credentials"))
}

func TestSession_CurrentUserFetchedOnce(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seededUser(repo, svc, "jane@example.com", "secret")

	store := newFakeSessionStore()
	token, err := store.Create(context.Background(), u.Username(), time.Hour)
	require.NoError(t, err)

	sess := NewSession(svc, store, time.Hour, token)
	_, ok := sess.CurrentUser(context.Background())
	require.True(t, ok)

	// a broken store after the first fetch goes unnoticed for this request
	store.getErr = domain.ErrStore("session_get", nil)
	_, ok = sess.CurrentUser(context.Background())
	require.True(t, ok)
}

func TestSession_ExpiredTokenIsAnonymous(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	sess := NewSession(svc, newFakeSessionStore(), time.Hour, "stale-token")
	require.False(t, sess.LoggedIn(context.Background()))
}

func TestSession_LogoutClearsStateAndStore(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seededUser(repo, svc, "jane@example.com", "secret")

	store := newFakeSessionStore()
	sess := NewSession(svc, store, time.Hour, "")
	require.NoError(t, sess.Login(context.Background(), "jane@example.com", "secret"))

	require.NoError(t, sess.Logout(context.Background()))
	require.Empty(t, sess.Token())
	require.False(t, sess.LoggedIn(context.Background()))
	require.Equal(t, []string{"token-1"}, store.deletedTokens)
}

func TestSession_LogoutWithoutSessionIsNoop(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	store := newFakeSessionStore()
	sess := NewSession(svc, store, time.Hour, "")
	require.NoError(t, sess.Logout(context.Background()))
	require.Empty(t, store.deletedTokens)
}
