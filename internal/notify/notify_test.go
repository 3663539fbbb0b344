package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rlunar/ionize/internal/domain"
	"github.com/rlunar/ionize/internal/form"
	"github.com/rlunar/ionize/internal/lang"
	"github.com/rlunar/ionize/internal/settings"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *captureMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestDispatcher(mailer Mailer, views ViewSource) *Dispatcher {
	site := settings.NewMemory(map[string]string{
		settings.KeySiteEmail: "admin@example.com",
		settings.KeySiteTitle: "My Site",
	})
	return NewDispatcher(form.NewRegistry(nil), views, site, lang.New(nil), mailer, zerolog.Nop())
}

func actingUser() domain.User {
	u := domain.NewUser()
	u.Set(domain.FieldUsername, "jane@example.com")
	u.Set(domain.FieldEmail, "jane@example.com")
	u.Set(domain.FieldFirstname, "Jane")
	u.Set(domain.FieldLastname, "Doe")
	u.Set(domain.FieldPassword, "clear-pass")
	u.Set(domain.FieldActivationKey, "key-123")
	u.Group.Fields[domain.GroupFieldName] = "Users"
	return u
}

func TestSend_RegisterDispatchesBothRules(t *testing.T) {
	mailer := &captureMailer{}
	d := newTestDispatcher(mailer, DefaultViews)

	d.Send(context.Background(), "register", actingUser())

	require.Len(t, mailer.sent, 2)

	toUser := mailer.sent[0]
	require.Equal(t, "jane@example.com", toUser.To)
	require.Equal(t, "admin@example.com", toUser.From)
	require.Equal(t, "My Site", toUser.FromName)
	require.Equal(t, "My Site : Account creation", toUser.Subject)

	toSite := mailer.sent[1]
	require.Equal(t, "admin@example.com", toSite.To)
	require.Equal(t, "My Site : New account", toSite.Subject)
}

func TestSend_BodyRendersUserTags(t *testing.T) {
	mailer := &captureMailer{}
	d := newTestDispatcher(mailer, DefaultViews)

	d.Send(context.Background(), "password", actingUser())

	require.Len(t, mailer.sent, 1)
	body := mailer.sent[0].Body
	require.Contains(t, body, "Jane Doe")
	require.Contains(t, body, "clear-pass")
	require.Contains(t, body, "key-123")
	require.Contains(t, body, "My Site : Your new password")
}

func TestSend_SkipsRulesWithoutRecipient(t *testing.T) {
	mailer := &captureMailer{}
	d := newTestDispatcher(mailer, DefaultViews)

	u := actingUser()
	u.Set(domain.FieldEmail, "")
	d.Send(context.Background(), "password", u)

	require.Empty(t, mailer.sent)
}

func TestSend_FormWithoutRulesSendsNothing(t *testing.T) {
	mailer := &captureMailer{}
	d := newTestDispatcher(mailer, DefaultViews)

	d.Send(context.Background(), "login", actingUser())
	require.Empty(t, mailer.sent)
}

func TestSend_DeliveryFailureIsSwallowed(t *testing.T) {
	mailer := &captureMailer{err: errors.New("relay down")}
	d := newTestDispatcher(mailer, DefaultViews)

	// must not panic or surface the error
	d.Send(context.Background(), "register", actingUser())
	require.Empty(t, mailer.sent)
}

func TestSend_MissingViewSkipsTheRule(t *testing.T) {
	mailer := &captureMailer{}
	d := newTestDispatcher(mailer, MapViews{})

	d.Send(context.Background(), "password", actingUser())
	require.Empty(t, mailer.sent)
}

func TestEmailResolver(t *testing.T) {
	u := actingUser()
	r := emailResolver(u, "the subject")

	cases := map[string]string{
		"user:name":        "Jane Doe",
		"user:email":       "jane@example.com",
		"user:password":    "clear-pass",
		"user:group:title": "Users",
		"email_subject":    "the subject",
		"unknown:tag":      "",
	}
	for path, want := range cases {
		got, err := r(path, nil)
		require.NoError(t, err, path)
		require.Equal(t, want, got, path)
	}
}
