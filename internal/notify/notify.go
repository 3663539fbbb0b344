// Package notify sends the notification emails configured for a form
// action. Best-effort and side-effect-only: delivery failures are logged
// and never surfaced to the submitting user.
package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rlunar/ionize/internal/domain"
	"github.com/rlunar/ionize/internal/form"
	"github.com/rlunar/ionize/internal/lang"
	"github.com/rlunar/ionize/internal/metrics"
	"github.com/rlunar/ionize/internal/settings"
	"github.com/rlunar/ionize/internal/templating"
)

// Message is one outgoing email.
type Message struct {
	From     string `json:"from"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Mailer is the delivery transport (SMTP, queue, fake).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ViewSource resolves an email view name to its template source.
type ViewSource interface {
	View(name string) (string, bool)
}

// MapViews is a map-backed ViewSource.
type MapViews map[string]string

func (m MapViews) View(name string) (string, bool) {
	src, ok := m[name]
	return src, ok
}

// Dispatcher resolves recipients, renders email bodies through the
// templating engine and hands them to the mailer.
type Dispatcher struct {
	forms  *form.Registry
	views  ViewSource
	site   settings.Store
	lang   *lang.Translator
	mailer Mailer
	lg     zerolog.Logger
}

func NewDispatcher(forms *form.Registry, views ViewSource, site settings.Store, tr *lang.Translator, mailer Mailer, lg zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		forms:  forms,
		views:  views,
		site:   site,
		lang:   tr,
		mailer: mailer,
		lg:     lg.With().Str("component", "notify").Logger(),
	}
}

// Send dispatches every email rule configured for the form. u is the acting
// user's record, carried explicitly: no session may be active during
// registration or password reset, so the email templates cannot rely on the
// ambient session state.
func (d *Dispatcher) Send(ctx context.Context, formName string, u domain.User) {
	siteEmail := d.site.Get(settings.KeySiteEmail)
	siteTitle := d.site.Get(settings.KeySiteTitle)

	for _, rule := range d.forms.FormEmails(formName) {
		var to string
		switch rule.Recipient {
		case "website":
			to = siteEmail
		case "user":
			to = u.Email()
		}
		if to == "" {
			continue
		}

		subject := d.lang.Line(rule.Subject, siteTitle)
		body, err := d.renderView(rule.View, subject, u)
		if err != nil {
			d.lg.Error().Err(err).Str("form", formName).Str("view", rule.View).Msg("email view render failed")
			metrics.RecordEmailFailed(formName)
			continue
		}

		msg := Message{
			From:     siteEmail,
			FromName: siteTitle,
			To:       to,
			Subject:  subject,
			Body:     body,
		}
		if err := d.mailer.Send(ctx, msg); err != nil {
			// swallowed: the form outcome never reflects delivery failures
			d.lg.Error().Err(err).Str("form", formName).Str("to", to).Msg("email send failed")
			metrics.RecordEmailFailed(formName)
			continue
		}
		metrics.RecordEmailSent(formName)
	}
}

// renderView expands the named view with the user and group bound
// explicitly into the template scope.
func (d *Dispatcher) renderView(view, subject string, u domain.User) (string, error) {
	src, ok := d.views.View(view)
	if !ok {
		return "", domain.WithMeta(
			domain.New(domain.KindConfiguration, "missing_email_view", "no source for email view"),
			map[string]string{"view": view},
		)
	}
	eng := templating.NewEngine(emailResolver(u, subject))
	return eng.Render(src)
}

// emailResolver resolves the user tag family against an explicit record,
// outside any render context. Email views reference the same tags as pages
// but cannot depend on a live session.
func emailResolver(u domain.User, subject string) templating.Resolver {
	return func(path string, b templating.Binding) (string, error) {
		switch path {
		case "user", "user:group":
			b.Set("user", u)
			b.Set("group", u.Group)
			return b.Expand()
		case "user:name":
			return u.DisplayName(), nil
		case "user:group:name":
			return u.Group.Get(domain.GroupFieldSlug), nil
		case "user:group:title":
			return u.Group.Get(domain.GroupFieldName), nil
		case "email_subject":
			return subject, nil
		}
		if field, ok := strings.CutPrefix(path, "user:group:"); ok {
			return u.Group.Get(field), nil
		}
		if field, ok := strings.CutPrefix(path, "user:"); ok {
			return u.Get(field), nil
		}
		// unknown tags render empty, same as page rendering
		return "", nil
	}
}
