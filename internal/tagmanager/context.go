// Package tagmanager binds the <ion:user> tag family to user and session
// data, and processes the authentication form submissions (login, logout,
// register, password reset, activation, profile).
package tagmanager

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/rlunar/ionize/internal/domain"
	"github.com/rlunar/ionize/internal/form"
	"github.com/rlunar/ionize/internal/lang"
	"github.com/rlunar/ionize/internal/templating"
)

// AccountService is the slice of the Connect account service the tag
// manager needs.
type AccountService interface {
	FindUser(ctx context.Context, criteria map[string]string) (domain.User, bool, error)
	GetUser(ctx context.Context, username string) (domain.User, error)
	Register(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, u domain.User) error
	Decrypt(value string, u domain.User) (string, error)
	ActivationKey(u domain.User) string
	RandomPassword(n int) string
	UserFields(ctx context.Context) ([]domain.Field, error)
	GroupFields(ctx context.Context) ([]domain.Field, error)
}

// SessionState is the request's login session.
type SessionState interface {
	LoggedIn(ctx context.Context) bool
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (domain.User, bool)
}

// Notifier sends the notification emails configured for a form. Best
// effort: it reports nothing back.
type Notifier interface {
	Send(ctx context.Context, formName string, u domain.User)
}

// Validator checks a form's posted values against its rule set.
type Validator interface {
	Validate(name string, post url.Values) (map[string]string, bool)
}

// Deps are the collaborators of one render context.
type Deps struct {
	Account   AccountService
	Session   SessionState
	Forms     *form.Registry
	Validator Validator
	Notifier  Notifier
	Lang      *lang.Translator
	Logger    zerolog.Logger

	// Post is the submitted request data; the reserved "form" key selects
	// the submitted form, if any.
	Post url.Values

	// Now overrides the record timestamp source in tests.
	Now func() time.Time
}

// RenderContext owns all per-render mutable state: the tag registry, the
// one-time initialization flag, the current user and the outcome messages.
// One context per request; nothing here is shared across requests.
type RenderContext struct {
	deps Deps

	registry  map[string]TagFunc
	processed bool
	user      *domain.User

	// Results holds the per-form outcome messages recorded by the
	// dispatcher, consumed by the rendering layer.
	Results *form.Results

	// condition is the evaluation result of the last conditional tag,
	// threaded explicitly so sibling branches can coordinate.
	condition *bool
}

func NewRenderContext(deps Deps) *RenderContext {
	if deps.Post == nil {
		deps.Post = url.Values{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Validator == nil {
		deps.Validator = passValidator{}
	}
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}
	rc := &RenderContext{
		deps:    deps,
		Results: form.NewResults(),
	}
	rc.registry = make(map[string]TagFunc, len(baseTags)+16)
	for path, fn := range baseTags {
		rc.registry[path] = fn
	}
	return rc
}

// Resolve renders the tag at path. Unknown paths render empty: a page may
// reference user fields that the installation does not carry.
func (rc *RenderContext) Resolve(ctx context.Context, path string, tag templating.Binding) (string, error) {
	fn, ok := rc.registry[path]
	if !ok {
		return "", nil
	}
	return fn(ctx, rc, tag)
}

// Render expands a template source through this context.
func (rc *RenderContext) Render(ctx context.Context, src string) (string, error) {
	eng := templating.NewEngine(func(path string, b templating.Binding) (string, error) {
		return rc.Resolve(ctx, path, b)
	})
	return eng.Render(src)
}

// User returns the user loaded for this render, if any.
func (rc *RenderContext) User() (domain.User, bool) {
	if rc.user == nil {
		return domain.User{}, false
	}
	return *rc.user, true
}

// LastCondition returns the result of the last evaluated conditional tag
// and whether one was evaluated at all in this render.
func (rc *RenderContext) LastCondition() (matched, evaluated bool) {
	if rc.condition == nil {
		return false, false
	}
	return *rc.condition, true
}

func (rc *RenderContext) line(key string, args ...any) string {
	if rc.deps.Lang == nil {
		return key
	}
	return rc.deps.Lang.Line(key, args...)
}

func (rc *RenderContext) now() string {
	return rc.deps.Now().Format("2006-01-02 15:04:05")
}

type passValidator struct{}

func (passValidator) Validate(string, url.Values) (map[string]string, bool) { return nil, true }

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, domain.User) {}
