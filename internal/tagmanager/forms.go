package tagmanager

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rlunar/ionize/internal/domain"
	"github.com/rlunar/ionize/internal/form"
	"github.com/rlunar/ionize/internal/metrics"
	"github.com/rlunar/ionize/internal/templating"
)

// FormKind enumerates the recognized user forms.
type FormKind int

const (
	FormUnknown FormKind = iota
	FormLogout
	FormLogin
	FormRegister
	FormPassword
	FormActivation
	FormProfile
)

func ParseFormKind(name string) FormKind {
	switch name {
	case "logout":
		return FormLogout
	case "login":
		return FormLogin
	case "register":
		return FormRegister
	case "password":
		return FormPassword
	case "activation":
		return FormActivation
	case "profile":
		return FormProfile
	}
	return FormUnknown
}

func (k FormKind) String() string {
	switch k {
	case FormLogout:
		return "logout"
	case FormLogin:
		return "login"
	case FormRegister:
		return "register"
	case FormPassword:
		return "password"
	case FormActivation:
		return "activation"
	case FormProfile:
		return "profile"
	}
	return "unknown"
}

// Typed payloads, decoded from the posted data.

type loginRequest struct {
	Email    string
	Password string
}

type passwordRequest struct {
	Email string
}

type registerRequest struct {
	Values url.Values
}

type profileRequest struct {
	Delete bool
	Values url.Values
}

// processSubmission routes the submitted form, if any, to its handler.
// Unrecognized form names are no-ops: no message, no account mutation.
// Returned errors are configuration errors and halt the render.
func (rc *RenderContext) processSubmission(ctx context.Context, tag templating.Binding) error {
	name := rc.deps.Post.Get("form")
	if name == "" {
		return nil
	}
	kind := ParseFormKind(name)
	if kind == FormUnknown {
		rc.deps.Logger.Debug().Str("form", name).Msg("ignoring unrecognized form")
		return nil
	}

	var (
		outcome string
		err     error
	)
	switch kind {
	case FormLogout:
		outcome, err = rc.processLogout(ctx, tag)
	case FormLogin:
		outcome, err = rc.processLogin(ctx, loginRequest{
			Email:    rc.deps.Post.Get("email"),
			Password: rc.deps.Post.Get("password"),
		})
	case FormRegister:
		outcome, err = rc.processRegister(ctx, registerRequest{Values: rc.deps.Post})
	case FormPassword:
		outcome, err = rc.processPassword(ctx, passwordRequest{
			Email: rc.deps.Post.Get("email"),
		})
	case FormActivation:
		// reserved for the account-activation confirmation flow
		outcome = metrics.OutcomeSkipped
	case FormProfile:
		outcome, err = rc.processProfile(ctx, tag, profileRequest{
			Delete: rc.deps.Post.Get("delete") != "",
			Values: rc.deps.Post,
		})
	default:
		return fmt.Errorf("unhandled form kind %d", kind)
	}
	if err != nil {
		return err
	}

	metrics.RecordSubmission(kind.String(), outcome)
	return nil
}

// processLogout ends the active session, if any. The only idempotent form.
func (rc *RenderContext) processLogout(ctx context.Context, tag templating.Binding) (string, error) {
	if !rc.deps.Session.LoggedIn(ctx) {
		return metrics.OutcomeSkipped, nil
	}
	if err := rc.deps.Session.Logout(ctx); err != nil {
		rc.deps.Logger.Error().Err(err).Msg("logout failed")
		return metrics.OutcomeError, nil
	}
	tag.Remove("user")
	rc.user = nil
	return metrics.OutcomeSuccess, nil
}

func (rc *RenderContext) processLogin(ctx context.Context, req loginRequest) (string, error) {
	settings, _ := rc.deps.Forms.Get("login")

	failures, ok := rc.deps.Validator.Validate("login", rc.deps.Post)
	if !ok {
		rc.Results.SetError("login", form.Summary(failures))
		return metrics.OutcomeError, nil
	}
	if rc.deps.Session.LoggedIn(ctx) {
		return metrics.OutcomeSkipped, nil
	}

	u, found, err := rc.deps.Account.FindUser(ctx, map[string]string{domain.FieldEmail: req.Email})
	if err != nil {
		rc.deps.Logger.Error().Err(err).Msg("login lookup failed")
		rc.Results.SetError("login", rc.line(settings.Error))
		return metrics.OutcomeError, nil
	}
	if !found {
		rc.Results.SetError("login", rc.line(settings.NotFound))
		return metrics.OutcomeError, nil
	}

	// accounts below the login tier never reach the login attempt
	if u.Group.Level() < domain.MinLoginLevel {
		rc.Results.SetError("login", rc.line(settings.NotActivated))
		return metrics.OutcomeError, nil
	}

	if err := rc.deps.Session.Login(ctx, req.Email, req.Password); err != nil {
		rc.Results.SetError("login", rc.line(settings.Error))
		return metrics.OutcomeError, nil
	}
	rc.Results.SetSuccess("login", rc.line(settings.Success))
	return metrics.OutcomeSuccess, nil
}

func (rc *RenderContext) processRegister(ctx context.Context, req registerRequest) (string, error) {
	settings, _ := rc.deps.Forms.Get("register")

	failures, ok := rc.deps.Validator.Validate("register", rc.deps.Post)
	if !ok {
		rc.Results.SetError("register", form.Summary(failures))
		return metrics.OutcomeError, nil
	}

	fields := rc.deps.Forms.FormFields("register")
	if fields == nil {
		// configuration error, halts before any account-service call
		return "", domain.ErrMissingFormDefinition("register")
	}

	u := recordFromPost(fields, req.Values)
	u.Set(domain.FieldUsername, u.Get(domain.FieldEmail))
	u.Set(domain.FieldJoinDate, rc.now())

	if err := rc.deps.Account.Register(ctx, u); err != nil {
		rc.deps.Logger.Warn().Err(err).Msg("register failed")
		rc.Results.SetError("register", rc.line("form_register_error_message"))
		return metrics.OutcomeError, nil
	}

	// re-read the persisted record; the notification carries the stored
	// password in clear (one-time use) and the derived activation key
	saved, err := rc.deps.Account.GetUser(ctx, u.Username())
	if err != nil {
		rc.deps.Logger.Error().Err(err).Msg("re-reading registered user failed")
		saved = u
	}
	notified := saved.Clone()
	notified.Set(domain.FieldActivationKey, rc.deps.Account.ActivationKey(saved))
	if clear, err := rc.deps.Account.Decrypt(saved.Get(domain.FieldPassword), saved); err == nil {
		notified.Set(domain.FieldPassword, clear)
	}
	rc.deps.Notifier.Send(ctx, "register", notified)

	rc.Results.SetSuccess("register", rc.line(settings.Success))
	return metrics.OutcomeSuccess, nil
}

func (rc *RenderContext) processPassword(ctx context.Context, req passwordRequest) (string, error) {
	settings, _ := rc.deps.Forms.Get("password")

	failures, ok := rc.deps.Validator.Validate("password", rc.deps.Post)
	if !ok {
		rc.Results.SetError("password", form.Summary(failures))
		return metrics.OutcomeError, nil
	}

	u, found, err := rc.deps.Account.FindUser(ctx, map[string]string{domain.FieldEmail: req.Email})
	if err != nil {
		rc.deps.Logger.Error().Err(err).Msg("password lookup failed")
		rc.Results.SetError("password", rc.line(settings.Error))
		return metrics.OutcomeError, nil
	}
	if !found {
		rc.Results.SetError("password", rc.line(settings.NotFound))
		return metrics.OutcomeError, nil
	}

	newPassword := rc.deps.Account.RandomPassword(8)
	update := u.Clone()
	update.Set(domain.FieldPassword, newPassword)

	if err := rc.deps.Account.Update(ctx, update); err != nil {
		rc.deps.Logger.Warn().Err(err).Msg("password update failed")
		rc.Results.SetError("password", rc.line(settings.Error))
		return metrics.OutcomeError, nil
	}

	// re-read for a fresh activation key, then attach the clear password
	// for the notification email
	fresh, err := rc.deps.Account.GetUser(ctx, u.Username())
	if err != nil {
		rc.deps.Logger.Error().Err(err).Msg("re-reading user after password update failed")
		fresh = update
	}
	notified := fresh.Clone()
	notified.Set(domain.FieldActivationKey, rc.deps.Account.ActivationKey(fresh))
	notified.Set(domain.FieldPassword, newPassword)
	rc.deps.Notifier.Send(ctx, "password", notified)

	rc.Results.SetSuccess("password", rc.line(settings.Success))
	return metrics.OutcomeSuccess, nil
}

func (rc *RenderContext) processProfile(ctx context.Context, tag templating.Binding, req profileRequest) (string, error) {
	settings, _ := rc.deps.Forms.Get("profile")

	current, ok := rc.deps.Session.CurrentUser(ctx)
	if !ok {
		rc.Results.SetError("profile", rc.line("form_not_logged"))
		return metrics.OutcomeError, nil
	}

	if req.Delete {
		if err := rc.deps.Account.Delete(ctx, current); err != nil {
			rc.deps.Logger.Error().Err(err).Msg("account deletion failed")
		}
		if err := rc.deps.Session.Logout(ctx); err != nil {
			rc.deps.Logger.Error().Err(err).Msg("logout after deletion failed")
		}
		tag.Remove("user")
		rc.user = nil
		rc.Results.SetSuccess("profile", rc.line("form_profile_account_deleted"))
		return metrics.OutcomeSuccess, nil
	}

	failures, ok := rc.deps.Validator.Validate("profile", rc.deps.Post)
	if !ok {
		rc.Results.SetError("profile", form.Summary(failures))
		return metrics.OutcomeError, nil
	}

	fields := rc.deps.Forms.FormFields("profile")
	if fields == nil {
		return "", domain.ErrMissingFormDefinition("profile")
	}

	u := recordFromPost(fields, req.Values)
	u.Set(domain.FieldUsername, u.Get(domain.FieldEmail))
	u.Set(domain.FieldID, current.ID())

	if err := rc.deps.Account.Update(ctx, u); err != nil {
		// the message is keyed to the email field; a duplicate email is the
		// common cause, anything else surfaces what the store reported
		rc.deps.Logger.Warn().Err(err).Msg("profile update failed")
		if domain.Is(err, "duplicate_email") {
			rc.Results.SetError("email", rc.line(settings.Error))
		} else {
			rc.Results.SetError("email", errMessage(err))
		}
		return metrics.OutcomeError, nil
	}

	rc.Results.SetSuccess("profile", rc.line(settings.Success))
	return metrics.OutcomeSuccess, nil
}

// recordFromPost builds a record from the allowed-field list populated from
// the submitted data. Multi-value fields (checkboxes, multiselects) are
// flattened into comma-joined strings.
func recordFromPost(fields []string, post url.Values) domain.User {
	u := domain.NewUser()
	for _, f := range fields {
		if vs, ok := post[f]; ok {
			u.Set(f, strings.Join(vs, ","))
		}
	}
	return u
}

func errMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
