// Package form holds the per-form configuration (validation rules, allowed
// fields, email notifications, feedback message keys) and the submission
// outcome messages for one render.
package form

// EmailRule configures one notification email for a form. Recipient is the
// literal "website" (site email from settings) or "user" (email of the
// acting user's record); anything else is skipped.
type EmailRule struct {
	Recipient string
	Subject   string // lang key, interpolated with the site title
	View      string // email view template name
}

// Messages are the lang keys recorded for the possible outcomes.
type Messages struct {
	Success      string
	Error        string
	NotFound     string
	NotActivated string
}

// Settings is the static configuration of one form.
type Settings struct {
	// Rules maps a submitted field to go-playground/validator tags.
	Rules map[string]string
	// Fields is the allowed-field list used to build account records.
	// Nil means the form has no record definition.
	Fields []string
	Emails []EmailRule
	Messages
}

// Registry resolves form settings by name.
type Registry struct {
	forms map[string]Settings
}

// NewRegistry returns a registry seeded with the default user forms,
// overridden per-form by overrides.
func NewRegistry(overrides map[string]Settings) *Registry {
	forms := make(map[string]Settings, len(defaultForms))
	for name, s := range defaultForms {
		forms[name] = s
	}
	for name, s := range overrides {
		forms[name] = s
	}
	return &Registry{forms: forms}
}

// Get returns the settings for a form name.
func (r *Registry) Get(name string) (Settings, bool) {
	s, ok := r.forms[name]
	return s, ok
}

// FormFields returns the allowed-field list of a form, nil when the form
// has no definition.
func (r *Registry) FormFields(name string) []string {
	return r.forms[name].Fields
}

// FormEmails returns the notification rules of a form.
func (r *Registry) FormEmails(name string) []EmailRule {
	return r.forms[name].Emails
}

var defaultForms = map[string]Settings{
	"login": {
		Rules: map[string]string{
			"email":    "required,email",
			"password": "required",
		},
		Messages: Messages{
			Success:      "form_login_success",
			Error:        "form_login_error",
			NotFound:     "form_login_not_found",
			NotActivated: "form_login_not_activated",
		},
	},
	"register": {
		Rules: map[string]string{
			"firstname": "required",
			"lastname":  "required",
			"email":     "required,email",
			"password":  "required,min=5",
		},
		Fields: []string{"firstname", "lastname", "screen_name", "email", "password"},
		Emails: []EmailRule{
			{Recipient: "user", Subject: "email_register_subject", View: "register"},
			{Recipient: "website", Subject: "email_notify_subject", View: "register_notify"},
		},
		Messages: Messages{
			Success: "form_register_success",
			Error:   "form_register_error_message",
		},
	},
	"password": {
		Rules: map[string]string{
			"email": "required,email",
		},
		Emails: []EmailRule{
			{Recipient: "user", Subject: "email_password_subject", View: "password"},
		},
		Messages: Messages{
			Success:  "form_password_success",
			Error:    "form_password_error",
			NotFound: "form_password_not_found",
		},
	},
	"profile": {
		Rules: map[string]string{
			"firstname": "required",
			"lastname":  "required",
			"email":     "required,email",
		},
		Fields: []string{"firstname", "lastname", "screen_name", "email", "password"},
		Messages: Messages{
			Success: "form_profile_success",
			Error:   "form_profile_error",
		},
	},
	// activation carries no rules yet, the confirmation flow is not built.
	"activation": {},
	"logout":     {},
}
