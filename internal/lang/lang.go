// Package lang is the localization lookup used for form feedback and email
// subjects. Lines are keyed strings with optional printf interpolation;
// a missing key renders as the key itself so untranslated installs stay
// debuggable.
package lang

import "fmt"

type Translator struct {
	lines map[string]string
}

// New returns a translator seeded with the default English lines, overlaid
// with any extra lines (site translations).
func New(extra map[string]string) *Translator {
	lines := make(map[string]string, len(defaultLines)+len(extra))
	for k, v := range defaultLines {
		lines[k] = v
	}
	for k, v := range extra {
		lines[k] = v
	}
	return &Translator{lines: lines}
}

// Line resolves a key, interpolating args printf-style when the line
// carries verbs.
func (t *Translator) Line(key string, args ...any) string {
	line, ok := t.lines[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return line
	}
	return fmt.Sprintf(line, args...)
}

// Default English lines for the user forms.
var defaultLines = map[string]string{
	"form_login_success":       "You are now logged in.",
	"form_login_error":         "Login failed. Please check your email and password.",
	"form_login_not_found":     "No account matches this email address.",
	"form_login_not_activated": "This account is not activated yet.",

	"form_register_success":       "Your account was created. Check your mailbox to activate it.",
	"form_register_error_message": "Your account could not be created.",

	"form_password_success":   "A new password was sent to your email address.",
	"form_password_error":     "The password could not be updated.",
	"form_password_not_found": "No account matches this email address.",

	"form_profile_success":         "Your profile was saved.",
	"form_profile_error":           "This email address is already in use.",
	"form_profile_account_deleted": "Your account was deleted.",
	"form_not_logged":              "You must be logged in to do this.",

	"email_register_subject": "%s : Account creation",
	"email_password_subject": "%s : Your new password",
	"email_notify_subject":   "%s : New account",
}
