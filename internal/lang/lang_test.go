package lang

import "testing"

func TestLine_KnownKey(t *testing.T) {
	tr := New(nil)
	if got := tr.Line("form_login_success"); got != "You are now logged in." {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestLine_MissingKeyReturnsKey(t *testing.T) {
	tr := New(nil)
	if got := tr.Line("no_such_key"); got != "no_such_key" {
		t.Fatalf("missing keys should echo, got %q", got)
	}
}

func TestLine_Interpolation(t *testing.T) {
	tr := New(nil)
	if got := tr.Line("email_register_subject", "My Site"); got != "My Site : Account creation" {
		t.Fatalf("unexpected subject: %q", got)
	}
}

func TestLine_ExtraLinesOverrideDefaults(t *testing.T) {
	tr := New(map[string]string{
		"form_login_success": "Bienvenue.",
		"custom_key":         "custom value",
	})
	if got := tr.Line("form_login_success"); got != "Bienvenue." {
		t.Fatalf("override lost: %q", got)
	}
	if got := tr.Line("custom_key"); got != "custom value" {
		t.Fatalf("extra line lost: %q", got)
	}
	if got := tr.Line("form_password_success"); got == "form_password_success" {
		t.Fatalf("defaults should survive overrides")
	}
}
