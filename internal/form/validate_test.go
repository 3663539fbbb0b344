package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(NewRegistry(nil))
	require.NoError(t, err)
	return v
}

func TestValidate_LoginPasses(t *testing.T) {
	v := newTestValidator(t)

	failures, ok := v.Validate("login", url.Values{
		"email":    {"jane@example.com"},
		"password": {"secret"},
	})
	require.True(t, ok)
	require.Empty(t, failures)
}

func TestValidate_LoginMissingFields(t *testing.T) {
	v := newTestValidator(t)

	failures, ok := v.Validate("login", url.Values{})
	require.False(t, ok)
	require.Contains(t, failures, "email")
	require.Contains(t, failures, "password")
}

func TestValidate_BadEmailFormat(t *testing.T) {
	v := newTestValidator(t)

	failures, ok := v.Validate("login", url.Values{
		"email":    {"not-an-email"},
		"password": {"secret"},
	})
	require.False(t, ok)
	require.Contains(t, failures, "email")
	require.NotContains(t, failures, "password")
}

func TestValidate_RegisterPasswordTooShort(t *testing.T) {
	v := newTestValidator(t)

	failures, ok := v.Validate("register", url.Values{
		"firstname": {"Jane"},
		"lastname":  {"Doe"},
		"email":     {"jane@example.com"},
		"password":  {"abc"},
	})
	require.False(t, ok)
	require.Contains(t, failures, "password")
}

func TestValidate_FormWithoutRulesAlwaysPasses(t *testing.T) {
	v := newTestValidator(t)

	_, ok := v.Validate("logout", url.Values{})
	require.True(t, ok)

	_, ok = v.Validate("no-such-form", url.Values{})
	require.True(t, ok)
}

func TestSummary_Deterministic(t *testing.T) {
	failures := map[string]string{
		"password": "password is required",
		"email":    "email is required",
	}
	want := "email is required; password is required"
	for i := 0; i < 10; i++ {
		require.Equal(t, want, Summary(failures))
	}
}
