package form

// Results collects the per-form outcome messages of one render. At most one
// success-or-error string is recorded per form per submission; the rendering
// layer consumes them to display feedback next to each form.
type Results struct {
	success map[string]string
	errors  map[string]string
}

func NewResults() *Results {
	return &Results{
		success: map[string]string{},
		errors:  map[string]string{},
	}
}

// SetError records an error message against a form name (or a field name,
// for failures tied to one input).
func (r *Results) SetError(name, msg string) { r.errors[name] = msg }

// SetSuccess records a success message against a form name.
func (r *Results) SetSuccess(name, msg string) { r.success[name] = msg }

func (r *Results) Error(name string) string   { return r.errors[name] }
func (r *Results) Success(name string) string { return r.success[name] }

// HasMessage reports whether any outcome was recorded for the form.
func (r *Results) HasMessage(name string) bool {
	_, e := r.errors[name]
	_, s := r.success[name]
	return e || s
}

// Empty reports whether no outcome at all was recorded.
func (r *Results) Empty() bool { return len(r.errors) == 0 && len(r.success) == 0 }
