package form

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks submitted form values against a form's rule set.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
	forms    *Registry
}

func NewValidator(forms *Registry) (*Validator, error) {
	v := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, fmt.Errorf("en translator not found")
	}
	if err := entrans.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register validator translations: %w", err)
	}

	return &Validator{validate: v, trans: trans, forms: forms}, nil
}

// Validate runs the form's rule set against the posted values and returns
// one translated message per failing field. A form without rules always
// passes. Multi-value fields are validated on their first value.
func (v *Validator) Validate(name string, post url.Values) (map[string]string, bool) {
	settings, ok := v.forms.Get(name)
	if !ok || len(settings.Rules) == 0 {
		return nil, true
	}

	failures := map[string]string{}
	for field, rules := range settings.Rules {
		err := v.validate.Var(post.Get(field), rules)
		if err == nil {
			continue
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			failures[field] = err.Error()
			continue
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			// Var validation carries no field name, prefix it ourselves.
			msgs = append(msgs, field+strings.TrimPrefix(fe.Translate(v.trans), fe.Field()))
		}
		failures[field] = strings.Join(msgs, "; ")
	}

	return failures, len(failures) == 0
}

// Summary flattens field failures into a single deterministic message.
func Summary(failures map[string]string) string {
	fields := make([]string, 0, len(failures))
	for f := range failures {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, failures[f])
	}
	return strings.Join(msgs, "; ")
}
