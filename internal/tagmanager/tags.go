package tagmanager

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rlunar/ionize/internal/domain"
	"github.com/rlunar/ionize/internal/templating"
)

// TagFunc renders one tag within a render context.
type TagFunc func(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error)

// Only a few tags are defined statically. The per-field tags are registered
// at first use from the discovered user/group schemas.
var baseTags = map[string]TagFunc{
	"user":                tagUser,
	"user:name":           tagUserName,
	"user:activation_key": valueTag("user", domain.FieldActivationKey),
	"user:group":          tagUserGroup,
	"user:group:name":     tagUserGroupName,
	"user:group:title":    tagUserGroupTitle,
	"user:logged":         tagUserLogged,
}

// tagUser is the parent <ion:user /> tag. The first invocation per render
// registers the per-field tags, dispatches the submitted form and loads the
// session's user; this runs at most once, otherwise a renderer re-invoking
// the tag would recurse forever.
func tagUser(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
	if !rc.processed {
		rc.processed = true

		userFields, err := rc.deps.Account.UserFields(ctx)
		if err != nil {
			return "", err
		}
		groupFields, err := rc.deps.Account.GroupFields(ctx)
		if err != nil {
			return "", err
		}
		for _, f := range userFields {
			if f.IsDate() {
				rc.registry["user:"+f.Name] = dateTag("user", f.Name)
			} else {
				rc.registry["user:"+f.Name] = valueTag("user", f.Name)
			}
		}
		// group data is also reachable from the user context
		for _, f := range groupFields {
			rc.registry["user:group:"+f.Name] = valueTag("group", f.Name)
		}

		if err := rc.processSubmission(ctx, tag); err != nil {
			return "", err
		}

		if u, ok := rc.deps.Session.CurrentUser(ctx); ok {
			rc.user = &u
		}
	}

	// on every call: expose the current user to the nested content
	if rc.user != nil {
		tag.Set("user", *rc.user)
		tag.Set("group", rc.user.Group)
	}
	return tag.Expand()
}

// tagUserLogged expands its children only when the session's logged-in
// state equals the "is" attribute (default true). The evaluation result is
// recorded on the context so sibling branches can coordinate.
func tagUserLogged(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
	tag.SetAsProcessTag()

	is := true
	if v, ok := tag.GetAttribute("is"); ok {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			is = parsed
		}
	}

	matched := rc.deps.Session.LoggedIn(ctx) == is
	rc.condition = &matched
	if !matched {
		return "", nil
	}
	return tag.Expand()
}

// tagUserName prefers the screen name and falls back to
// "firstname lastname" when it is unset or empty.
func tagUserName(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
	value, _ := tag.GetValue(domain.FieldScreenName, "user")
	if value == "" {
		first, _ := tag.GetValue(domain.FieldFirstname, "user")
		last, _ := tag.GetValue(domain.FieldLastname, "user")
		value = strings.TrimSpace(first + " " + last)
	}
	return value, nil
}

// tagUserGroup re-exposes the current user's group to its nested content.
func tagUserGroup(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
	if rc.user != nil {
		tag.Set("group", rc.user.Group)
	}
	return tag.Expand()
}

// tagUserGroupName renders the group's "slug" column. The column name
// predates the tag and is kept as is.
func tagUserGroupName(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
	name, _ := tag.GetValue(domain.GroupFieldSlug, "group")
	return name, nil
}

// tagUserGroupTitle renders the group's "group_name" column, same remark.
func tagUserGroupTitle(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
	title, _ := tag.GetValue(domain.GroupFieldName, "group")
	return title, nil
}

// valueTag renders a field of a data scope verbatim.
func valueTag(scope, field string) TagFunc {
	return func(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
		v, _ := tag.GetValue(field, scope)
		return v, nil
	}
}

// dateTag renders a date-typed field, honoring an optional "format"
// attribute (Go reference layout).
func dateTag(scope, field string) TagFunc {
	return func(ctx context.Context, rc *RenderContext, tag templating.Binding) (string, error) {
		v, _ := tag.GetValue(field, scope)
		if v == "" {
			return "", nil
		}
		layout := "2006-01-02"
		if f, ok := tag.GetAttribute("format"); ok && f != "" {
			layout = f
		}
		t, err := parseRecordDate(v)
		if err != nil {
			// unparseable values render as stored
			return v, nil
		}
		return t.Format(layout), nil
	}
}

func parseRecordDate(v string) (t time.Time, err error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
