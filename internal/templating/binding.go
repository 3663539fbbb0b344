// Package templating is the tag-expansion layer: a minimal parser for
// <ion:...> markup and the Binding surface handed to tag renderers. The tag
// managers only depend on Binding, so tests can drive them with fakes.
package templating

// FieldSource is anything exposing named fields (user and group records,
// plain maps).
type FieldSource interface {
	Get(name string) string
}

// MapSource adapts a plain map to a FieldSource.
type MapSource map[string]string

func (m MapSource) Get(name string) string { return m[name] }

// Binding is the surface a tag renderer sees: the tag's attributes, the
// data scopes set by enclosing tags, and expansion of its nested content.
type Binding interface {
	// Set binds a named data scope (e.g. "user", "group") or a plain string
	// value visible to this tag's nested content.
	Set(name string, value any)
	// Remove drops a data scope.
	Remove(name string)
	// GetValue reads a field from a named scope. An empty scope searches the
	// nearest scope carrying the field.
	GetValue(key, scope string) (string, bool)
	// GetAttribute reads a tag attribute.
	GetAttribute(name string) (string, bool)
	// Expand renders the tag's nested content.
	Expand() (string, error)
	// ParseAsNested parses a template source and renders it with this
	// tag's data scopes.
	ParseAsNested(src string) (string, error)
	// SetAsProcessTag marks the tag as a flow tag: its rendered output is
	// used verbatim and not post-processed.
	SetAsProcessTag()
}
