package templating

import (
	"fmt"
	"strings"
)

// Resolver renders one tag. path is the colon-joined tag path accumulated
// from nesting (e.g. "user:group:name"); b exposes the tag's attributes,
// data scopes and nested content.
type Resolver func(path string, b Binding) (string, error)

// Engine expands parsed templates through a Resolver.
type Engine struct {
	resolve Resolver
}

func NewEngine(resolve Resolver) *Engine {
	return &Engine{resolve: resolve}
}

// Render parses src and expands every top-level tag.
func (e *Engine) Render(src string) (string, error) {
	nodes, err := parse(src)
	if err != nil {
		return "", err
	}
	root := &binding{eng: e, data: map[string]any{}}
	return root.renderNodes(nodes)
}

// binding implements Binding over one tag node. Each nested tag gets a
// child binding with a copy of the parent's data scopes, so mutations never
// leak upward or across siblings.
type binding struct {
	eng  *Engine
	node *tagNode // nil for the document root
	path string
	// parentPath is the enclosing tag's path; children of a process tag
	// chain from it instead of from path.
	parentPath string
	data       map[string]any

	processTag bool
}

func (b *binding) Set(name string, value any) { b.data[name] = value }

func (b *binding) Remove(name string) { delete(b.data, name) }

func (b *binding) GetValue(key, scope string) (string, bool) {
	if scope != "" {
		return fieldOf(b.data[scope], key)
	}
	// nearest scope wins: the tag's own name first, then the rest
	if b.node != nil {
		if v, ok := fieldOf(b.data[b.node.name], key); ok {
			return v, true
		}
	}
	for _, value := range b.data {
		if v, ok := fieldOf(value, key); ok {
			return v, true
		}
	}
	return "", false
}

func (b *binding) GetAttribute(name string) (string, bool) {
	if b.node == nil {
		return "", false
	}
	v, ok := b.node.attrs[name]
	return v, ok
}

func (b *binding) Expand() (string, error) {
	if b.node == nil {
		return "", nil
	}
	return b.renderNodes(b.node.children)
}

func (b *binding) ParseAsNested(src string) (string, error) {
	nodes, err := parse(src)
	if err != nil {
		return "", err
	}
	// nested templates restart at the document root path but keep the data
	nested := &binding{eng: b.eng, data: cloneData(b.data)}
	return nested.renderNodes(nodes)
}

func (b *binding) SetAsProcessTag() { b.processTag = true }

func (b *binding) renderNodes(nodes []node) (string, error) {
	// process tags (conditionals) are transparent for tag paths: a tag
	// nested in <ion:logged> chains from the tag enclosing the conditional
	base := b.path
	if b.processTag {
		base = b.parentPath
	}

	var out strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			out.WriteString(string(n))
		case *tagNode:
			child := &binding{
				eng:        b.eng,
				node:       n,
				path:       joinPath(base, n.name),
				parentPath: base,
				data:       cloneData(b.data),
			}
			s, err := b.eng.resolve(child.path, child)
			if err != nil {
				return "", fmt.Errorf("tag %s: %w", child.path, err)
			}
			out.WriteString(s)
		}
	}
	return out.String(), nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}

func cloneData(data map[string]any) map[string]any {
	cp := make(map[string]any, len(data))
	for k, v := range data {
		cp[k] = v
	}
	return cp
}

func fieldOf(value any, key string) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if key == "" {
			return v, true
		}
		return "", false
	case FieldSource:
		return v.Get(key), true
	case map[string]string:
		s, ok := v[key]
		return s, ok
	}
	return "", false
}
