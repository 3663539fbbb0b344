// Package settings exposes the site's key/value settings store.
package settings

// Store is a read-only key/value lookup. Missing keys return "".
type Store interface {
	Get(key string) string
}

// Keys used by the user tag manager.
const (
	KeySiteEmail = "site_email"
	KeySiteTitle = "site_title"
)

// Memory is a map-backed store, seeded from config at boot.
type Memory struct {
	values map[string]string
}

func NewMemory(values map[string]string) *Memory {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Memory{values: cp}
}

func (m *Memory) Get(key string) string { return m.values[key] }
