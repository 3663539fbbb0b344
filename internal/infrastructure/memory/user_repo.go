// Package memory provides in-process adapters used by tests and by the
// demo binary when no external infrastructure is configured.
package memory

import (
	"context"
	"sync"

	"github.com/rlunar/ionize/internal/domain"
)

// Default schemas, matching the columns of a stock install.
var (
	DefaultUserFields = []domain.Field{
		{Name: "id_user", Type: "varchar"},
		{Name: "username", Type: "varchar"},
		{Name: "email", Type: "varchar"},
		{Name: "password", Type: "varchar"},
		{Name: "screen_name", Type: "varchar"},
		{Name: "firstname", Type: "varchar"},
		{Name: "lastname", Type: "varchar"},
		{Name: "join_date", Type: "datetime"},
	}
	DefaultGroupFields = []domain.Field{
		{Name: "slug", Type: "varchar"},
		{Name: "group_name", Type: "varchar"},
		{Name: "level", Type: "int"},
	}
)

// UserRepo is a mutex-guarded map-backed user store.
type UserRepo struct {
	mu sync.Mutex

	byUsername map[string]domain.User
	userFields []domain.Field
	grpFields  []domain.Field
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byUsername: map[string]domain.User{},
		userFields: DefaultUserFields,
		grpFields:  DefaultGroupFields,
	}
}

// Seed inserts a record as-is, for tests and demo data.
func (r *UserRepo) Seed(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUsername[u.Username()] = u.Clone()
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u.Clone(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.findByEmail(email); ok {
		return u.Clone(), nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username()]; ok {
		return domain.ErrDuplicateEmail(u.Email())
	}
	if _, ok := r.findByEmail(u.Email()); ok {
		return domain.ErrDuplicateEmail(u.Email())
	}
	if len(u.Group.Fields) == 0 {
		u.Group = defaultGroup()
	}
	r.byUsername[u.Username()] = u.Clone()
	return nil
}

// Update merges the record's fields into the stored one, matched by id.
// Empty password fields keep the stored password.
func (r *UserRepo) Update(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.findByID(u.ID())
	if !ok {
		return domain.ErrUserNotFound()
	}
	if other, ok := r.findByEmail(u.Email()); ok && other.ID() != u.ID() {
		return domain.ErrDuplicateEmail(u.Email())
	}

	merged := stored.Clone()
	for k, v := range u.Fields {
		if k == domain.FieldPassword && v == "" {
			continue
		}
		merged.Set(k, v)
	}

	if merged.Username() != stored.Username() {
		delete(r.byUsername, stored.Username())
	}
	r.byUsername[merged.Username()] = merged
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.findByID(id)
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byUsername, u.Username())
	return nil
}

func (r *UserRepo) UserFields(ctx context.Context) ([]domain.Field, error) {
	return r.userFields, nil
}

func (r *UserRepo) GroupFields(ctx context.Context) ([]domain.Field, error) {
	return r.grpFields, nil
}

func (r *UserRepo) findByEmail(email string) (domain.User, bool) {
	if email == "" {
		return domain.User{}, false
	}
	for _, u := range r.byUsername {
		if u.Email() == email {
			return u, true
		}
	}
	return domain.User{}, false
}

func (r *UserRepo) findByID(id string) (domain.User, bool) {
	if id == "" {
		return domain.User{}, false
	}
	for _, u := range r.byUsername {
		if u.ID() == id {
			return u, true
		}
	}
	return domain.User{}, false
}

func defaultGroup() domain.Group {
	return domain.Group{Fields: map[string]string{
		domain.GroupFieldSlug:  "users",
		domain.GroupFieldName:  "Users",
		domain.GroupFieldLevel: "100",
	}}
}
