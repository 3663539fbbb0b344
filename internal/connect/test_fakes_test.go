package connect

import (
	"context"
	"sync"
	"time"

	"github.com/rlunar/ionize/internal/domain"
)

/*
Fakes for the persistence ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byUsername map[string]domain.User

	// injected errors
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	// recorded calls
	created []domain.User
	updated []domain.User
	deleted []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: map[string]domain.User{}}
}

func (f *fakeUserRepo) seed(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byUsername[u.Username()] = u.Clone()
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u.Clone(), nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	for _, u := range f.byUsername {
		if u.Email() == email {
			return u.Clone(), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, u.Clone())
	f.byUsername[u.Username()] = u.Clone()
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, u.Clone())
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserRepo) UserFields(ctx context.Context) ([]domain.Field, error) {
	return []domain.Field{{Name: "email", Type: "varchar"}}, nil
}

func (f *fakeUserRepo) GroupFields(ctx context.Context) ([]domain.Field, error) {
	return []domain.Field{{Name: "slug", Type: "varchar"}}, nil
}

type fakeSessionStore struct {
	mu sync.Mutex

	sessions map[string]string
	next     string

	createErr error
	getErr    error
	deleteErr error

	deletedTokens []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]string{}, next: "token-1"}
}

func (f *fakeSessionStore) Create(ctx context.Context, username string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return "", f.createErr
	}
	token := f.next
	f.sessions[token] = username
	return token, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return "", f.getErr
	}
	username, ok := f.sessions[token]
	if !ok {
		return "", domain.ErrSessionExpired()
	}
	return username, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.sessions, token)
	f.deletedTokens = append(f.deletedTokens, token)
	return nil
}
