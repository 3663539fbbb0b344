package tagmanager

import (
	"context"
	"strings"
	"sync"

	"github.com/rlunar/ionize/internal/domain"
)

/*
Fakes for the context ports
*/

type fakeAccount struct {
	mu sync.Mutex

	// byUsername is the known user records
	byUsername map[string]domain.User

	userFields  []domain.Field
	groupFields []domain.Field

	// injected errors
	findErr     error
	getErr      error
	registerErr error
	updateErr   error
	deleteErr   error
	schemaErr   error

	// recorded calls
	findCalls       int
	userFieldCalls  int
	groupFieldCalls int
	registered      []domain.User
	updated         []domain.User
	deleted         []domain.User
	randomPasswords []string
}

func newFakeAccount() *fakeAccount {
	return &fakeAccount{
		byUsername: map[string]domain.User{},
		userFields: []domain.Field{
			{Name: "id_user", Type: "varchar"},
			{Name: "username", Type: "varchar"},
			{Name: "email", Type: "varchar"},
			{Name: "screen_name", Type: "varchar"},
			{Name: "firstname", Type: "varchar"},
			{Name: "lastname", Type: "varchar"},
			{Name: "join_date", Type: "datetime"},
		},
		groupFields: []domain.Field{
			{Name: "slug", Type: "varchar"},
			{Name: "group_name", Type: "varchar"},
			{Name: "level", Type: "int"},
		},
	}
}

func (f *fakeAccount) seed(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byUsername[u.Username()] = u.Clone()
}

func (f *fakeAccount) FindUser(ctx context.Context, criteria map[string]string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findCalls++
	if f.findErr != nil {
		return domain.User{}, false, f.findErr
	}
	for _, u := range f.byUsername {
		if criteria[domain.FieldEmail] != "" && u.Email() == criteria[domain.FieldEmail] {
			return u.Clone(), true, nil
		}
		if criteria[domain.FieldUsername] != "" && u.Username() == criteria[domain.FieldUsername] {
			return u.Clone(), true, nil
		}
	}
	return domain.User{}, false, nil
}

func (f *fakeAccount) GetUser(ctx context.Context, username string) (domain.User, error) {
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

func (f *fakeAccount) Register(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, u.Clone())
	f.byUsername[u.Username()] = u.Clone()
	return nil
}

func (f *fakeAccount) Update(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, u.Clone())
	if stored, ok := f.byUsername[u.Username()]; ok {
		merged := stored.Clone()
		for k, v := range u.Fields {
			merged.Set(k, v)
		}
		f.byUsername[u.Username()] = merged
	}
	return nil
}

func (f *fakeAccount) Delete(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, u.Clone())
	delete(f.byUsername, u.Username())
	return nil
}

// Decrypt passes the stored value through: the fake stores passwords in
// clear.
func (f *fakeAccount) Decrypt(value string, u domain.User) (string, error) {
	return value, nil
}

func (f *fakeAccount) ActivationKey(u domain.User) string {
	return "key-" + u.Username()
}

func (f *fakeAccount) RandomPassword(n int) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	pw := strings.Repeat("p", n)
	f.randomPasswords = append(f.randomPasswords, pw)
	return pw
}

func (f *fakeAccount) UserFields(ctx context.Context) ([]domain.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.userFieldCalls++
	if f.schemaErr != nil {
		return nil, f.schemaErr
	}
	return f.userFields, nil
}

func (f *fakeAccount) GroupFields(ctx context.Context) ([]domain.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.groupFieldCalls++
	if f.schemaErr != nil {
		return nil, f.schemaErr
	}
	return f.groupFields, nil
}

type fakeSession struct {
	// user is the active session's user, nil when anonymous
	user *domain.User
	// loginUser is installed by a successful Login
	loginUser *domain.User

	loginErr  error
	logoutErr error

	loginCalls  []struct{ email, password string }
	logoutCalls int
}

func (f *fakeSession) LoggedIn(ctx context.Context) bool { return f.user != nil }

func (f *fakeSession) Login(ctx context.Context, email, password string) error {
	f.loginCalls = append(f.loginCalls, struct{ email, password string }{email, password})
	if f.loginErr != nil {
		return f.loginErr
	}
	f.user = f.loginUser
	return nil
}

func (f *fakeSession) Logout(ctx context.Context) error {
	f.logoutCalls++
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.user = nil
	return nil
}

func (f *fakeSession) CurrentUser(ctx context.Context) (domain.User, bool) {
	if f.user == nil {
		return domain.User{}, false
	}
	return f.user.Clone(), true
}

type sentEmail struct {
	form string
	user domain.User
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (f *fakeNotifier) Send(ctx context.Context, formName string, u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{form: formName, user: u.Clone()})
}
