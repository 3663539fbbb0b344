// Package connect is the account service: user record CRUD, reversible
// password storage, activation keys and login sessions.
package connect

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rlunar/ionize/internal/domain"
)

type Service struct {
	repo   UserRepo
	cipher *Cipher
	lg     zerolog.Logger
}

func NewService(repo UserRepo, secret string, lg zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cipher: NewCipher(secret),
		lg:     lg.With().Str("component", "connect").Logger(),
	}
}

// FindUser looks a user up by criteria (email or username). The boolean is
// false when no record matches; err is reserved for storage failures.
func (s *Service) FindUser(ctx context.Context, criteria map[string]string) (domain.User, bool, error) {
	var (
		u   domain.User
		err error
	)
	switch {
	case criteria[domain.FieldEmail] != "":
		u, err = s.repo.GetByEmail(ctx, criteria[domain.FieldEmail])
	case criteria[domain.FieldUsername] != "":
		u, err = s.repo.GetByUsername(ctx, criteria[domain.FieldUsername])
	default:
		return domain.User{}, false, nil
	}
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return u, true, nil
}

// GetUser returns the persisted record for a username.
func (s *Service) GetUser(ctx context.Context, username string) (domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Register persists a new account. The clear password in the record is
// encrypted before storage and the record gets an id.
func (s *Service) Register(ctx context.Context, u domain.User) error {
	if u.ID() == "" {
		u.Set(domain.FieldID, uuid.NewString())
	}
	enc, err := s.cipher.Encrypt(u.Get(domain.FieldPassword), u)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "encrypt_failed", "password encryption failed", err)
	}
	u.Set(domain.FieldPassword, enc)

	if err := s.repo.Create(ctx, u); err != nil {
		s.lg.Warn().Err(err).Str("email", u.Email()).Msg("register failed")
		return err
	}
	return nil
}

// Update persists changes to an existing record. A non-empty password field
// is treated as a new clear password and re-encrypted; an empty one leaves
// the stored password untouched.
func (s *Service) Update(ctx context.Context, u domain.User) error {
	if pwd := u.Get(domain.FieldPassword); pwd != "" {
		enc, err := s.cipher.Encrypt(pwd, u)
		if err != nil {
			return domain.Wrap(domain.KindInternal, "encrypt_failed", "password encryption failed", err)
		}
		u.Set(domain.FieldPassword, enc)
	}
	return s.repo.Update(ctx, u)
}

// Delete removes the record.
func (s *Service) Delete(ctx context.Context, u domain.User) error {
	return s.repo.Delete(ctx, u.ID())
}

// Decrypt exposes the stored password in clear, for one-time use in
// notification emails.
func (s *Service) Decrypt(value string, u domain.User) (string, error) {
	return s.cipher.Decrypt(value, u)
}

// CheckPassword reports whether the clear password matches the stored one.
func (s *Service) CheckPassword(u domain.User, password string) bool {
	clear, err := s.cipher.Decrypt(u.Get(domain.FieldPassword), u)
	if err != nil {
		return false
	}
	return clear == password
}

// ActivationKey derives the account's activation token.
func (s *Service) ActivationKey(u domain.User) string {
	return s.cipher.ActivationKey(u)
}

// RandomPassword returns a generated clear password of n characters.
func (s *Service) RandomPassword(n int) string {
	return RandomPassword(n)
}

// UserFields returns the users table field schema.
func (s *Service) UserFields(ctx context.Context) ([]domain.Field, error) {
	return s.repo.UserFields(ctx)
}

// GroupFields returns the groups table field schema.
func (s *Service) GroupFields(ctx context.Context) ([]domain.Field, error) {
	return s.repo.GroupFields(ctx)
}

// Now is the record timestamp format used for join_date.
func Now() string { return time.Now().Format("2006-01-02 15:04:05") }
