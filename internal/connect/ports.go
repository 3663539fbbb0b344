package connect

import (
	"context"
	"time"

	"github.com/rlunar/ionize/internal/domain"
)

/*
UserRepo
--------
Persistence port for user records. Doubles as the data-schema provider:
UserFields/GroupFields expose the column metadata the tag manager uses to
register one rendering tag per field.
*/
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id string) error

	UserFields(ctx context.Context) ([]domain.Field, error)
	GroupFields(ctx context.Context) ([]domain.Field, error)
}

/*
SessionStore
------------
Opaque login sessions. Backed by Redis or process memory.
*/
type SessionStore interface {
	Create(ctx context.Context, username string, ttl time.Duration) (token string, err error)
	Get(ctx context.Context, token string) (username string, err error)
	Delete(ctx context.Context, token string) error
}
