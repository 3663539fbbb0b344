// Package postgres persists user records in PostgreSQL through the
// database/sql interface with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rlunar/ionize/internal/domain"
)

// Open dials the database.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `u.id_user, u.username, u.email, u.password, u.screen_name,
	u.firstname, u.lastname, u.join_date,
	g.slug, g.group_name, g.level`

const userSelect = `SELECT ` + userColumns + `
	FROM users u JOIN groups g ON g.id_group = u.id_group`

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.email = $1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	u := domain.NewUser()
	var id, username, email, password, screenName, firstname, lastname, joinDate sql.NullString
	var slug, groupName sql.NullString
	var level sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id, &username, &email, &password, &screenName,
		&firstname, &lastname, &joinDate,
		&slug, &groupName, &level,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrStore("user_get", err)
	}

	u.Set(domain.FieldID, id.String)
	u.Set(domain.FieldUsername, username.String)
	u.Set(domain.FieldEmail, email.String)
	u.Set(domain.FieldPassword, password.String)
	u.Set(domain.FieldScreenName, screenName.String)
	u.Set(domain.FieldFirstname, firstname.String)
	u.Set(domain.FieldLastname, lastname.String)
	u.Set(domain.FieldJoinDate, joinDate.String)
	u.Group.Fields[domain.GroupFieldSlug] = slug.String
	u.Group.Fields[domain.GroupFieldName] = groupName.String
	u.Group.Fields[domain.GroupFieldLevel] = fmt.Sprintf("%d", level.Int64)
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	query := `INSERT INTO users
		(id_user, username, email, password, screen_name, firstname, lastname, join_date, id_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT id_group FROM groups WHERE slug = 'users'))`
	_, err := r.db.ExecContext(ctx, query,
		u.ID(), u.Username(), u.Email(), u.Get(domain.FieldPassword),
		u.Get(domain.FieldScreenName), u.Get(domain.FieldFirstname),
		u.Get(domain.FieldLastname), u.Get(domain.FieldJoinDate),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail(u.Email())
		}
		return domain.ErrStore("user_create", err)
	}
	return nil
}

// updatable is the set of columns a profile or password update may touch.
var updatable = []string{
	domain.FieldUsername,
	domain.FieldEmail,
	domain.FieldPassword,
	domain.FieldScreenName,
	domain.FieldFirstname,
	domain.FieldLastname,
}

// Update writes the record's provided fields, matched by id. Columns absent
// from the record (and empty passwords) are left untouched.
func (r *UserRepo) Update(ctx context.Context, u domain.User) error {
	sets := make([]string, 0, len(updatable))
	args := make([]any, 0, len(updatable)+1)
	for _, col := range updatable {
		v, ok := u.Fields[col]
		if !ok || (col == domain.FieldPassword && v == "") {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, u.ID())
	query := fmt.Sprintf("UPDATE users SET %s WHERE id_user = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail(u.Email())
		}
		return domain.ErrStore("user_update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id_user = $1`, id)
	if err != nil {
		return domain.ErrStore("user_delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) UserFields(ctx context.Context) ([]domain.Field, error) {
	return r.tableFields(ctx, "users")
}

func (r *UserRepo) GroupFields(ctx context.Context) ([]domain.Field, error) {
	return r.tableFields(ctx, "groups")
}

// tableFields discovers the column schema the tag manager registers
// renderers from.
func (r *UserRepo) tableFields(ctx context.Context, table string) ([]domain.Field, error) {
	query := `SELECT column_name, data_type FROM information_schema.columns
		WHERE table_name = $1 ORDER BY ordinal_position`
	rows, err := r.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, domain.ErrStore("schema_query", err)
	}
	defer rows.Close()

	var fields []domain.Field
	for rows.Next() {
		var f domain.Field
		if err := rows.Scan(&f.Name, &f.Type); err != nil {
			return nil, domain.ErrStore("schema_scan", err)
		}
		f.Type = normalizeType(f.Type)
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStore("schema_rows", err)
	}
	return fields, nil
}

// normalizeType folds postgres type names onto the generic names the tag
// manager knows.
func normalizeType(t string) string {
	switch {
	case t == "date":
		return "date"
	case strings.HasPrefix(t, "timestamp"):
		return "datetime"
	default:
		return t
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
