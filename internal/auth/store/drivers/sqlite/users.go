package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
)

type usersRepo struct {
	q dbtx
}

var _ store.Users = (*usersRepo)(nil)

const userColumns = `id, email, handle, email_verified, allowed_scopes, last_login_at, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, user domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, handle, email_verified, allowed_scopes, last_login_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Handle, user.EmailVerified,
		joinScopes(user.AllowedScopes), nullTime(user.LastLoginAt),
		user.CreatedAt, user.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) SetEmailVerified(ctx context.Context, userID string, verified bool, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET email_verified = ?, updated_at = ? WHERE id = ?`,
		verified, at, userID,
	)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *usersRepo) SetLastLoginAt(ctx context.Context, userID string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		at, at, userID,
	)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		scopes    string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.Handle, &u.EmailVerified, &scopes, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.AllowedScopes = splitScopes(scopes)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func rowsOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
