package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
)

type clientsRepo struct {
	q dbtx
}

var _ store.Clients = (*clientsRepo)(nil)

const clientColumns = `id, name, secret_hash, allowed_scopes, token_expires_in, is_active, protected, last_used_at, created_at, updated_at`

func (r *clientsRepo) CreateClient(ctx context.Context, client domain.Client) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (id, name, secret_hash, allowed_scopes, token_expires_in, is_active, protected, last_used_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID, client.Name, client.SecretHash, joinScopes(client.AllowedScopes),
		int64(client.TokenExpiresIn.Seconds()), client.IsActive, client.Protected,
		nullTime(client.LastUsedAt), client.CreatedAt, client.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *clientsRepo) GetClientByID(ctx context.Context, clientID string) (domain.Client, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, clientID)
	return scanClient(row)
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClientRows(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) UpdateClientSecretHash(ctx context.Context, clientID, secretHash string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE clients SET secret_hash = ?, updated_at = ? WHERE id = ?`,
		secretHash, at, clientID,
	)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

// UpdateClient applies only the fields set in the patch, building the
// SET clause dynamically so untouched columns keep their values.
func (r *clientsRepo) UpdateClient(ctx context.Context, clientID string, patch domain.ClientPatch, at time.Time) error {
	if patch.IsZero() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.AllowedScopes != nil {
		sets = append(sets, "allowed_scopes = ?")
		args = append(args, joinScopes(patch.AllowedScopes))
	}
	if patch.TokenExpiresIn != nil {
		sets = append(sets, "token_expires_in = ?")
		args = append(args, int64(patch.TokenExpiresIn.Seconds()))
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, at, clientID)

	res, err := r.q.ExecContext(ctx,
		`UPDATE clients SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *clientsRepo) TouchClientLastUsed(ctx context.Context, clientID string, at time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE clients SET last_used_at = ? WHERE id = ?`, at, clientID)
	return err
}

func (r *clientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, clientID)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *clientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func scanClient(row *sql.Row) (domain.Client, error) {
	var (
		c         domain.Client
		scopes    string
		expiresIn int64
		lastUsed  sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Name, &c.SecretHash, &scopes, &expiresIn,
		&c.IsActive, &c.Protected, &lastUsed, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	c.AllowedScopes = splitScopes(scopes)
	c.TokenExpiresIn = time.Duration(expiresIn) * time.Second
	if lastUsed.Valid {
		t := lastUsed.Time
		c.LastUsedAt = &t
	}
	return c, nil
}

func scanClientRows(rows *sql.Rows) (domain.Client, error) {
	var (
		c         domain.Client
		scopes    string
		expiresIn int64
		lastUsed  sql.NullTime
	)
	err := rows.Scan(&c.ID, &c.Name, &c.SecretHash, &scopes, &expiresIn,
		&c.IsActive, &c.Protected, &lastUsed, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Client{}, err
	}
	c.AllowedScopes = splitScopes(scopes)
	c.TokenExpiresIn = time.Duration(expiresIn) * time.Second
	if lastUsed.Valid {
		t := lastUsed.Time
		c.LastUsedAt = &t
	}
	return c, nil
}
