package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
)

type sessionsRepo struct {
	q dbtx
}

var _ store.Sessions = (*sessionsRepo)(nil)

const sessionColumns = `id, user_id, session_token_hash, refresh_token_hash, keep_me_logged_in, expires_at, last_used_at, user_agent, ip_address, is_active, created_at, updated_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, session domain.UserSession) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO user_sessions (id, user_id, session_token_hash, refresh_token_hash, keep_me_logged_in, expires_at, last_used_at, user_agent, ip_address, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.SessionTokenHash, nullString(session.RefreshTokenHash),
		session.KeepMeLoggedIn, session.ExpiresAt, session.LastUsedAt,
		session.UserAgent, session.IPAddress, session.IsActive,
		session.CreatedAt, session.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.UserSession, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM user_sessions WHERE session_token_hash = ?`, tokenHash)
	return scanSession(row)
}

func (r *sessionsRepo) GetSessionByRefreshHash(ctx context.Context, refreshHash string) (domain.UserSession, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM user_sessions WHERE refresh_token_hash = ?`, refreshHash)
	return scanSession(row)
}

func (r *sessionsRepo) TouchSession(ctx context.Context, sessionID string, at time.Time, meta domain.RequestMeta) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE user_sessions
		SET last_used_at = ?, user_agent = ?, ip_address = ?, updated_at = ?
		WHERE id = ?`,
		at, meta.UserAgent, meta.IPAddress, at, sessionID,
	)
	return err
}

// RotateSessionTokens swaps both token hashes in one conditional
// update guarded on the old refresh hash. Concurrent refreshes with
// the same token race here and exactly one wins; the loser observes
// zero rows and gets ErrNotFound.
func (r *sessionsRepo) RotateSessionTokens(ctx context.Context, sessionID, oldRefreshHash, newSessionHash, newRefreshHash string, expiresAt, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE user_sessions
		SET session_token_hash = ?, refresh_token_hash = ?, expires_at = ?, last_used_at = ?, updated_at = ?
		WHERE id = ? AND refresh_token_hash = ?`,
		newSessionHash, newRefreshHash, expiresAt, at, at, sessionID, oldRefreshHash,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return rowsOrNotFound(res)
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, sessionID, userID string) error {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM user_sessions WHERE id = ? AND user_id = ?`, sessionID, userID)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) ListUserSessions(ctx context.Context, userID string) ([]domain.UserSession, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM user_sessions
		WHERE user_id = ? ORDER BY last_used_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UserSession
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (domain.UserSession, error) {
	var (
		s       domain.UserSession
		refresh sql.NullString
	)
	err := row.Scan(&s.ID, &s.UserID, &s.SessionTokenHash, &refresh, &s.KeepMeLoggedIn,
		&s.ExpiresAt, &s.LastUsedAt, &s.UserAgent, &s.IPAddress, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.UserSession{}, mapNotFound(err)
	}
	s.RefreshTokenHash = refresh.String
	return s, nil
}

func scanSessionRows(rows *sql.Rows) (domain.UserSession, error) {
	var (
		s       domain.UserSession
		refresh sql.NullString
	)
	err := rows.Scan(&s.ID, &s.UserID, &s.SessionTokenHash, &refresh, &s.KeepMeLoggedIn,
		&s.ExpiresAt, &s.LastUsedAt, &s.UserAgent, &s.IPAddress, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.UserSession{}, err
	}
	s.RefreshTokenHash = refresh.String
	return s, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
