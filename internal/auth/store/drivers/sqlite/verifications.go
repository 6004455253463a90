package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
)

type verificationsRepo struct {
	q dbtx
}

var _ store.Verifications = (*verificationsRepo)(nil)

const verificationColumns = `email, code_hash, attempts, verified, expires_at, created_at`

func (r *verificationsRepo) CreateVerification(ctx context.Context, record domain.VerificationRecord) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO verification_records (email, code_hash, attempts, verified, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.Email, record.CodeHash, record.Attempts, record.Verified,
		record.ExpiresAt, record.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *verificationsRepo) GetVerification(ctx context.Context, email string) (domain.VerificationRecord, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+verificationColumns+` FROM verification_records WHERE email = ?`, email)
	return scanVerification(row)
}

// IncrementVerificationAttempts bumps the attempt counter and returns
// the updated record in one statement, so concurrent submissions each
// observe a distinct count.
func (r *verificationsRepo) IncrementVerificationAttempts(ctx context.Context, email string) (domain.VerificationRecord, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE verification_records
		SET attempts = attempts + 1
		WHERE email = ?
		RETURNING `+verificationColumns, email)
	return scanVerification(row)
}

func (r *verificationsRepo) MarkVerificationVerified(ctx context.Context, email string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE verification_records SET verified = 1 WHERE email = ?`, email)
	if err != nil {
		return err
	}
	return rowsOrNotFound(res)
}

func (r *verificationsRepo) DeleteVerification(ctx context.Context, email string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM verification_records WHERE email = ?`, email)
	return err
}

func (r *verificationsRepo) DeleteExpiredVerifications(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM verification_records WHERE expires_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanVerification(row *sql.Row) (domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := row.Scan(&rec.Email, &rec.CodeHash, &rec.Attempts, &rec.Verified,
		&rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		return domain.VerificationRecord{}, mapNotFound(err)
	}
	return rec, nil
}
