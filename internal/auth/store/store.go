package store

import (
	"context"
	"errors"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. Sub-repositories keep concerns tidy and
// let services declare exactly what they touch.
type Store interface {
	Users() Users
	Clients() Clients
	Sessions() Sessions
	Verifications() Verifications

	ApplyMigrations() error

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. Multi-step operations that must be
	// atomic (refresh rotation, replace-then-issue of verification records)
	// go through here.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a transaction and returns a Tx-scoped Store. The caller MUST
	// Commit or Rollback. Prefer WithTx.
	Tx(ctx context.Context) (Tx, error)

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store: the same repositories plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is a ULID provided by the app).
	// Returns ErrAlreadyExists when the email or handle is taken.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by the normalized (lowercased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// SetEmailVerified marks the email proven; the auth core's only profile
	// mutations are this and SetLastLoginAt.
	SetEmailVerified(ctx context.Context, userID string, verified bool, at time.Time) error

	SetLastLoginAt(ctx context.Context, userID string, at time.Time) error
}

type Clients interface {
	// CreateClient inserts a new machine client.
	CreateClient(ctx context.Context, c domain.Client) error

	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// ListClients returns all clients ordered by creation date (newest first).
	ListClients(ctx context.Context) ([]domain.Client, error)

	UpdateClientSecretHash(ctx context.Context, clientID, secretHash string, at time.Time) error

	// UpdateClient applies a partial update; nil patch fields are untouched.
	UpdateClient(ctx context.Context, clientID string, patch domain.ClientPatch, at time.Time) error

	// TouchClientLastUsed records successful credential use.
	TouchClientLastUsed(ctx context.Context, clientID string, at time.Time) error

	DeleteClient(ctx context.Context, clientID string) error

	// IsEmpty reports whether no clients exist (seed bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession stores a new session row. Token hashes are unique.
	CreateSession(ctx context.Context, s domain.UserSession) error

	// GetSessionByTokenHash returns the active session with this session
	// token fingerprint. Expiry is checked by the caller.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.UserSession, error)

	// GetSessionByRefreshHash returns the active session with this refresh
	// token fingerprint.
	GetSessionByRefreshHash(ctx context.Context, hash string) (domain.UserSession, error)

	// TouchSession updates last_used_at and, when non-empty, the stored
	// user agent / IP. Executed on every validated use; must stay one cheap
	// indexed UPDATE.
	TouchSession(ctx context.Context, sessionID string, at time.Time, meta domain.RequestMeta) error

	// RotateSessionTokens atomically swaps the token pair of the session
	// identified by sessionID, guarded on the old refresh hash still being
	// current. Returns ErrNotFound when another rotation already won, which
	// makes concurrent refreshes produce exactly one winner.
	RotateSessionTokens(
		ctx context.Context,
		sessionID, oldRefreshHash, newSessionHash, newRefreshHash string,
		expiresAt, at time.Time,
	) error

	// DeleteSession removes the session only when owned by userID;
	// ErrNotFound otherwise.
	DeleteSession(ctx context.Context, sessionID, userID string) error

	// DeleteUserSessions removes every session owned by userID and returns
	// the number removed.
	DeleteUserSessions(ctx context.Context, userID string) (int64, error)

	// ListUserSessions returns the user's sessions, newest first.
	ListUserSessions(ctx context.Context, userID string) ([]domain.UserSession, error)

	// DeleteExpiredSessions removes sessions expired before the given time
	// and reports how many went. Housekeeping.
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type Verifications interface {
	// CreateVerification inserts a challenge. Returns ErrAlreadyExists when
	// a record for the email already exists; the email column is the primary
	// key, which is what makes concurrent issues for one address safe.
	CreateVerification(ctx context.Context, v domain.VerificationRecord) error

	GetVerification(ctx context.Context, email string) (domain.VerificationRecord, error)

	// IncrementVerificationAttempts atomically bumps the attempt counter and
	// returns the updated record, so concurrent wrong submissions can never
	// lose an increment.
	IncrementVerificationAttempts(ctx context.Context, email string) (domain.VerificationRecord, error)

	// MarkVerificationVerified flips verified=true. The record survives
	// until the caller finishes the flow and calls DeleteVerification.
	MarkVerificationVerified(ctx context.Context, email string) error

	DeleteVerification(ctx context.Context, email string) error

	// DeleteExpiredVerifications removes records expired before the given
	// time and reports how many went. Housekeeping.
	DeleteExpiredVerifications(ctx context.Context, before time.Time) (int64, error)
}
