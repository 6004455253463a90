package sqlite

import (
	"database/sql"

	"github.com/covenhall/arcana/internal/auth/store"
)

// Tx wraps a *sql.Tx so that repository accessors inside the
// transaction reuse the same query code as the root store.
type Tx struct {
	Store
	tx *sql.Tx
}

var _ store.Tx = (*Tx)(nil)

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }
