package database

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a session whose statements execute on the given
// transaction instead of the pooled connection, so gorm writes commit and
// roll back together with writes issued directly on the *sql.Tx.
// Passing the context in the session forces a statement clone; the swap
// below must never touch the shared root statement.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{Context: db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return session
}
