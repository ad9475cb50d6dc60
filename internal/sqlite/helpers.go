package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// nullID maps identity 0 to NULL for nullable foreign keys.
func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

// insertID runs an INSERT and returns the assigned identity.
func insertID(q queryer, query string, args ...any) (int64, error) {
	res, err := q.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// updateOne runs an UPDATE addressed to a single identity and reports
// ErrMissingRow when nothing matched.
func updateOne(q queryer, id int64, query string, args ...any) error {
	res, err := q.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, types.ErrMissingRow)
	}
	return nil
}

// withIdentity runs fn and puts the previous value back into *id when fn
// fails. Inserts assign the identity before the transaction commits.
func withIdentity(id *int64, fn func() error) error {
	prev := *id
	if err := fn(); err != nil {
		*id = prev
		return err
	}
	return nil
}
