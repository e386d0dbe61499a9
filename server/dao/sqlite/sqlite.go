// Package sqlite has a dao.Store that persists to an SQLite database on disk.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/tunacon/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	users   *UsersDB
	prompts *PromptsDB
}

// NewDatastore opens (creating if needed) the database in storageDir.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	st.prompts = &PromptsDB{db: st.db}

	tables := []struct {
		name   string
		schema string
	}{
		{"users", usersSchema},
		{"prompts", promptsSchema},
	}
	for _, t := range tables {
		if _, err := st.db.Exec(t.schema); err != nil {
			st.db.Close()
			return nil, fmt.Errorf("%s: %w", t.name, wrapDBError(err))
		}
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Prompts() dao.PromptRepository {
	return s.prompts
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs q and converts every row it selects with scan.
func queryAll[E any](ctx context.Context, db *sql.DB, scan func(rowScanner) (E, error), q string, args ...any) ([]E, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []E
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return all, err
		}
		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

// execOne runs a statement that must change a row. dao.ErrNotFound is
// returned if it changes none.
func execOne(ctx context.Context, db *sql.DB, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return wrapDBError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if n < 1 {
		return dao.ErrNotFound
	}
	return nil
}
