package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/google/uuid"
)

const usersSchema = `CREATE TABLE IF NOT EXISTS users (
	id TEXT NOT NULL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	role TEXT NOT NULL,
	email TEXT NOT NULL,
	created INTEGER NOT NULL,
	modified INTEGER NOT NULL,
	last_logout_time INTEGER NOT NULL,
	last_login_time INTEGER NOT NULL
);`

const userColumns = `id, username, password, role, email, created, modified, last_logout_time, last_login_time`

// UsersDB is the users table of a store.
type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	user.ID = id
	user.Created = now
	user.Modified = now
	user.LastLogoutTime = now
	user.LastLoginTime = time.Time{}

	err = execOne(ctx, repo.db, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(user.ID),
		user.Username,
		user.Password,
		convertToDB_Role(user.Role),
		convertToDB_Email(user.Email),
		convertToDB_Time(user.Created),
		convertToDB_Time(user.Modified),
		convertToDB_Time(user.LastLogoutTime),
		convertToDB_Time(user.LastLoginTime),
	)
	if err != nil {
		return dao.User{}, err
	}

	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	return queryAll(ctx, repo.db, scanUser, `SELECT `+userColumns+` FROM users ORDER BY created ASC, rowid ASC;`)
}

// Update replaces every column of the user with ID id except its creation
// time. The modified time is set to now.
func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	err := execOne(ctx, repo.db, `UPDATE users SET id=?, username=?, password=?, role=?, email=?, modified=?, last_logout_time=?, last_login_time=? WHERE id=?;`,
		convertToDB_UUID(user.ID),
		user.Username,
		user.Password,
		convertToDB_Role(user.Role),
		convertToDB_Email(user.Email),
		convertToDB_Time(time.Now()),
		convertToDB_Time(user.LastLogoutTime),
		convertToDB_Time(user.LastLoginTime),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.User{}, err
	}

	return repo.GetByID(ctx, user.ID)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?;`, username))
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?;`, convertToDB_UUID(id)))
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.User{}, err
	}

	if err := execOne(ctx, repo.db, `DELETE FROM users WHERE id = ?;`, convertToDB_UUID(id)); err != nil {
		return dao.User{}, err
	}
	return user, nil
}

// Close does nothing; the connection is owned by the store.
func (repo *UsersDB) Close() error {
	return nil
}

func scanUser(row rowScanner) (dao.User, error) {
	var user dao.User
	var id, role, email string
	var created, modified, logout, login int64

	err := row.Scan(&id, &user.Username, &user.Password, &role, &email, &created, &modified, &logout, &login)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &user.ID); err != nil {
		return dao.User{}, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_Email(email, &user.Email); err != nil {
		return dao.User{}, fmt.Errorf("stored email %q is invalid: %w", email, err)
	}
	if err := convertFromDB_Role(role, &user.Role); err != nil {
		return dao.User{}, fmt.Errorf("stored role %q is invalid: %w", role, err)
	}
	convertFromDB_Time(created, &user.Created)
	convertFromDB_Time(modified, &user.Modified)
	convertFromDB_Time(logout, &user.LastLogoutTime)
	convertFromDB_Time(login, &user.LastLoginTime)

	return user, nil
}
