package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/google/uuid"
)

const promptsSchema = `CREATE TABLE IF NOT EXISTS prompts (
	id TEXT NOT NULL PRIMARY KEY,
	user_id TEXT NOT NULL,
	text TEXT NOT NULL,
	command TEXT NOT NULL,
	args TEXT NOT NULL,
	kwargs TEXT NOT NULL,
	output TEXT NOT NULL,
	created INTEGER NOT NULL
);`

const promptColumns = `id, user_id, text, command, args, kwargs, output, created`

// PromptsDB is the prompt history table of a store. Bound arguments are kept
// as base64-encoded REZI blobs so that their exact types survive a round trip.
type PromptsDB struct {
	db *sql.DB
}

func (repo *PromptsDB) Create(ctx context.Context, p dao.Prompt) (dao.Prompt, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Prompt{}, fmt.Errorf("could not generate ID: %w", err)
	}

	err = execOne(ctx, repo.db, `INSERT INTO prompts (`+promptColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(p.UserID),
		p.Text,
		p.Command,
		convertToDB_Value(p.Args),
		convertToDB_Value(p.Kwargs),
		p.Output,
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Prompt{}, err
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *PromptsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Prompt, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = ?;`, convertToDB_UUID(id))
	return scanPrompt(row)
}

func (repo *PromptsDB) GetAll(ctx context.Context) ([]dao.Prompt, error) {
	return queryAll(ctx, repo.db, scanPrompt, `SELECT `+promptColumns+` FROM prompts ORDER BY created ASC, rowid ASC;`)
}

func (repo *PromptsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Prompt, error) {
	return queryAll(ctx, repo.db, scanPrompt, `SELECT `+promptColumns+` FROM prompts WHERE user_id = ? ORDER BY created ASC, rowid ASC;`, convertToDB_UUID(userID))
}

func (repo *PromptsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Prompt, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	if err := execOne(ctx, repo.db, `DELETE FROM prompts WHERE id = ?;`, convertToDB_UUID(id)); err != nil {
		return dao.Prompt{}, err
	}

	return curVal, nil
}

// Close does nothing; the connection is owned by the store.
func (repo *PromptsDB) Close() error {
	return nil
}

func scanPrompt(row rowScanner) (dao.Prompt, error) {
	var p dao.Prompt
	var id, userID, args, kwargs string
	var created int64

	err := row.Scan(
		&id,
		&userID,
		&p.Text,
		&p.Command,
		&args,
		&kwargs,
		&p.Output,
		&created,
	)
	if err != nil {
		return p, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &p.ID); err != nil {
		return p, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(userID, &p.UserID); err != nil {
		return p, fmt.Errorf("stored user UUID %q is invalid: %w", userID, err)
	}
	if err := convertFromDB_Value(args, &p.Args); err != nil {
		return p, fmt.Errorf("stored args are invalid: %w", err)
	}
	if err := convertFromDB_Value(kwargs, &p.Kwargs); err != nil {
		return p, fmt.Errorf("stored kwargs are invalid: %w", err)
	}
	convertFromDB_Time(created, &p.Created)

	return p, nil
}
