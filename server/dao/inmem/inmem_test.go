package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_UsersRepository(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	created, err := repo.Create(ctx, dao.User{Username: "jack", Password: "x", Role: dao.Normal})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)
	assert.False(created.Created.IsZero())

	_, err = repo.Create(ctx, dao.User{Username: "jack"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	byName, err := repo.GetByUsername(ctx, "jack")
	assert.NoError(err)
	assert.Equal(created.ID, byName.ID)

	// rename
	created.Username = "jill"
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal("jill", updated.Username)

	_, err = repo.GetByUsername(ctx, "jack")
	assert.ErrorIs(err, dao.ErrNotFound)

	// change ID
	newID := uuid.New()
	updated.ID = newID
	_, err = repo.Update(ctx, created.ID, updated)
	assert.NoError(err)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = repo.Delete(ctx, newID)
	assert.NoError(err)
	_, err = repo.Delete(ctx, newID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_UsersRepository_GetAllKeepsCreationOrder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	names := []string{"zed", "amy", "mo"}
	var ids []uuid.UUID
	for _, n := range names {
		u, err := repo.Create(ctx, dao.User{Username: n})
		if !assert.NoError(err) {
			return
		}
		ids = append(ids, u.ID)
	}

	// renaming and re-IDing keeps the position
	amy, _ := repo.GetByID(ctx, ids[1])
	amy.ID = uuid.New()
	amy.Username = "amelia"
	_, err := repo.Update(ctx, ids[1], amy)
	assert.NoError(err)

	_, err = repo.Delete(ctx, ids[0])
	assert.NoError(err)

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	if assert.Len(all, 2) {
		assert.Equal("amelia", all[0].Username)
		assert.Equal(amy.ID, all[0].ID)
		assert.Equal("mo", all[1].Username)
	}
}

func Test_PromptsRepository(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewPromptsRepository()

	alice := uuid.New()
	bob := uuid.New()

	texts := []struct {
		user uuid.UUID
		text string
	}{
		{alice, "heal 7"},
		{bob, "tp 1 2 3"},
		{alice, "heal 7 ~3"},
	}

	var ids []uuid.UUID
	for _, tx := range texts {
		p, err := repo.Create(ctx, dao.Prompt{
			UserID: tx.user,
			Text:   tx.text,
			Args:   dynamic.NewListValue(dynamic.NewList(dynamic.NewInt(7))),
		})
		if !assert.NoError(err) {
			return
		}
		ids = append(ids, p.ID)
	}

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	if assert.Len(all, 3) {
		assert.Equal("heal 7", all[0].Text)
		assert.Equal("heal 7 ~3", all[2].Text)
	}

	mine, err := repo.GetAllByUser(ctx, alice)
	assert.NoError(err)
	if assert.Len(mine, 2) {
		assert.Equal("heal 7 ~3", mine[1].Text)
	}

	got, err := repo.GetByID(ctx, ids[1])
	assert.NoError(err)
	assert.Equal("tp 1 2 3", got.Text)

	_, err = repo.Delete(ctx, ids[0])
	assert.NoError(err)

	all, err = repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 2)

	_, err = repo.GetByID(ctx, ids[0])
	assert.ErrorIs(err, dao.ErrNotFound)
}
