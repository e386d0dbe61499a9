package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/google/uuid"
)

func NewUsersRepository() *InMemoryUsersRepository {
	return &InMemoryUsersRepository{
		byID:   make(map[uuid.UUID]dao.User),
		byName: make(map[string]uuid.UUID),
	}
}

// InMemoryUsersRepository keeps accounts in memory. GetAll lists them in the
// order they were created, the same as the sqlite repository does.
type InMemoryUsersRepository struct {
	mtx    sync.RWMutex
	byID   map[uuid.UUID]dao.User
	byName map[string]uuid.UUID
	order  []uuid.UUID
}

func (repo *InMemoryUsersRepository) Close() error {
	return nil
}

func (repo *InMemoryUsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	if _, taken := repo.byName[user.Username]; taken {
		return dao.User{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	user.ID = id
	user.Created = now
	user.Modified = now
	user.LastLogoutTime = now

	repo.byID[id] = user
	repo.byName[user.Username] = id
	repo.order = append(repo.order, id)

	return user, nil
}

func (repo *InMemoryUsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	all := make([]dao.User, len(repo.order))
	for i, id := range repo.order {
		all[i] = repo.byID[id]
	}
	return all, nil
}

// Update replaces the user with ID id. The replacement may carry a different ID
// or username as long as neither belongs to another user.
func (repo *InMemoryUsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	existing, ok := repo.byID[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	if owner, taken := repo.byName[user.Username]; taken && owner != id {
		return dao.User{}, dao.ErrConstraintViolation
	}
	if _, taken := repo.byID[user.ID]; taken && user.ID != id {
		return dao.User{}, dao.ErrConstraintViolation
	}

	user.Created = existing.Created
	user.Modified = time.Now()

	delete(repo.byName, existing.Username)
	delete(repo.byID, id)
	repo.byID[user.ID] = user
	repo.byName[user.Username] = user.ID
	repo.order[repo.position(id)] = user.ID

	return user, nil
}

func (repo *InMemoryUsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return user, nil
}

func (repo *InMemoryUsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	id, ok := repo.byName[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return repo.byID[id], nil
}

func (repo *InMemoryUsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	user, ok := repo.byID[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	pos := repo.position(id)
	repo.order = append(repo.order[:pos], repo.order[pos+1:]...)
	delete(repo.byName, user.Username)
	delete(repo.byID, id)

	return user, nil
}

// position gives the index of id in repo.order. The caller must hold the lock
// and id must be present.
func (repo *InMemoryUsersRepository) position(id uuid.UUID) int {
	for i := range repo.order {
		if repo.order[i] == id {
			return i
		}
	}
	panic(fmt.Sprintf("user %s is missing from creation order", id))
}
