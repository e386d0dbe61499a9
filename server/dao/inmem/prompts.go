package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/google/uuid"
)

func NewPromptsRepository() *InMemoryPromptsRepository {
	return &InMemoryPromptsRepository{
		prompts: make(map[uuid.UUID]dao.Prompt),
	}
}

// InMemoryPromptsRepository keeps prompt history in memory. Insertion order
// is kept so that history comes back oldest first even when two prompts have
// the same creation time.
type InMemoryPromptsRepository struct {
	mtx     sync.RWMutex
	prompts map[uuid.UUID]dao.Prompt
	order   []uuid.UUID
}

func (impr *InMemoryPromptsRepository) Close() error {
	return nil
}

func (impr *InMemoryPromptsRepository) Create(ctx context.Context, p dao.Prompt) (dao.Prompt, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Prompt{}, fmt.Errorf("could not generate ID: %w", err)
	}

	impr.mtx.Lock()
	defer impr.mtx.Unlock()

	p.ID = newUUID
	p.Created = time.Now()

	impr.prompts[p.ID] = p
	impr.order = append(impr.order, p.ID)

	return p, nil
}

func (impr *InMemoryPromptsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Prompt, error) {
	impr.mtx.RLock()
	defer impr.mtx.RUnlock()

	p, ok := impr.prompts[id]
	if !ok {
		return dao.Prompt{}, dao.ErrNotFound
	}
	return p, nil
}

func (impr *InMemoryPromptsRepository) GetAll(ctx context.Context) ([]dao.Prompt, error) {
	return impr.filter(func(dao.Prompt) bool { return true }), nil
}

func (impr *InMemoryPromptsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Prompt, error) {
	return impr.filter(func(p dao.Prompt) bool { return p.UserID == userID }), nil
}

func (impr *InMemoryPromptsRepository) filter(keep func(dao.Prompt) bool) []dao.Prompt {
	impr.mtx.RLock()
	defer impr.mtx.RUnlock()

	var all []dao.Prompt
	for _, id := range impr.order {
		p := impr.prompts[id]
		if keep(p) {
			all = append(all, p)
		}
	}
	return all
}

func (impr *InMemoryPromptsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Prompt, error) {
	impr.mtx.Lock()
	defer impr.mtx.Unlock()

	p, ok := impr.prompts[id]
	if !ok {
		return dao.Prompt{}, dao.ErrNotFound
	}

	delete(impr.prompts, id)
	for i := range impr.order {
		if impr.order[i] == id {
			impr.order = append(impr.order[:i], impr.order[i+1:]...)
			break
		}
	}

	return p, nil
}
