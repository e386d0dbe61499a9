// Package inmem has a dao.Store that keeps everything in memory. Nothing it
// holds survives the process.
package inmem

import (
	"fmt"

	"github.com/dekarrin/tunacon/server/dao"
)

type store struct {
	users   *InMemoryUsersRepository
	prompts *InMemoryPromptsRepository
}

// NewDatastore creates a new empty in-memory store.
func NewDatastore() dao.Store {
	return &store{
		users:   NewUsersRepository(),
		prompts: NewPromptsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Prompts() dao.PromptRepository {
	return s.prompts
}

func (s *store) Close() error {
	var err error

	if nextErr := s.users.Close(); nextErr != nil {
		err = nextErr
	}
	if nextErr := s.prompts.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
