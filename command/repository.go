package command

import (
	"sync"

	"github.com/dekarrin/tunacon/internal/util"
)

// Repository holds compiled Commands by name. It is safe for concurrent use,
// but it is intended to be filled once at configuration time and read many
// times after that.
//
// The zero value is not ready for use; create one with NewRepository.
type Repository struct {
	mtx  sync.RWMutex
	cmds map[string]*Command
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{cmds: map[string]*Command{}}
}

// Add compiles scheme and stores the resulting Command with the given
// executor, replacing any existing Command of the same name. It returns the
// name of the Command.
func (r *Repository) Add(scheme string, executor any) (string, error) {
	cmd, err := Compile(scheme, executor)
	if err != nil {
		return "", err
	}

	r.Put(cmd)
	return cmd.Name, nil
}

// Put stores an already-compiled Command, replacing any existing Command of
// the same name.
func (r *Repository) Put(cmd Command) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.cmds[cmd.Name] = &cmd
}

// Get returns the Command with the given name. The returned Command must not
// be modified.
func (r *Repository) Get(name string) (*Command, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	cmd, ok := r.cmds[name]
	return cmd, ok
}

// Remove deletes the Command with the given name. Returns whether there was
// one to delete.
func (r *Repository) Remove(name string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	_, ok := r.cmds[name]
	delete(r.cmds, name)
	return ok
}

// Names returns the names of all stored Commands in sorted order.
func (r *Repository) Names() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return util.OrderedKeys(r.cmds)
}

// Len returns the number of stored Commands.
func (r *Repository) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return len(r.cmds)
}
