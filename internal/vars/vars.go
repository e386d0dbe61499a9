// Package vars holds the console's variable namespace, which is what relative
// argument origins are resolved against.
package vars

import (
	"fmt"
	"sync"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/util"
)

// Var is a named variable.
type Var struct {
	Name string
	dynamic.Value
}

// Store is a set of named variables. It is safe for concurrent use.
//
// The zero value is an empty Store ready for use.
type Store struct {
	mtx  sync.RWMutex
	vars map[string]dynamic.Value
}

// New creates a Store holding the given initial values.
func New(initial map[string]dynamic.Value) *Store {
	s := &Store{vars: make(map[string]dynamic.Value, len(initial))}
	for k, v := range initial {
		s.vars[k] = v
	}
	return s
}

// Set sets the variable with the given name, creating it if it does not
// exist. Names must be non-empty.
func (s *Store) Set(name string, v dynamic.Value) error {
	if name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.vars == nil {
		s.vars = map[string]dynamic.Value{}
	}
	s.vars[name] = v
	return nil
}

// Get returns the value of the named variable. The second return value is
// false if no variable with that name exists.
func (s *Store) Get(name string) (dynamic.Value, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	v, ok := s.vars[name]
	return v, ok
}

// Resolve returns the value of the named variable, or None if it does not
// exist.
func (s *Store) Resolve(name string) dynamic.Value {
	v, _ := s.Get(name)
	return v
}

// Delete removes the named variable. Returns whether it existed.
func (s *Store) Delete(name string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	_, ok := s.vars[name]
	delete(s.vars, name)
	return ok
}

// Names returns the names of all variables in sorted order.
func (s *Store) Names() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return util.OrderedKeys(s.vars)
}

// All returns every variable, sorted by name.
func (s *Store) All() []Var {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	all := make([]Var, 0, len(s.vars))
	for _, k := range util.OrderedKeys(s.vars) {
		all = append(all, Var{Name: k, Value: s.vars[k]})
	}
	return all
}

// Len returns the number of variables.
func (s *Store) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.vars)
}
