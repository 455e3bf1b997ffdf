package profile

import (
	"errors"
	"fmt"
)

// ErrUnknownBank is returned when a requested bank id is not registered.
var ErrUnknownBank = errors.New("banco no soportado")

// Registry holds the supported bank profiles. It is built once at startup
// and read-only afterwards, so it is safe to share across concurrent
// conversions without locking.
type Registry struct {
	order    []string
	profiles map[string]*BankProfile
}

// NewRegistry builds a registry from the given profiles, preserving order.
// Duplicate ids are a programming error and panic at startup.
func NewRegistry(profiles []*BankProfile) *Registry {
	r := &Registry{
		order:    make([]string, 0, len(profiles)),
		profiles: make(map[string]*BankProfile, len(profiles)),
	}
	for _, p := range profiles {
		if _, dup := r.profiles[p.ID]; dup {
			panic(fmt.Sprintf("profile: duplicate bank id %q", p.ID))
		}
		r.order = append(r.order, p.ID)
		r.profiles[p.ID] = p
	}
	return r
}

// List returns the registered banks in registration order. The first entry
// is the client's default selection.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Summary{ID: id, Name: r.profiles[id].DisplayName})
	}
	return out
}

// Get returns the profile for the given bank id.
func (r *Registry) Get(id string) (*BankProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBank, id)
	}
	return p, nil
}
