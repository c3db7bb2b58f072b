package oracle

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Address is an opaque comparable identity token (account address, DID, ...).
type Address string

var (
	// ErrUnauthorized is returned when a caller lacks the capability an
	// operation requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyRegistered is returned when an active provider registers again.
	ErrAlreadyRegistered = errors.New("provider already registered")

	// ErrEmptyName is returned when a provider registers without a name.
	ErrEmptyName = errors.New("provider name must not be empty")

	// ErrInvalidState is returned by activate/deactivate when the target is
	// already in the requested state or was never registered.
	ErrInvalidState = errors.New("invalid provider state")
)

// Provider is a registered score-submitting identity. Providers are created
// by registration and toggled active/inactive by the administrator; they are
// never deleted.
type Provider struct {
	Address      Address   `json:"address"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Registry holds the provider table. Every mutating operation is a single
// indivisible unit; a failed precondition leaves no state change behind.
type Registry struct {
	mu        sync.RWMutex
	admin     Address
	providers map[Address]*Provider
	now       func() time.Time
}

// NewRegistry creates a registry administered by the given address.
func NewRegistry(admin Address) *Registry {
	return &Registry{
		admin:     admin,
		providers: make(map[Address]*Provider),
		now:       time.Now,
	}
}

// Register creates a provider record for the caller, active, stamped with
// the current time. Registering while already active fails; re-registering
// an inactive provider reactivates it with the new name.
func (r *Registry) Register(caller Address, name string) error {
	if name == "" {
		return fmt.Errorf("%w: provider %s", ErrEmptyName, caller)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.providers[caller]; ok && existing.IsActive {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, caller)
	}

	r.providers[caller] = &Provider{
		Address:      caller,
		Name:         name,
		IsActive:     true,
		RegisteredAt: r.now(),
	}

	return nil
}

// Activate marks a provider active again. Administrator only.
func (r *Registry) Activate(caller, provider Address) error {
	return r.setActive(caller, provider, true)
}

// Deactivate marks a provider inactive. Administrator only.
func (r *Registry) Deactivate(caller, provider Address) error {
	return r.setActive(caller, provider, false)
}

func (r *Registry) setActive(caller, provider Address, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return fmt.Errorf("%w: caller %s is not the registry admin", ErrUnauthorized, caller)
	}

	p, ok := r.providers[provider]
	if !ok {
		return fmt.Errorf("%w: provider %s was never registered", ErrInvalidState, provider)
	}
	if p.IsActive == active {
		return fmt.Errorf("%w: provider %s already active=%t", ErrInvalidState, provider, active)
	}

	p.IsActive = active
	return nil
}

// IsActiveProvider reports whether the identity is a registered, active
// provider. Pure lookup.
func (r *Registry) IsActiveProvider(id Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	return ok && p.IsActive
}

// Provider returns a copy of the provider record, if one exists.
func (r *Registry) Provider(id Address) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return Provider{}, false
	}
	return *p, true
}
