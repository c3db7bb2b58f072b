package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin    = Address("0xadmin")
	testProvider = Address("0xprovider")
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(testAdmin)

	require.NoError(t, r.Register(testProvider, "Acme ESG Ratings"))
	assert.True(t, r.IsActiveProvider(testProvider))

	p, ok := r.Provider(testProvider)
	require.True(t, ok)
	assert.Equal(t, "Acme ESG Ratings", p.Name)
	assert.True(t, p.IsActive)
	assert.False(t, p.RegisteredAt.IsZero())
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	r := NewRegistry(testAdmin)

	err := r.Register(testProvider, "")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.False(t, r.IsActiveProvider(testProvider))
}

func TestRegistry_RegisterTwice(t *testing.T) {
	r := NewRegistry(testAdmin)

	require.NoError(t, r.Register(testProvider, "Acme"))
	err := r.Register(testProvider, "Acme again")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	// The original record is untouched.
	p, _ := r.Provider(testProvider)
	assert.Equal(t, "Acme", p.Name)
}

func TestRegistry_ReRegisterInactive(t *testing.T) {
	r := NewRegistry(testAdmin)

	require.NoError(t, r.Register(testProvider, "Acme"))
	require.NoError(t, r.Deactivate(testAdmin, testProvider))
	assert.False(t, r.IsActiveProvider(testProvider))

	// An inactive provider may register again.
	require.NoError(t, r.Register(testProvider, "Acme v2"))
	assert.True(t, r.IsActiveProvider(testProvider))

	p, _ := r.Provider(testProvider)
	assert.Equal(t, "Acme v2", p.Name)
}

func TestRegistry_ActivateDeactivate(t *testing.T) {
	r := NewRegistry(testAdmin)
	require.NoError(t, r.Register(testProvider, "Acme"))

	// Already active.
	assert.ErrorIs(t, r.Activate(testAdmin, testProvider), ErrInvalidState)

	require.NoError(t, r.Deactivate(testAdmin, testProvider))
	assert.ErrorIs(t, r.Deactivate(testAdmin, testProvider), ErrInvalidState)

	require.NoError(t, r.Activate(testAdmin, testProvider))
	assert.True(t, r.IsActiveProvider(testProvider))
}

func TestRegistry_ActivateUnknownProvider(t *testing.T) {
	r := NewRegistry(testAdmin)

	assert.ErrorIs(t, r.Activate(testAdmin, Address("0xunknown")), ErrInvalidState)
	assert.ErrorIs(t, r.Deactivate(testAdmin, Address("0xunknown")), ErrInvalidState)
}

func TestRegistry_AdminOnly(t *testing.T) {
	r := NewRegistry(testAdmin)
	require.NoError(t, r.Register(testProvider, "Acme"))

	err := r.Deactivate(Address("0xintruder"), testProvider)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, r.IsActiveProvider(testProvider), "failed deactivate must not change state")
}

func TestRegistry_RegisteredAtUsesClock(t *testing.T) {
	r := NewRegistry(testAdmin)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	require.NoError(t, r.Register(testProvider, "Acme"))

	p, _ := r.Provider(testProvider)
	assert.Equal(t, fixed, p.RegisteredAt)
}
