package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdana-labs/esgbridge/internal/oracle"
)

const (
	admin    = oracle.Address("0xadmin")
	provider = oracle.Address("0xprovider")
	entity   = oracle.Address("0xentity")
)

// captureSink records every published event.
type captureSink struct {
	events []IssuanceEvent
}

func (s *captureSink) Publish(event IssuanceEvent) {
	s.events = append(s.events, event)
}

func newTestLedger(t *testing.T) *oracle.Ledger {
	t.Helper()

	registry := oracle.NewRegistry(admin)
	require.NoError(t, registry.Register(provider, "Acme"))

	ledger := oracle.NewLedger(admin, registry)
	require.NoError(t, ledger.SetProviderAuthorization(admin, provider, true))

	return ledger
}

func TestGate_MintWithScore(t *testing.T) {
	ledger := newTestLedger(t)
	sink := &captureSink{}
	gate := NewGate(ledger, sink)

	// No score yet.
	_, err := gate.MintWithScore(entity, 1000, "AUD-1", "0xhash", 50)
	assert.ErrorIs(t, err, ErrNoScoreFound)
	assert.Empty(t, sink.events)

	require.NoError(t, ledger.UpdateScore(entity, 75, 80, 85, provider))
	assert.Equal(t, 80, ledger.CompositeScore(entity))

	record, err := gate.MintWithScore(entity, 1000, "AUD-1", "0xhash", 50)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), record.IssuanceID)
	assert.Equal(t, entity, record.Entity)
	assert.Equal(t, 75, record.Environmental)
	assert.Equal(t, 80, record.Social)
	assert.Equal(t, 85, record.Governance)
	assert.Equal(t, "AUD-1", record.AuditID)
	assert.Equal(t, "0xhash", record.AuditHash)
	assert.False(t, record.MintedAt.IsZero())

	assert.Equal(t, int64(1000), gate.BalanceOf(entity))
	assert.Equal(t, uint64(1), gate.TotalIssuances())

	require.Len(t, sink.events, 1)
	event := sink.events[0]
	assert.Equal(t, entity, event.Entity)
	assert.Equal(t, uint64(1), event.IssuanceID)
	assert.Equal(t, int64(1000), event.Amount)
	assert.Equal(t, 75, event.Environmental)
}

func TestGate_SnapshotIsImmutable(t *testing.T) {
	ledger := newTestLedger(t)
	gate := NewGate(ledger)

	require.NoError(t, ledger.UpdateScore(entity, 75, 80, 85, provider))

	record, err := gate.MintWithScore(entity, 500, "AUD-1", "0xhash", 50)
	require.NoError(t, err)

	// The ledger score changes after the mint; the issuance snapshot must not.
	require.NoError(t, ledger.UpdateScore(entity, 10, 10, 10, provider))

	stored, ok := gate.GetIssuance(record.IssuanceID)
	require.True(t, ok)
	assert.Equal(t, 75, stored.Environmental)
	assert.Equal(t, 80, stored.Social)
	assert.Equal(t, 85, stored.Governance)
}

func TestGate_MintPreconditions(t *testing.T) {
	ledger := newTestLedger(t)
	gate := NewGate(ledger)

	require.NoError(t, ledger.UpdateScore(entity, 40, 40, 40, provider))

	_, err := gate.MintWithScore(entity, 0, "AUD-1", "0xhash", 30)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = gate.MintWithScore(entity, -5, "AUD-1", "0xhash", 30)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = gate.MintWithScore(entity, 100, "AUD-1", "", 30)
	assert.ErrorIs(t, err, ErrMissingAuditHash)

	_, err = gate.MintWithScore(entity, 100, "AUD-1", "0xhash", 41)
	assert.ErrorIs(t, err, ErrBelowMinimum)

	// Failed preconditions leave no partial state behind.
	assert.Equal(t, int64(0), gate.BalanceOf(entity))
	assert.Equal(t, uint64(0), gate.TotalIssuances())
	_, ok := gate.GetIssuance(1)
	assert.False(t, ok)
}

func TestGate_MintAtExactMinimum(t *testing.T) {
	ledger := newTestLedger(t)
	gate := NewGate(ledger)

	require.NoError(t, ledger.UpdateScore(entity, 40, 40, 40, provider))

	_, err := gate.MintWithScore(entity, 100, "AUD-1", "0xhash", 40)
	assert.NoError(t, err)
}

func TestGate_MonotonicIssuanceIDs(t *testing.T) {
	ledger := newTestLedger(t)
	gate := NewGate(ledger)

	require.NoError(t, ledger.UpdateScore(entity, 80, 80, 80, provider))

	for i := uint64(1); i <= 3; i++ {
		record, err := gate.MintWithScore(entity, 10, "AUD", "0xhash", 0)
		require.NoError(t, err)
		assert.Equal(t, i, record.IssuanceID)
	}

	assert.Equal(t, int64(30), gate.BalanceOf(entity))
	assert.Equal(t, uint64(3), gate.TotalIssuances())
}

func TestGate_MintedAtUsesClock(t *testing.T) {
	ledger := newTestLedger(t)
	gate := NewGate(ledger)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return fixed }

	require.NoError(t, ledger.UpdateScore(entity, 80, 80, 80, provider))

	record, err := gate.MintWithScore(entity, 10, "AUD", "0xhash", 0)
	require.NoError(t, err)
	assert.Equal(t, fixed, record.MintedAt)
}
