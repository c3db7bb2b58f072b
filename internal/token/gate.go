package token

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verdana-labs/esgbridge/internal/oracle"
)

var (
	// ErrInvalidAmount is returned when a mint amount is not positive.
	ErrInvalidAmount = errors.New("mint amount must be positive")

	// ErrMissingAuditHash is returned when a mint carries no audit hash.
	ErrMissingAuditHash = errors.New("audit hash must not be empty")

	// ErrNoScoreFound is returned when the entity has no ledger record.
	ErrNoScoreFound = errors.New("no score found for entity")

	// ErrBelowMinimum is returned when the composite score is too low.
	ErrBelowMinimum = errors.New("composite score below required minimum")
)

// IssuanceRecord is the immutable ESG metadata snapshot taken at mint time.
// It is permanently tied to its issuance id and never updated, even if the
// entity's ledger score later changes.
type IssuanceRecord struct {
	IssuanceID    uint64         `json:"issuance_id"`
	Entity        oracle.Address `json:"entity"`
	Environmental int            `json:"environmental"`
	Social        int            `json:"social"`
	Governance    int            `json:"governance"`
	AuditID       string         `json:"audit_id"`
	AuditHash     string         `json:"audit_hash"`
	MintedAt      time.Time      `json:"minted_at"`
}

// IssuanceEvent is emitted once per successful mint.
type IssuanceEvent struct {
	Entity        oracle.Address `json:"entity"`
	IssuanceID    uint64         `json:"issuance_id"`
	Amount        int64          `json:"amount"`
	Environmental int            `json:"environmental"`
	Social        int            `json:"social"`
	Governance    int            `json:"governance"`
}

// EventSink receives issuance events. Publish is called while the gate's
// state lock is held so events are observed in issuance order; sinks must
// not block and must not call back into the gate.
type EventSink interface {
	Publish(event IssuanceEvent)
}

// Gate issues tokens only to entities backed by a sufficiently high composite
// score on the oracle ledger. Minting either fully completes (record stored,
// balance credited, event emitted) or has no effect.
type Gate struct {
	mu       sync.Mutex
	ledger   *oracle.Ledger
	records  map[uint64]IssuanceRecord
	balances map[oracle.Address]int64
	nextID   uint64
	sinks    []EventSink
	now      func() time.Time
}

// NewGate creates an issuance gate backed by the given score ledger.
func NewGate(ledger *oracle.Ledger, sinks ...EventSink) *Gate {
	return &Gate{
		ledger:   ledger,
		records:  make(map[uint64]IssuanceRecord),
		balances: make(map[oracle.Address]int64),
		sinks:    sinks,
		now:      time.Now,
	}
}

// MintWithScore credits amount to the entity if the ledger holds a composite
// score of at least minRequired. On success the entity's current sub-scores
// are snapshotted into a new issuance record under a fresh monotonic id.
func (g *Gate) MintWithScore(entity oracle.Address, amount int64, auditID, auditHash string, minRequired int) (IssuanceRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if amount <= 0 {
		return IssuanceRecord{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if auditHash == "" {
		return IssuanceRecord{}, fmt.Errorf("%w: audit id %q", ErrMissingAuditHash, auditID)
	}

	// One ledger read so the precondition and the snapshot see the same record.
	rec, ok := g.ledger.GetScore(entity)
	if !ok {
		return IssuanceRecord{}, fmt.Errorf("%w: %s", ErrNoScoreFound, entity)
	}
	if composite := rec.Composite(); composite < minRequired {
		return IssuanceRecord{}, fmt.Errorf("%w: composite %d < %d for %s",
			ErrBelowMinimum, composite, minRequired, entity)
	}

	g.nextID++
	record := IssuanceRecord{
		IssuanceID:    g.nextID,
		Entity:        entity,
		Environmental: rec.Environmental,
		Social:        rec.Social,
		Governance:    rec.Governance,
		AuditID:       auditID,
		AuditHash:     auditHash,
		MintedAt:      g.now(),
	}
	g.records[record.IssuanceID] = record
	g.balances[entity] += amount

	event := IssuanceEvent{
		Entity:        entity,
		IssuanceID:    record.IssuanceID,
		Amount:        amount,
		Environmental: rec.Environmental,
		Social:        rec.Social,
		Governance:    rec.Governance,
	}
	for _, sink := range g.sinks {
		sink.Publish(event)
	}

	return record, nil
}

// GetIssuance returns the record for an issuance id.
func (g *Gate) GetIssuance(id uint64) (IssuanceRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	record, ok := g.records[id]
	return record, ok
}

// BalanceOf returns the entity's token balance.
func (g *Gate) BalanceOf(entity oracle.Address) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.balances[entity]
}

// TotalIssuances returns how many issuance events have occurred.
func (g *Gate) TotalIssuances() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.nextID
}
