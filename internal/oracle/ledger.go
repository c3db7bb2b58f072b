package oracle

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOutOfRange is returned when a score component is outside 0-100.
var ErrOutOfRange = errors.New("score component out of range")

// ScoreRecord is the current score for an entity. Each update replaces the
// prior record; the ledger keeps no history.
type ScoreRecord struct {
	Entity        Address   `json:"entity"`
	Environmental int       `json:"environmental"`
	Social        int       `json:"social"`
	Governance    int       `json:"governance"`
	Timestamp     time.Time `json:"timestamp"`
	Provider      Address   `json:"provider"`
}

// Composite returns the unweighted average of the three sub-scores, floored.
func (r ScoreRecord) Composite() int {
	return (r.Environmental + r.Social + r.Governance) / 3
}

// Ledger stores the latest per-entity score. Writes are gated by two
// independent checks: the ledger-side authorization flag and the registry's
// active-provider flag. Both are re-checked at the moment of every write;
// neither may be cached across calls.
type Ledger struct {
	mu         sync.RWMutex
	admin      Address
	registry   *Registry
	scores     map[Address]ScoreRecord
	authorized map[Address]bool
	now        func() time.Time
}

// NewLedger creates a score ledger administered by the given address and
// backed by the given provider registry.
func NewLedger(admin Address, registry *Registry) *Ledger {
	return &Ledger{
		admin:      admin,
		registry:   registry,
		scores:     make(map[Address]ScoreRecord),
		authorized: make(map[Address]bool),
		now:        time.Now,
	}
}

// SetProviderAuthorization toggles the ledger-side write permission for a
// provider, independent of registry state. Administrator only.
func (l *Ledger) SetProviderAuthorization(caller, provider Address, authorized bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return fmt.Errorf("%w: caller %s is not the ledger admin", ErrUnauthorized, caller)
	}

	l.authorized[provider] = authorized
	return nil
}

// UpdateScore atomically replaces the entity's score record with the given
// components, stamped with the current time and attributed to the caller.
// The caller must be both ledger-authorized and registry-active.
func (l *Ledger) UpdateScore(entity Address, environmental, social, governance int, caller Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.authorized[caller] || !l.registry.IsActiveProvider(caller) {
		return fmt.Errorf("%w: provider %s may not submit scores", ErrUnauthorized, caller)
	}

	for _, component := range [3]int{environmental, social, governance} {
		if component < 0 || component > 100 {
			return fmt.Errorf("%w: got %d, want 0-100", ErrOutOfRange, component)
		}
	}

	l.scores[entity] = ScoreRecord{
		Entity:        entity,
		Environmental: environmental,
		Social:        social,
		Governance:    governance,
		Timestamp:     l.now(),
		Provider:      caller,
	}

	return nil
}

// GetScore returns the current record for the entity, or a zero record and
// false if none exists.
func (l *Ledger) GetScore(entity Address) (ScoreRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.scores[entity]
	return rec, ok
}

// CompositeScore returns floor((e+s+g)/3) for the entity, or 0 if it has no
// record.
func (l *Ledger) CompositeScore(entity Address) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.scores[entity]
	if !ok {
		return 0
	}
	return rec.Composite()
}

// HasValidScore reports whether the entity has a record that is fresh enough.
// A maxAge of zero disables the freshness check.
func (l *Ledger) HasValidScore(entity Address, maxAge time.Duration) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.scores[entity]
	if !ok {
		return false
	}
	if maxAge == 0 {
		return true
	}
	return l.now().Sub(rec.Timestamp) <= maxAge
}

// Entities returns a snapshot of every entity holding a score record.
func (l *Ledger) Entities() []Address {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entities := make([]Address, 0, len(l.scores))
	for entity := range l.scores {
		entities = append(entities, entity)
	}
	return entities
}
