package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/verdana-labs/esgbridge/internal/token"
	"github.com/verdana-labs/esgbridge/pkg/database"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// Repository persists issuance records to PostgreSQL for audit. The archive
// is write-behind: the in-memory gate remains authoritative and an archive
// failure never rolls back an issuance.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates an issuance archive repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// EnsureSchema creates the archive table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS issuance_archive (
			issuance_id   BIGINT PRIMARY KEY,
			entity        TEXT NOT NULL,
			amount        BIGINT NOT NULL,
			environmental INT NOT NULL,
			social        INT NOT NULL,
			governance    INT NOT NULL,
			archived_at   TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := r.db.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create issuance_archive table: %w", err)
	}

	return nil
}

// Save stores one issuance event.
func (r *Repository) Save(ctx context.Context, event token.IssuanceEvent) error {
	query := `
		INSERT INTO issuance_archive
			(issuance_id, entity, amount, environmental, social, governance, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (issuance_id) DO NOTHING
	`

	_, err := r.db.Pool.Exec(ctx, query,
		int64(event.IssuanceID),
		string(event.Entity),
		event.Amount,
		event.Environmental,
		event.Social,
		event.Governance,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert issuance %d: %w", event.IssuanceID, err)
	}

	return nil
}

// CountByEntity returns how many archived issuances an entity has.
func (r *Repository) CountByEntity(ctx context.Context, entity string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM issuance_archive WHERE entity = $1`

	if err := r.db.Pool.QueryRow(ctx, query, entity).Scan(&count); err != nil {
		return 0, fmt.Errorf("count issuances for %s: %w", entity, err)
	}

	return count, nil
}

// Sink adapts the repository into a non-blocking gate event sink. Writes
// happen on a background goroutine with their own timeout.
type Sink struct {
	repo   *Repository
	logger *logger.Logger
}

// NewSink wraps a repository as a token.EventSink.
func NewSink(repo *Repository, log *logger.Logger) *Sink {
	return &Sink{repo: repo, logger: log}
}

// Publish archives the event asynchronously. Publish never blocks the gate.
func (s *Sink) Publish(event token.IssuanceEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.Save(ctx, event); err != nil {
			s.logger.WithError(err).WithField("issuance_id", event.IssuanceID).
				Error("Failed to archive issuance")
		}
	}()
}
