package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// SQLExecutor is the subset of pgxpool.Pool the journal needs. Tests swap in
// a fake.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// JournalEntry is one persisted platform event.
type JournalEntry struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventJournalPG persists platform events to PostgreSQL as an append-only
// journal.
type EventJournalPG struct {
	db     SQLExecutor
	logger zerolog.Logger
}

// NewEventJournal creates a journal backed by the given executor.
func NewEventJournal(db SQLExecutor, logger zerolog.Logger) *EventJournalPG {
	return &EventJournalPG{db: db, logger: logger}
}

// EnsureSchema creates the events table when it does not exist.
func (j *EventJournalPG) EnsureSchema(ctx context.Context) error {
	_, err := j.db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS events (
    id          uuid PRIMARY KEY,
    kind        text NOT NULL,
    payload     jsonb NOT NULL DEFAULT '{}'::jsonb,
    occurred_at timestamptz NOT NULL DEFAULT now()
);
`)
	return err
}

// Append inserts one event row.
func (j *EventJournalPG) Append(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(ctx, `
INSERT INTO events (id, kind, payload)
VALUES ($1, $2, $3);
`, uuid.NewString(), e.Kind(), payload)
	return err
}

// ListRecent returns the newest entries, most recent first.
func (j *EventJournalPG) ListRecent(ctx context.Context, limit int) ([]JournalEntry, error) {
	rows, err := j.db.Query(ctx, `
SELECT id, kind, payload, occurred_at
FROM events
ORDER BY occurred_at DESC
LIMIT $1;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []JournalEntry
	for rows.Next() {
		var entry JournalEntry
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Payload, &entry.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const appendTimeout = 5 * time.Second

// Sink adapts the journal to the domain event sink. Events are emitted while
// the platform ledger is locked, so writes are best effort with a short
// timeout; failures are logged and never surface to the caller.
func (j *EventJournalPG) Sink() domain.EventSink {
	return journalSink{journal: j}
}

type journalSink struct {
	journal *EventJournalPG
}

func (s journalSink) Emit(e domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := s.journal.Append(ctx, e); err != nil {
		s.journal.logger.Error().Err(err).Str("kind", e.Kind()).Msg("journal append failed")
	}
}
