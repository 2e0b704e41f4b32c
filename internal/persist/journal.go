package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Journal entry kinds.
const (
	EntryTowerBuilt       = "tower_built"
	EntryPurchaseRejected = "purchase_rejected"
	EntryMonsterSpawned   = "monster_spawned"
	EntryMonsterKilled    = "monster_killed"
	EntryMonsterEscaped   = "monster_escaped"
)

// JournalEntry is one append-only record of something that happened in a
// match. Amount is the cost, bounty or damage depending on Kind.
type JournalEntry struct {
	Tick    uint64
	Kind    string
	Subject string // tower or monster kind
	Amount  int
	X, Y    int
}

// JournalRepo writes match journals. Rows are never read back by the game.
type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// BeginMatch records a new match row.
func (r *JournalRepo) BeginMatch(ctx context.Context, matchID uuid.UUID, seed int64, started time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO matches (id, seed, started_at) VALUES ($1, $2, $3)`,
		matchID, seed, started,
	)
	if err != nil {
		return fmt.Errorf("begin match %s: %w", matchID, err)
	}
	return nil
}

// EndMatch stamps the match with its outcome.
func (r *JournalRepo) EndMatch(ctx context.Context, matchID uuid.UUID, outcome string, ticks uint64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE matches SET ended_at = now(), outcome = $2, ticks = $3 WHERE id = $1`,
		matchID, outcome, int64(ticks),
	)
	if err != nil {
		return fmt.Errorf("end match %s: %w", matchID, err)
	}
	return nil
}

// Append writes a batch of entries for one match in a single transaction.
func (r *JournalRepo) Append(ctx context.Context, matchID uuid.UUID, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO match_journal (match_id, tick, kind, subject, amount, x, y)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			matchID, int64(e.Tick), e.Kind, e.Subject, e.Amount, e.X, e.Y,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}

	return tx.Commit(ctx)
}
