// internal/database/db.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a match has no stored result.
var ErrNotFound = errors.New("database: not found")

const schema = `
CREATE TABLE IF NOT EXISTS match_results (
	match_id    UUID PRIMARY KEY,
	winner_id   UUID,
	nagari      BOOLEAN NOT NULL DEFAULT FALSE,
	scores      JSONB NOT NULL,
	final_state BYTEA,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS match_deals (
	match_id   UUID PRIMARY KEY,
	seed       BIGINT NOT NULL,
	players    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// MatchResult is the settled outcome of one hand.
type MatchResult struct {
	MatchID    uuid.UUID         `json:"match_id"`
	WinnerID   uuid.UUID         `json:"winner_id"` // uuid.Nil on a nagari
	Nagari     bool              `json:"nagari"`
	Scores     map[uuid.UUID]int `json:"scores"`
	FinalState []byte            `json:"-"`
	FinishedAt time.Time         `json:"finished_at"`
}

// MatchDeal records how a match was dealt so it can be replayed.
type MatchDeal struct {
	MatchID uuid.UUID   `json:"match_id"`
	Seed    uint64      `json:"seed"`
	Players []uuid.UUID `json:"players"`
}

// DB wraps the postgres connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// Connect opens a pool on url and pings it.
func Connect(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases the pool.
func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

// encodeScores turns the score map into JSON with string keys.
func encodeScores(scores map[uuid.UUID]int) ([]byte, error) {
	out := make(map[string]int, len(scores))
	for id, s := range scores {
		out[id.String()] = s
	}
	return json.Marshal(out)
}

func decodeScores(data []byte) (map[uuid.UUID]int, error) {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(raw))
	for k, s := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("score key %q: %w", k, err)
		}
		out[id] = s
	}
	return out, nil
}

// nullableUUID maps uuid.Nil to SQL NULL.
func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// StoreMatchResult writes the outcome of a finished match. Storing the same
// match twice overwrites the earlier row.
func (d *DB) StoreMatchResult(ctx context.Context, res MatchResult) error {
	scores, err := encodeScores(res.Scores)
	if err != nil {
		return fmt.Errorf("database: encode scores: %w", err)
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = time.Now()
	}
	_, err = d.Pool.Exec(ctx, `
		INSERT INTO match_results (match_id, winner_id, nagari, scores, final_state, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id) DO UPDATE
		SET winner_id = EXCLUDED.winner_id, nagari = EXCLUDED.nagari, scores = EXCLUDED.scores,
		    final_state = EXCLUDED.final_state, finished_at = EXCLUDED.finished_at`,
		res.MatchID, nullableUUID(res.WinnerID), res.Nagari, scores, res.FinalState, res.FinishedAt)
	if err != nil {
		return fmt.Errorf("database: store result %s: %w", res.MatchID, err)
	}
	return nil
}

// UpsertMatchDeal records the seed and seating of a started match.
func (d *DB) UpsertMatchDeal(ctx context.Context, deal MatchDeal) error {
	players, err := json.Marshal(deal.Players)
	if err != nil {
		return fmt.Errorf("database: encode players: %w", err)
	}
	_, err = d.Pool.Exec(ctx, `
		INSERT INTO match_deals (match_id, seed, players) VALUES ($1, $2, $3)
		ON CONFLICT (match_id) DO UPDATE SET seed = EXCLUDED.seed, players = EXCLUDED.players`,
		deal.MatchID, int64(deal.Seed), players)
	if err != nil {
		return fmt.Errorf("database: store deal %s: %w", deal.MatchID, err)
	}
	return nil
}

// LoadMatchResult reads a stored outcome.
func (d *DB) LoadMatchResult(ctx context.Context, matchID uuid.UUID) (MatchResult, error) {
	var (
		res    MatchResult
		winner *uuid.UUID
		scores []byte
	)
	err := d.Pool.QueryRow(ctx, `
		SELECT match_id, winner_id, nagari, scores, final_state, finished_at
		FROM match_results WHERE match_id = $1`, matchID).
		Scan(&res.MatchID, &winner, &res.Nagari, &scores, &res.FinalState, &res.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MatchResult{}, ErrNotFound
	}
	if err != nil {
		return MatchResult{}, fmt.Errorf("database: load result %s: %w", matchID, err)
	}
	if winner != nil {
		res.WinnerID = *winner
	}
	if res.Scores, err = decodeScores(scores); err != nil {
		return MatchResult{}, fmt.Errorf("database: decode scores: %w", err)
	}
	return res, nil
}
