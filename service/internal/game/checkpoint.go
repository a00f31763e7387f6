// internal/game/checkpoint.go
package game

import (
	"encoding/json"
	"fmt"

	"github.com/alphags/alphags/engine"
	"github.com/alphags/alphags/service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type checkpointSeat struct {
	PlayerID uuid.UUID `json:"player_id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// checkpoint is the stored form of a running match. Engine is the engine's
// own binary encoding.
type checkpoint struct {
	ID           uuid.UUID        `json:"id"`
	Seed         uint64           `json:"seed"`
	PasswordHash string           `json:"password_hash,omitempty"`
	Seats        []checkpointSeat `json:"seats"`
	Started      bool             `json:"started"`
	TurnID       int              `json:"turn_id"`
	Engine       []byte           `json:"engine"`
}

// Checkpoint encodes the match so RestoreMatch can resume it.
// Assumes lock is held by caller.
func (g *Match) Checkpoint() ([]byte, error) {
	eng, err := g.Engine.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", g.ID, err)
	}
	cp := checkpoint{
		ID:           g.ID,
		Seed:         g.Seed,
		PasswordHash: g.PasswordHash,
		Started:      g.Started,
		TurnID:       g.TurnID,
		Engine:       eng,
	}
	for _, p := range g.Players {
		cp.Seats = append(cp.Seats, checkpointSeat{PlayerID: p.ID, UserID: p.User.ID, Username: p.User.Username})
	}
	return json.Marshal(cp)
}

// RestoreMatch rebuilds a match from a checkpoint. Every player starts
// disconnected; callbacks and stores must be wired again by the caller.
func RestoreMatch(data []byte) (*Match, error) {
	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("restore match: %w", err)
	}
	eng, err := engine.Decode(cp.Engine)
	if err != nil {
		return nil, fmt.Errorf("restore match %s: %w", cp.ID, err)
	}
	if len(cp.Seats) != int(eng.NumActivePlayers()) {
		return nil, fmt.Errorf("restore match %s: %d seats for %d players", cp.ID, len(cp.Seats), eng.NumActivePlayers())
	}

	g := NewMatch(eng.Rules, cp.Seed)
	g.ID = cp.ID
	g.SetLogger(logrus.StandardLogger())
	g.PasswordHash = cp.PasswordHash
	for _, s := range cp.Seats {
		p := &models.Player{ID: s.PlayerID, User: &models.User{ID: s.UserID, Username: s.Username}}
		if err := g.AddPlayer(p); err != nil {
			return nil, fmt.Errorf("restore match %s: %w", cp.ID, err)
		}
	}
	g.Engine = eng
	g.Started = cp.Started
	g.GameOver = eng.IsTerminal()
	g.TurnID = cp.TurnID
	return g, nil
}
