// internal/game/sync_state.go
package game

import (
	"fmt"

	"github.com/alphags/alphags/engine"
	"github.com/google/uuid"
)

// ObfPlayerState is the public identity of one seat.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	Seat          uint8     `json:"seat"`
	Connected     bool      `json:"connected"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
}

// ObfGameState is the match as seen by one player. Sight comes from the
// engine and never contains another player's hand or the deck order.
type ObfGameState struct {
	GameID          uuid.UUID          `json:"gameId"`
	Started         bool               `json:"started"`
	GameOver        bool               `json:"gameOver"`
	CurrentPlayerID uuid.UUID          `json:"currentPlayerId"`
	TurnID          int                `json:"turnId"`
	Question        string             `json:"question,omitempty"`
	Players         []ObfPlayerState   `json:"players"`
	Sight           engine.PlayerSight `json:"sight"`
}

// GetObfuscatedState builds forUser's view of the match.
// Assumes lock is held by caller.
func (g *Match) GetObfuscatedState(forUser uuid.UUID) (ObfGameState, error) {
	seat, ok := g.PlayerToSeat[forUser]
	if !ok {
		return ObfGameState{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, forUser)
	}
	sight, err := g.Engine.Status(seat)
	if err != nil {
		return ObfGameState{}, err
	}

	obf := ObfGameState{
		GameID:          g.ID,
		Started:         g.Started,
		GameOver:        g.GameOver || g.Engine.IsTerminal(),
		CurrentPlayerID: g.currentPlayerID(),
		TurnID:          g.TurnID,
		Sight:           sight,
		Players:         make([]ObfPlayerState, len(g.Players)),
	}
	if q := g.Engine.Question(); q != nil {
		obf.Question = q.Kind().String()
	}
	for i, p := range g.Players {
		obf.Players[i] = ObfPlayerState{
			PlayerID:      p.ID,
			Username:      p.User.Username,
			Seat:          p.Seat,
			Connected:     p.Connected,
			IsCurrentTurn: !obf.GameOver && p.ID == obf.CurrentPlayerID,
		}
	}
	return obf, nil
}
