package engine

import "fmt"

// PublicPlayer is what every player can see about one seat.
type PublicPlayer struct {
	Acquired       CardSet        `json:"acquired"`
	Exposed        CardSet        `json:"exposed"`
	HandSize       int            `json:"hand_size"`
	GoCount        uint8          `json:"go_count"`
	ShakeCount     uint8          `json:"shake_count"`
	BombCount      uint8          `json:"bomb_count"`
	PresidentCount uint8          `json:"president_count"`
	BombTokens     uint8          `json:"bomb_tokens"`
	UseDoublePi    bool           `json:"use_double_pi"`
	Score          int            `json:"score"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}

// PlayerSight is a read-only view of the game for one player. Other players'
// concealed hands and the deck order are never included.
type PlayerSight struct {
	Viewer   uint8          `json:"viewer"`
	Hand     CardSet        `json:"hand"`
	Players  []PublicPlayer `json:"players"`
	Board    CardSet        `json:"board"`
	DeckSize int            `json:"deck_size"`
	Turn     uint8          `json:"turn"`
	Question Question       `json:"question,omitempty"`
	Leader   int8           `json:"leader"`
	Done     bool           `json:"done"`
	Winner   int8           `json:"winner"`
	LastTurn TurnSummary    `json:"last_turn"`
}

// Status returns the game as seen by player.
func (g *GameState) Status(player uint8) (PlayerSight, error) {
	n := g.Rules.numPlayers()
	if player >= n {
		return PlayerSight{}, fmt.Errorf("%w: no player %d in a %d-player game", ErrIllegalAction, player, n)
	}
	s := PlayerSight{
		Viewer:   player,
		Hand:     g.Players[player].Hand,
		Players:  make([]PublicPlayer, n),
		Board:    g.Board,
		DeckSize: g.DeckSize(),
		Turn:     g.Turn,
		Question: g.questionFor(player),
		Leader:   g.Leader,
		Done:     g.IsTerminal(),
		Winner:   g.WinnerID,
		LastTurn: g.LastTurn,
	}
	for p := uint8(0); p < n; p++ {
		ps := &g.Players[p]
		s.Players[p] = PublicPlayer{
			Acquired:       ps.Acquired,
			Exposed:        ps.Exposed,
			HandSize:       ps.Hand.Len(),
			GoCount:        ps.GoCount,
			ShakeCount:     ps.ShakeCount,
			BombCount:      ps.BombCount,
			PresidentCount: ps.PresidentCount,
			BombTokens:     ps.BombTokens,
			UseDoublePi:    ps.UseDoublePi,
			Score:          g.Score(p),
			Breakdown:      g.Breakdown(p),
		}
	}
	return s, nil
}
