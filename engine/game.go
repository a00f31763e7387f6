// Package engine implements the Matgo (two-player Gostop) rules.
//
// The engine is a flat value type driven by a question/answer protocol:
// GameState exposes the pending Question, the caller supplies an Answer
// through Apply, and the engine validates it, moves cards, and raises the
// next question until the hand ends. Deciding what to answer is left to the
// caller.
package engine

import "fmt"

const (
	MaxPlayers = 3
	DeckSize   = int(NumCardTypes) // bomb marker included
)

// PlayerState holds one player's cards and event counters.
// Hand, Acquired and Exposed are disjoint. Exposed holds shaken cards: they
// are still the player's to throw but visible to everyone.
type PlayerState struct {
	Hand     CardSet
	Acquired CardSet
	Exposed  CardSet

	GoCount        uint8
	ShakeCount     uint8
	BombCount      uint8
	PresidentCount uint8
	BombTokens     uint8
	LastGoScore    int16 // raw score at the last go
	UseDoublePi    bool
}

// Held returns the cards the player may throw.
func (p *PlayerState) Held() CardSet { return p.Hand | p.Exposed }

// Turn event bits recorded in TurnSummary.Events.
const (
	EventShake uint16 = 1 << iota
	EventBomb
	EventBombToken
	EventJoker
	EventKiss
	EventSweep
	EventClear
	EventGo
	EventStop
)

// TurnSummary records what happened during the current (or last) turn.
type TurnSummary struct {
	Turn     uint16  `json:"turn"` // 1-based; 0 before the first throw
	Player   uint8   `json:"player"`
	Thrown   Card    `json:"thrown"`
	Flipped  Card    `json:"flipped"`
	Placed   bool    `json:"placed"` // Thrown found no partner and stayed on the board
	Captured CardSet `json:"captured"`
	Stolen   CardSet `json:"stolen"`
	Events   uint16  `json:"events"`
}

// GameState holds the complete, self-contained state of a Matgo hand.
// It is a flat value type (no pointers, no slices, no maps) so copying it
// is a full snapshot.
type GameState struct {
	Players  [MaxPlayers]PlayerState
	Board    CardSet
	Deck     [DeckSize]Card // Deck[0] is the bomb marker; the top is Deck[DeckLen-1]
	DeckLen  uint8
	Turn     uint8
	Leader   int8 // last player to call go, -1 if none
	WinnerID int8 // -1 while playing and on a drawn hand
	Flags    uint16
	Pending  PendingQuestion
	LastTurn TurnSummary

	TurnNumber uint16
	Scores     [MaxPlayers]int16 // settled results, valid once the game is over
	Payments   [MaxPlayers]int16 // what each loser pays the winner

	RNG   uint64
	Rules HouseRules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagGameOver    uint16 = 1 << 0
	FlagGameStarted uint16 = 1 << 1
	FlagNagari      uint16 = 1 << 2 // hand ended with no winner
)

func (g *GameState) IsGameOver() bool { return g.Flags&FlagGameOver != 0 }
func (g *GameState) IsNagari() bool   { return g.Flags&FlagNagari != 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new GameState with the given seed and rules.
// The deck is built but not yet shuffled or dealt.
func NewGame(seed uint64, rules HouseRules) (GameState, error) {
	var g GameState
	n := rules.numPlayers()
	if n < 2 || n > MaxPlayers {
		return g, fmt.Errorf("%w: %d players", ErrConfiguration, rules.NumPlayers)
	}
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.Rules.NumPlayers = n
	g.Leader = -1
	g.WinnerID = -1
	g.LastTurn = TurnSummary{Thrown: EmptyCard, Flipped: EmptyCard}

	// The bomb marker never leaves the bottom of the deck.
	g.Deck[0] = Bomb
	for c := Card(0); c < Bomb; c++ {
		g.Deck[int(c)+1] = c
	}
	g.DeckLen = uint8(DeckSize)
	return g, nil
}

// Deal shuffles the draw pile, deals hands and board, and raises the first
// question. A four-of-a-month board ends the hand immediately.
func (g *GameState) Deal() {
	// Fisher-Yates over Deck[1:DeckLen], leaving the marker in place.
	for i := int(g.DeckLen) - 1; i > 1; i-- {
		j := 1 + int(g.randN(uint64(i)))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}
	g.deal()
}

// deal distributes cards from the current deck order without shuffling.
func (g *GameState) deal() {
	n := g.Rules.numPlayers()
	for p := uint8(0); p < n; p++ {
		for i := 0; i < g.Rules.handSize(); i++ {
			g.Players[p].Hand.Add(g.draw())
		}
	}
	for i := 0; i < g.Rules.boardSize(); i++ {
		g.Board.Add(g.draw())
	}

	// Jokers never stay face up on the board.
	jokers := g.Board.Filter(Card.IsJoker)
	g.Board = g.Board.Minus(jokers)
	g.Players[0].Hand |= jokers

	g.Flags |= FlagGameStarted
	for m := uint8(1); m <= NumMonths; m++ {
		if g.Board.CountMonth(m) == 4 {
			g.finishFixed(0, int16(g.Rules.BoardPresidentScore))
			return
		}
	}
	g.askOpening(QuestionUseAsDoublePi, 0)
}

// draw pops the top card of the draw pile. Callers check drawable first.
func (g *GameState) draw() Card {
	g.DeckLen--
	return g.Deck[g.DeckLen]
}

// drawable returns the number of cards left above the bomb marker.
func (g *GameState) drawable() int { return int(g.DeckLen) - 1 }

// deckSet returns the deck contents, marker included.
func (g *GameState) deckSet() CardSet {
	var s CardSet
	for i := uint8(0); i < g.DeckLen; i++ {
		s.Add(g.Deck[i])
	}
	return s
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.Flags&FlagGameOver != 0 }

// End is an alias of IsTerminal.
func (g *GameState) End() bool { return g.IsTerminal() }

// Winner returns the winning player, or -1 while playing or on a drawn hand.
func (g *GameState) Winner() int8 { return g.WinnerID }

// ActingPlayer returns the player the pending question addresses.
func (g *GameState) ActingPlayer() uint8 { return g.Pending.Player }

// TurnPlayer returns the player whose turn it currently is.
func (g *GameState) TurnPlayer() uint8 { return g.Turn }

// DeckSize returns the number of face-down deck cards, marker included.
func (g *GameState) DeckSize() int { return int(g.DeckLen) }

// NumActivePlayers returns the number of players in this game.
func (g *GameState) NumActivePlayers() uint8 { return g.Rules.numPlayers() }

// NextPlayer returns the next player after current in turn order.
func (g *GameState) NextPlayer(current uint8) uint8 {
	return (current + 1) % g.Rules.numPlayers()
}

// Opponents returns all player indices except the given player.
func (g *GameState) Opponents(player uint8) []uint8 {
	n := g.Rules.numPlayers()
	opps := make([]uint8, 0, n-1)
	for i := uint8(0); i < n; i++ {
		if i != player {
			opps = append(opps, i)
		}
	}
	return opps
}

// Score returns the player's settled score once the game is over, and the
// running score (what a stop would be worth) before that.
func (g *GameState) Score(player uint8) int {
	if player >= g.Rules.numPlayers() {
		return 0
	}
	if g.IsTerminal() {
		return int(g.Scores[player])
	}
	return g.runningScore(player)
}

// ---------------------------------------------------------------------------
// Partition invariant
// ---------------------------------------------------------------------------

// checkPartition panics if any card is missing or held twice. A violation
// is an engine defect, never a caller error.
func (g *GameState) checkPartition() {
	var seen CardSet
	add := func(where string, s CardSet) {
		if seen&s != 0 {
			panic(fmt.Sprintf("engine: cards %v duplicated in %s", seen&s, where))
		}
		seen |= s
	}
	add("deck", g.deckSet())
	if g.deckSet().Len() != int(g.DeckLen) {
		panic("engine: duplicate card inside deck")
	}
	add("board", g.Board)
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		ps := &g.Players[p]
		add(fmt.Sprintf("player %d hand", p), ps.Hand)
		add(fmt.Sprintf("player %d acquired", p), ps.Acquired)
		add(fmt.Sprintf("player %d exposed", p), ps.Exposed)
	}
	if seen != AllCards {
		panic(fmt.Sprintf("engine: cards %v missing", AllCards&^seen))
	}
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
// No heap allocation, saving and restoring are plain struct copies.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
