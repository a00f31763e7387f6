package engine

import "fmt"

// startTurn hands the turn to player, or ends the hand if they have nothing
// left to play.
func (g *GameState) startTurn(player uint8) {
	g.Turn = player
	if !g.canPlay(player) {
		g.settleExhausted()
		return
	}
	g.Pending = PendingQuestion{Kind: QuestionWhichCardToThrow, Player: player}
}

// canPlay reports whether player can take a turn: a card to throw, or a bomb
// token and a deck card to flip.
func (g *GameState) canPlay(player uint8) bool {
	ps := &g.Players[player]
	if !ps.Held().Empty() {
		return true
	}
	return ps.BombTokens > 0 && g.drawable() > 0
}

// ---------------------------------------------------------------------------
// Throw
// ---------------------------------------------------------------------------

// throwCard resolves a WhichCardToThrow answer.
func (g *GameState) throwCard(player uint8, a ThrowAnswer) error {
	ps := &g.Players[player]
	if g.LastTurn.Turn != g.TurnNumber+1 {
		g.LastTurn = TurnSummary{Turn: g.TurnNumber + 1, Player: player, Thrown: EmptyCard, Flipped: EmptyCard}
	}

	if a.Card == Bomb {
		if a.Shake || a.Bomb {
			return fmt.Errorf("%w: a bomb token cannot be shaken or bombed", ErrIllegalAction)
		}
		if ps.BombTokens == 0 {
			return fmt.Errorf("%w: player %d has no bomb token", ErrIllegalAction, player)
		}
		ps.BombTokens--
		g.LastTurn.Thrown = Bomb
		g.LastTurn.Events |= EventBombToken
		g.askFlip(player)
		return nil
	}

	if !ps.Held().Has(a.Card) {
		return fmt.Errorf("%w: player %d does not hold %v", ErrIllegalAction, player, a.Card)
	}
	if a.Shake && a.Bomb {
		return fmt.Errorf("%w: cannot shake and bomb at once", ErrIllegalAction)
	}

	if a.Card.IsJoker() {
		if a.Shake || a.Bomb {
			return fmt.Errorf("%w: a joker cannot be shaken or bombed", ErrIllegalAction)
		}
		// The joker scores at once and is replaced from the deck; the
		// throw question stays open.
		ps.Hand.Remove(a.Card)
		g.capture(player, SetOf(a.Card))
		g.LastTurn.Events |= EventJoker
		if g.drawable() > 0 {
			ps.Hand.Add(g.draw())
		}
		if ps.Held().Empty() {
			g.askFlip(player)
		}
		return nil
	}

	month := a.Card.Month()
	if a.Bomb {
		if err := g.declareBomb(player, month); err != nil {
			return err
		}
		g.LastTurn.Thrown = a.Card
		g.askFlip(player)
		return nil
	}
	if a.Shake {
		if !ps.Hand.Has(a.Card) {
			return fmt.Errorf("%w: %v is already exposed", ErrIllegalAction, a.Card)
		}
		if err := g.shake(player, month); err != nil {
			return err
		}
	}

	ps.Hand.Remove(a.Card)
	ps.Exposed.Remove(a.Card)
	g.LastTurn.Thrown = a.Card
	if g.resolve(player, a.Card, false) {
		g.askFlip(player)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Matching
// ---------------------------------------------------------------------------

// resolve matches c against the board of its month. It returns false when
// two candidates are on the board and a WhichCardToPick question was raised.
func (g *GameState) resolve(player uint8, c Card, fromDeck bool) bool {
	matches := g.Board.OfMonth(c.Month())
	switch matches.Len() {
	case 0:
		g.Board.Add(c)
		if !fromDeck {
			g.LastTurn.Placed = true
		}
	case 1:
		g.Board = g.Board.Minus(matches)
		g.capture(player, matches|SetOf(c))
		if fromDeck && g.LastTurn.Placed && matches.Has(g.LastTurn.Thrown) {
			g.LastTurn.Events |= EventKiss
			g.stealPi(player)
		}
	case 2:
		cands := matches.Cards()
		// Source waits on the board until the pick is answered.
		g.Board.Add(c)
		g.Pending = PendingQuestion{
			Kind:       QuestionWhichCardToPick,
			Player:     player,
			Source:     c,
			Candidates: [2]Card{cands[0], cands[1]},
			FromDeck:   fromDeck,
		}
		return false
	default:
		g.Board = g.Board.Minus(matches)
		g.capture(player, matches|SetOf(c))
		g.LastTurn.Events |= EventSweep
		g.stealPi(player)
	}
	return true
}

// pickCard resolves a WhichCardToPick answer.
func (g *GameState) pickCard(player uint8, c Card) error {
	q := g.Pending
	if c != q.Candidates[0] && c != q.Candidates[1] {
		return fmt.Errorf("%w: %v is not a candidate (%v, %v)", ErrIllegalAction, c, q.Candidates[0], q.Candidates[1])
	}
	pair := SetOf(q.Source, c)
	g.Board = g.Board.Minus(pair)
	g.capture(player, pair)
	if q.FromDeck {
		g.endTurn(player)
	} else {
		g.askFlip(player)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Deck flip
// ---------------------------------------------------------------------------

// askFlip raises PickFromDeck, or ends the turn when the deck is spent.
func (g *GameState) askFlip(player uint8) {
	if g.drawable() == 0 {
		g.endTurn(player)
		return
	}
	g.Pending = PendingQuestion{Kind: QuestionPickFromDeck, Player: player}
}

// flip reveals deck cards until a month card turns up and matches it.
// Jokers flipped on the way go straight to the player.
func (g *GameState) flip(player uint8) {
	for g.drawable() > 0 {
		c := g.draw()
		if c.IsJoker() {
			g.capture(player, SetOf(c))
			g.LastTurn.Events |= EventJoker
			continue
		}
		g.LastTurn.Flipped = c
		if !g.resolve(player, c, true) {
			return
		}
		break
	}
	g.endTurn(player)
}

// ---------------------------------------------------------------------------
// End of turn
// ---------------------------------------------------------------------------

// endTurn applies the board-clear bonus and asks go/stop if the player has a
// new best score; otherwise play passes on.
func (g *GameState) endTurn(player uint8) {
	if g.Board.Empty() && !g.LastTurn.Captured.Empty() {
		g.LastTurn.Events |= EventClear
		g.stealPi(player)
	}
	g.TurnNumber++

	raw := g.Breakdown(player).Raw
	ps := &g.Players[player]
	if raw >= int(g.Rules.GoThreshold) && raw > int(ps.LastGoScore) {
		if !g.canPlay(g.NextPlayer(player)) {
			g.LastTurn.Events |= EventStop
			g.settle(player)
			return
		}
		g.Pending = PendingQuestion{Kind: QuestionSayGo, Player: player}
		return
	}
	g.startTurn(g.NextPlayer(player))
}

// sayGo resolves a SayGo answer.
func (g *GameState) sayGo(player uint8, goOn bool) {
	ps := &g.Players[player]
	if !goOn {
		g.LastTurn.Events |= EventStop
		g.settle(player)
		return
	}
	ps.GoCount++
	ps.LastGoScore = int16(g.Breakdown(player).Raw)
	g.Leader = int8(player)
	g.LastTurn.Events |= EventGo
	g.startTurn(g.NextPlayer(player))
}

// ---------------------------------------------------------------------------
// Capture bookkeeping
// ---------------------------------------------------------------------------

func (g *GameState) capture(player uint8, cards CardSet) {
	g.Players[player].Acquired |= cards
	g.LastTurn.Captured |= cards
}

// stealPi takes the lowest pi card from each opponent's acquired pile.
func (g *GameState) stealPi(player uint8) {
	if !g.Rules.PiSteal {
		return
	}
	for _, o := range g.Opponents(player) {
		op := &g.Players[o]
		c := lowestPi(op.Acquired)
		if c == EmptyCard {
			continue
		}
		op.Acquired.Remove(c)
		g.Players[player].Acquired.Add(c)
		g.LastTurn.Stolen.Add(c)
	}
}
