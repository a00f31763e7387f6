package engine

import "fmt"

// ---------------------------------------------------------------------------
// Predicates
// ---------------------------------------------------------------------------

// CheckPresident reports whether player holds all four cards of month.
func (g *GameState) CheckPresident(player, month uint8) bool {
	return g.Players[player].Held().CountMonth(month) == 4
}

// CheckShakable reports whether player holds exactly three concealed cards
// of month while the board holds none.
func (g *GameState) CheckShakable(player, month uint8) bool {
	return g.Players[player].Hand.CountMonth(month) == 3 && g.Board.CountMonth(month) == 0
}

// CheckBomb reports whether player holds two or three cards of month and the
// board holds the rest of the month.
func (g *GameState) CheckBomb(player, month uint8) bool {
	held := g.Players[player].Held().CountMonth(month)
	return (held == 2 || held == 3) && held+g.Board.CountMonth(month) == 4
}

// presidentMonths returns a bitmask with bit m set for every president month.
func (g *GameState) presidentMonths(player uint8) uint16 {
	var mask uint16
	for m := uint8(1); m <= NumMonths; m++ {
		if g.CheckPresident(player, m) {
			mask |= 1 << m
		}
	}
	return mask
}

// ---------------------------------------------------------------------------
// Opening questions
// ---------------------------------------------------------------------------

// askOpening raises the next pre-play question at or after (kind, player):
// double-pi choices in seat order, then president claims in seat order, then
// the first throw.
func (g *GameState) askOpening(kind QuestionKind, player uint8) {
	n := g.Rules.numPlayers()
	if kind == QuestionUseAsDoublePi {
		if g.Rules.AskDoublePi && player < n {
			g.Pending = PendingQuestion{Kind: QuestionUseAsDoublePi, Player: player}
			return
		}
		player = 0
	}
	for ; player < n; player++ {
		if months := g.presidentMonths(player); months != 0 {
			g.Pending = PendingQuestion{Kind: QuestionClaimPresident, Player: player, Months: months}
			return
		}
	}
	g.startTurn(0)
}

func (g *GameState) chooseDoublePi(player uint8, use bool) {
	g.Players[player].UseDoublePi = use
	g.askOpening(QuestionUseAsDoublePi, player+1)
}

// claimPresident either ends the hand on the president or lays every
// president month into the player's acquired pile for a x4 booster each.
func (g *GameState) claimPresident(player uint8, stop bool) {
	ps := &g.Players[player]
	months := g.Pending.Months
	if stop {
		ps.PresidentCount++
		g.finishFixed(player, int16(g.Rules.PresidentStopScore))
		return
	}
	for m := uint8(1); m <= NumMonths; m++ {
		if months&(1<<m) == 0 {
			continue
		}
		cards := ps.Held().OfMonth(m)
		ps.Hand = ps.Hand.Minus(cards)
		ps.Exposed = ps.Exposed.Minus(cards)
		ps.Acquired |= cards
		ps.PresidentCount++
		ps.BombTokens += g.Rules.PresidentTokens
	}
	g.askOpening(QuestionClaimPresident, player+1)
}

// ---------------------------------------------------------------------------
// Shake and bomb
// ---------------------------------------------------------------------------

// shake reveals the player's three concealed cards of month.
func (g *GameState) shake(player, month uint8) error {
	if !g.CheckShakable(player, month) {
		return fmt.Errorf("%w: player %d cannot shake month %d", ErrIllegalAction, player, month)
	}
	ps := &g.Players[player]
	cards := ps.Hand.OfMonth(month)
	ps.Hand = ps.Hand.Minus(cards)
	ps.Exposed |= cards
	ps.ShakeCount++
	g.LastTurn.Events |= EventShake
	return nil
}

// declareBomb captures every card of month from the player's hand and the
// board at once. The player earns a bomb token for each extra hand card
// spent so their turn count is unchanged.
func (g *GameState) declareBomb(player, month uint8) error {
	if !g.CheckBomb(player, month) {
		return fmt.Errorf("%w: player %d cannot bomb month %d", ErrIllegalAction, player, month)
	}
	ps := &g.Players[player]
	held := ps.Held().OfMonth(month)
	onBoard := g.Board.OfMonth(month)
	ps.Hand = ps.Hand.Minus(held)
	ps.Exposed = ps.Exposed.Minus(held)
	g.Board = g.Board.Minus(onBoard)
	g.capture(player, held|onBoard)
	ps.BombCount++
	ps.BombTokens += uint8(held.Len() - 1)
	g.LastTurn.Events |= EventBomb
	g.stealPi(player)
	return nil
}
