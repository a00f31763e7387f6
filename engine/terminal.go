package engine

import "math"

// ---------------------------------------------------------------------------
// Hand settlement
// ---------------------------------------------------------------------------

// finishFixed ends the hand with a fixed score, used for presidents.
func (g *GameState) finishFixed(winner uint8, score int16) {
	g.Flags |= FlagGameOver
	g.Pending = PendingQuestion{}
	g.WinnerID = int8(winner)
	g.Leader = int8(winner)
	g.Scores[winner] = score
	for _, l := range g.Opponents(winner) {
		g.Payments[l] = score
	}
}

// settle ends the hand with winner collecting from every opponent.
func (g *GameState) settle(winner uint8) {
	g.Flags |= FlagGameOver
	g.Pending = PendingQuestion{}
	g.WinnerID = int8(winner)
	g.Leader = int8(winner)

	total := g.runningScore(winner)
	wb := g.Breakdown(winner)
	best := 0
	for _, l := range g.Opponents(winner) {
		pay := total * g.penaltyMultiplier(winner, l, wb)
		g.Payments[l] = clamp16(pay)
		if pay > best {
			best = pay
		}
	}
	g.Scores[winner] = clamp16(best)

	for _, l := range g.Opponents(winner) {
		g.transferScoreCard(l, winner)
	}
}

func clamp16(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}

// settleExhausted ends a hand nobody stopped. The last go caller wins;
// without one the hand is a draw.
func (g *GameState) settleExhausted() {
	if g.Leader >= 0 {
		g.settle(uint8(g.Leader))
		return
	}
	g.Flags |= FlagGameOver | FlagNagari
	g.Pending = PendingQuestion{}
	g.WinnerID = -1
}

// transferScoreCard moves the lowest-valued pi card left in the loser's hand
// to the winner's hand. A 1-point card is taken as soon as one is found.
func (g *GameState) transferScoreCard(loser, winner uint8) {
	c := lowestPi(g.Players[loser].Hand)
	if c == EmptyCard {
		return
	}
	g.Players[loser].Hand.Remove(c)
	g.Players[winner].Hand.Add(c)
}

// lowestPi returns the pi card of smallest value in s, or EmptyCard.
func lowestPi(s CardSet) Card {
	best, bestScore := EmptyCard, uint8(0)
	for _, c := range s.Cards() {
		sc := c.Prop().Score
		if sc == 0 {
			continue
		}
		if best == EmptyCard || sc < bestScore {
			best, bestScore = c, sc
			if sc == 1 {
				break
			}
		}
	}
	return best
}

// Payment returns what player pays the winner. Zero for the winner and on a
// drawn or unfinished hand.
func (g *GameState) Payment(player uint8) int {
	if player >= MaxPlayers {
		return 0
	}
	return int(g.Payments[player])
}

// ---------------------------------------------------------------------------
// Helper: gameStateHash
// ---------------------------------------------------------------------------

// GameStateHash returns a fast 64-bit hash of the game state. The same game
// state always produces the same hash value.
func (g *GameState) GameStateHash() uint64 {
	return g.gameStateHash()
}

func (g *GameState) gameStateHash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)
	mix := func(v uint64) {
		h ^= v
		h *= prime
	}

	np := g.Rules.numPlayers()
	for p := uint8(0); p < np; p++ {
		ps := &g.Players[p]
		mix(uint64(ps.Hand))
		mix(uint64(ps.Acquired))
		mix(uint64(ps.Exposed))
		mix(uint64(ps.GoCount) | uint64(ps.ShakeCount)<<8 | uint64(ps.BombCount)<<16 |
			uint64(ps.PresidentCount)<<24 | uint64(ps.BombTokens)<<32 | uint64(uint16(ps.LastGoScore))<<40)
		if ps.UseDoublePi {
			mix(1)
		}
	}
	for i := uint8(0); i < g.DeckLen; i++ {
		mix(uint64(g.Deck[i]))
	}
	mix(uint64(g.Board))
	mix(uint64(g.DeckLen) | uint64(g.Turn)<<8 | uint64(uint8(g.Leader))<<16 |
		uint64(uint8(g.WinnerID))<<24 | uint64(g.Flags)<<32 | uint64(g.TurnNumber)<<48)
	q := g.Pending
	mix(uint64(q.Kind) | uint64(q.Player)<<8 | uint64(q.Months)<<16 | uint64(q.Source)<<32 |
		uint64(q.Candidates[0])<<40 | uint64(q.Candidates[1])<<48 | uint64(boolBit(q.FromDeck))<<56)
	for p := uint8(0); p < np; p++ {
		mix(uint64(uint16(g.Scores[p])) | uint64(uint16(g.Payments[p]))<<16)
	}
	t := g.LastTurn
	mix(uint64(t.Turn) | uint64(t.Player)<<16 | uint64(t.Thrown)<<24 | uint64(t.Flipped)<<32 |
		uint64(boolBit(t.Placed))<<40 | uint64(t.Events)<<48)
	mix(uint64(t.Captured))
	mix(uint64(t.Stolen))
	r := g.Rules
	mix(uint64(r.NumPlayers) | uint64(r.GoThreshold)<<8 | uint64(r.PiThreshold)<<16 |
		uint64(r.AnimalThreshold)<<24 | uint64(r.RibbonThreshold)<<32 | uint64(r.SetBonus)<<40 |
		uint64(r.GodoriBonus)<<48 | uint64(r.FiveLightScore)<<56)
	mix(uint64(r.GoBonus) | uint64(r.GoDoublingFrom)<<8 | uint64(r.PiBakMax)<<16 |
		uint64(r.MungBakAnimals)<<24 | uint64(r.PresidentStopScore)<<32 |
		uint64(r.BoardPresidentScore)<<40 | uint64(r.PresidentTokens)<<48)
	mix(uint64(boolBit(r.RainLightRule)) | uint64(boolBit(r.BackDo))<<1 | uint64(boolBit(r.PiBak))<<2 |
		uint64(boolBit(r.GwangBak))<<3 | uint64(boolBit(r.MungBak))<<4 |
		uint64(boolBit(r.AskDoublePi))<<5 | uint64(boolBit(r.PiSteal))<<6)
	mix(g.RNG)
	return h
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
