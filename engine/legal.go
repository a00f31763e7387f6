package engine

// LegalAnswers returns every answer Apply would accept for the pending
// question, in a deterministic order. Empty when the game is over.
func (g *GameState) LegalAnswers() []Answer {
	if g.IsTerminal() {
		return nil
	}
	p := g.Pending.Player
	switch g.Pending.Kind {
	case QuestionUseAsDoublePi:
		return []Answer{DoublePiAnswer{Use: true}, DoublePiAnswer{Use: false}}
	case QuestionClaimPresident:
		return []Answer{PresidentAnswer{Stop: true}, PresidentAnswer{Stop: false}}
	case QuestionWhichCardToThrow:
		return g.legalThrows(p)
	case QuestionPickFromDeck:
		return []Answer{FlipAnswer{}}
	case QuestionWhichCardToPick:
		return []Answer{PickAnswer{Card: g.Pending.Candidates[0]}, PickAnswer{Card: g.Pending.Candidates[1]}}
	case QuestionSayGo:
		return []Answer{GoAnswer{Go: true}, GoAnswer{Go: false}}
	}
	return nil
}

// legalThrows lists plain throws for every held card, plus shake and bomb
// declarations where eligible and a bomb token throw if one is banked.
func (g *GameState) legalThrows(p uint8) []Answer {
	ps := &g.Players[p]
	held := ps.Held()
	out := make([]Answer, 0, held.Len()+1)
	for _, c := range held.Cards() {
		out = append(out, ThrowAnswer{Card: c})
		if c.IsJoker() {
			continue
		}
		m := c.Month()
		if ps.Hand.Has(c) && g.CheckShakable(p, m) {
			out = append(out, ThrowAnswer{Card: c, Shake: true})
		}
		if g.CheckBomb(p, m) {
			out = append(out, ThrowAnswer{Card: c, Bomb: true})
		}
	}
	if ps.BombTokens > 0 {
		out = append(out, ThrowAnswer{Card: Bomb})
	}
	return out
}

// IsLegal reports whether answer from player would be accepted.
func (g *GameState) IsLegal(player uint8, answer Answer) bool {
	if g.IsTerminal() || player != g.Pending.Player || answer == nil {
		return false
	}
	for _, a := range g.LegalAnswers() {
		if a == answer {
			return true
		}
	}
	return false
}
