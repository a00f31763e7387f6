package engine

// ShuffleInvisible redistributes the cards viewer cannot see (the other
// players' hands and the draw pile) uniformly at random, keeping every hand
// size and the deck size. Everything viewer knows is left as is, so the
// result is a plausible determinization of the hidden state.
func (g *GameState) ShuffleInvisible(viewer uint8) {
	n := g.Rules.numPlayers()

	var pool [DeckSize]Card
	k := 0
	var sizes [MaxPlayers]int
	for p := uint8(0); p < n; p++ {
		if p == viewer {
			continue
		}
		sizes[p] = g.Players[p].Hand.Len()
		for _, c := range g.Players[p].Hand.Cards() {
			pool[k] = c
			k++
		}
		g.Players[p].Hand = 0
	}
	for i := 1; i < int(g.DeckLen); i++ {
		pool[k] = g.Deck[i]
		k++
	}

	for i := k - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		pool[i], pool[j] = pool[j], pool[i]
	}

	k = 0
	for p := uint8(0); p < n; p++ {
		for i := 0; i < sizes[p]; i++ {
			g.Players[p].Hand.Add(pool[k])
			k++
		}
	}
	for i := 1; i < int(g.DeckLen); i++ {
		g.Deck[i] = pool[k]
		k++
	}
	g.checkPartition()
}
