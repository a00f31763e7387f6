package engine

import (
	"errors"
	"testing"
)

// layout describes a hand-built position. Cards it does not mention go to
// the deck in tag order, beneath deckTop.
type layout struct {
	hands    [][]Card
	acquired [][]Card
	board    []Card
	deckTop  []Card // deckTop[0] is drawn first
}

// testRules are the default rules without the opening double-pi questions.
func testRules() HouseRules {
	r := DefaultHouseRules()
	r.AskDoublePi = false
	return r
}

// arrange builds a started game from l using testRules.
func arrange(t *testing.T, l layout) *GameState {
	t.Helper()
	return arrangeWith(t, testRules(), l)
}

// arrangeWith builds a started game from l and raises the opening question.
func arrangeWith(t *testing.T, rules HouseRules, l layout) *GameState {
	t.Helper()
	g, err := NewGame(7, rules)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	var used CardSet
	place := func(dst *CardSet, cards []Card) {
		for _, c := range cards {
			if used.Has(c) {
				t.Fatalf("arrange: %v placed twice", c)
			}
			used.Add(c)
			dst.Add(c)
		}
	}
	for p, h := range l.hands {
		place(&g.Players[p].Hand, h)
	}
	for p, a := range l.acquired {
		place(&g.Players[p].Acquired, a)
	}
	place(&g.Board, l.board)
	var top CardSet
	place(&top, l.deckTop)
	g.stackDeck(used.Minus(top), l.deckTop)
	g.Flags |= FlagGameStarted
	g.checkPartition()
	g.askOpening(QuestionUseAsDoublePi, 0)
	return &g
}

// stackDeck rebuilds the deck from every card not in dealt, with order on
// top so order[0] is drawn first.
func (g *GameState) stackDeck(dealt CardSet, order []Card) {
	skip := dealt.Union(SetOf(order...))
	g.Deck[0] = Bomb
	n := 1
	for c := Card(0); c < Bomb; c++ {
		if !skip.Has(c) {
			g.Deck[n] = c
			n++
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		g.Deck[n] = order[i]
		n++
	}
	g.DeckLen = uint8(n)
}

// mustApply applies a and fails the test on error.
func mustApply(t *testing.T, g *GameState, player uint8, a Answer) {
	t.Helper()
	if err := g.Apply(player, a); err != nil {
		t.Fatalf("Apply(%d, %#v): %v", player, a, err)
	}
}

// wantRejected applies a and checks it fails with target, leaving g unchanged.
func wantRejected(t *testing.T, g *GameState, player uint8, a Answer, target error) {
	t.Helper()
	before := *g
	hash := g.gameStateHash()
	err := g.Apply(player, a)
	if !errors.Is(err, target) {
		t.Fatalf("Apply(%d, %#v) = %v, want %v", player, a, err, target)
	}
	if *g != before || g.gameStateHash() != hash {
		t.Fatalf("Apply(%d, %#v) changed state on rejection", player, a)
	}
	if g.Answer(player, a) {
		t.Fatalf("Answer(%d, %#v) = true after rejection", player, a)
	}
}

// wantQuestion checks the kind and addressee of the pending question.
func wantQuestion(t *testing.T, g *GameState, kind QuestionKind, player uint8) {
	t.Helper()
	q := g.Question()
	if q == nil {
		t.Fatalf("Question() = nil, want %s for player %d", kind, player)
	}
	if q.Kind() != kind || q.Target() != player {
		t.Fatalf("Question() = %s for player %d, want %s for player %d", q.Kind(), q.Target(), kind, player)
	}
}
