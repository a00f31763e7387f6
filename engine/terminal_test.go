package engine

import "testing"

// stopLayout gives player 0 a three-light turn: AugLight takes Aug1 and the
// deck card is placed.
func stopLayout(p0Hand []Card) layout {
	return layout{
		hands:    [][]Card{p0Hand, {Sep1}},
		acquired: [][]Card{{JanLight, MarLight}},
		board:    []Card{Aug1, Apr1},
		deckTop:  []Card{Oct1, Oct2},
	}
}

// TestSayGoRaisedAtThreshold verifies the go question and the stop settlement.
func TestSayGoRaisedAtThreshold(t *testing.T) {
	g := arrange(t, stopLayout([]Card{AugLight, Jun1}))
	mustApply(t, g, 0, ThrowAnswer{Card: AugLight})
	mustApply(t, g, 0, FlipAnswer{})

	wantQuestion(t, g, QuestionSayGo, 0)
	if q := g.Question().(SayGo); q.Score != 3 {
		t.Errorf("SayGo score = %d, want 3", q.Score)
	}
	wantRejected(t, g, 0, PickAnswer{Card: Jun1}, ErrProtocolMismatch)

	mustApply(t, g, 0, GoAnswer{Go: false})
	if !g.End() || g.Winner() != 0 {
		t.Fatalf("End=%v Winner=%d, want stop by player 0", g.End(), g.Winner())
	}
	// three lights against a loser with none: gwang-bak doubles
	if g.Score(0) != 6 || g.Payment(1) != 6 {
		t.Errorf("Score(0)=%d Payment(1)=%d, want 6 and 6", g.Score(0), g.Payment(1))
	}
	// the loser's last pi moves to the winner
	if !g.Players[0].Hand.Has(Sep1) || g.Players[1].Hand.Has(Sep1) {
		t.Errorf("Sep1 not transferred: %v / %v", g.Players[0].Hand, g.Players[1].Hand)
	}
	wantRejected(t, g, 1, ThrowAnswer{Card: Sep1}, ErrIllegalAction)
}

// TestGoThenExhaustion lets the go caller win when the hand runs out.
func TestGoThenExhaustion(t *testing.T) {
	g := arrange(t, stopLayout([]Card{AugLight}))
	mustApply(t, g, 0, ThrowAnswer{Card: AugLight})
	mustApply(t, g, 0, FlipAnswer{})
	mustApply(t, g, 0, GoAnswer{Go: true})

	ps := &g.Players[0]
	if ps.GoCount != 1 || ps.LastGoScore != 3 || g.Leader != 0 {
		t.Fatalf("GoCount=%d LastGoScore=%d Leader=%d", ps.GoCount, ps.LastGoScore, g.Leader)
	}
	wantQuestion(t, g, QuestionWhichCardToThrow, 1)

	mustApply(t, g, 1, ThrowAnswer{Card: Sep1})
	mustApply(t, g, 1, FlipAnswer{})

	if !g.End() || g.Winner() != 0 {
		t.Fatalf("End=%v Winner=%d, want player 0 to win on exhaustion", g.End(), g.Winner())
	}
	// (3 + 1 go) doubled for gwang-bak
	if g.Score(0) != 8 {
		t.Errorf("Score(0) = %d, want 8", g.Score(0))
	}
}

// TestNoGoAskedBelowLastGoScore verifies go is only offered on a new best.
func TestNoGoAskedBelowLastGoScore(t *testing.T) {
	g := arrange(t, stopLayout([]Card{AugLight, Jun1}))
	g.Players[0].LastGoScore = 3
	mustApply(t, g, 0, ThrowAnswer{Card: AugLight})
	mustApply(t, g, 0, FlipAnswer{})
	wantQuestion(t, g, QuestionWhichCardToThrow, 1)
}

// TestAutoStopWhenOpponentCannotPlay ends the hand without asking.
func TestAutoStopWhenOpponentCannotPlay(t *testing.T) {
	l := stopLayout([]Card{AugLight})
	l.hands[1] = nil
	l.acquired = append(l.acquired, []Card{Sep1})
	g := arrange(t, l)
	mustApply(t, g, 0, ThrowAnswer{Card: AugLight})
	mustApply(t, g, 0, FlipAnswer{})

	if !g.End() || g.Winner() != 0 || g.LastTurn.Events&EventStop == 0 {
		t.Fatalf("End=%v Winner=%d events=%b, want automatic stop", g.End(), g.Winner(), g.LastTurn.Events)
	}
}

// TestNagariWithoutLeader ends a hand nobody scored in as a draw.
func TestNagariWithoutLeader(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{Jan1}, {Feb1}},
		board:   []Card{Apr1},
		deckTop: []Card{Oct1, Oct2},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})
	mustApply(t, g, 0, FlipAnswer{})
	mustApply(t, g, 1, ThrowAnswer{Card: Feb1})
	mustApply(t, g, 1, FlipAnswer{})

	if !g.End() || !g.IsNagari() || g.Winner() != -1 {
		t.Fatalf("End=%v Nagari=%v Winner=%d, want a drawn hand", g.End(), g.IsNagari(), g.Winner())
	}
	if g.Score(0) != 0 || g.Score(1) != 0 {
		t.Errorf("scores = %d/%d, want 0/0", g.Score(0), g.Score(1))
	}
}

// TestSettlePenalties stacks back-do, pi-bak and gwang-bak.
func TestSettlePenalties(t *testing.T) {
	g := arrange(t, layout{
		hands:    [][]Card{{Jun1}, {NovDouble, Jun2, NovLight}},
		acquired: [][]Card{append([]Card{JanLight, MarLight, AugLight}, tenPi...), {Sep1}},
		board:    []Card{Oct1},
	})
	g.Players[1].GoCount = 1
	g.settle(0)

	// raw 3 lights + 1 pi = 4, x2 back-do, x2 pi-bak, x2 gwang-bak
	if g.Payment(1) != 32 || g.Score(0) != 32 {
		t.Errorf("Payment(1)=%d Score(0)=%d, want 32", g.Payment(1), g.Score(0))
	}
	// The 1-point Jun2 moves ahead of the 2-point NovDouble.
	if g.Players[0].Hand != SetOf(Jun1, Jun2) || g.Players[1].Hand != SetOf(NovDouble, NovLight) {
		t.Errorf("transfer: winner hand %v, loser hand %v", g.Players[0].Hand, g.Players[1].Hand)
	}
	g.checkPartition()
}

// TestSettlePenaltiesDisabled turns every penalty off.
func TestSettlePenaltiesDisabled(t *testing.T) {
	r := testRules()
	r.BackDo, r.PiBak, r.GwangBak = false, false, false
	g := arrangeWith(t, r, layout{
		hands:    [][]Card{{Jun1}, {Jun2}},
		acquired: [][]Card{append([]Card{JanLight, MarLight, AugLight}, tenPi...), {Sep1}},
		board:    []Card{Oct1},
	})
	g.Players[1].GoCount = 1
	g.settle(0)
	if g.Payment(1) != 4 {
		t.Errorf("Payment(1) = %d, want 4", g.Payment(1))
	}
}

func TestLowestPi(t *testing.T) {
	tests := []struct {
		set  CardSet
		want Card
	}{
		{SetOf(JanLight, JulPig), EmptyCard},
		{SetOf(NovDouble, JokerTriple), NovDouble},
		{SetOf(JokerTriple, DecDoor, Oct2), Oct2},
		{SetOf(JokerTriple), JokerTriple},
	}
	for _, tt := range tests {
		if got := lowestPi(tt.set); got != tt.want {
			t.Errorf("lowestPi(%v) = %v, want %v", tt.set, got, tt.want)
		}
	}
}

// TestGameStateHashDeterminism verifies identical states hash alike.
func TestGameStateHashDeterminism(t *testing.T) {
	a := arrangeWith(t, DefaultHouseRules(), layout{
		hands: [][]Card{{Jan1}, {Feb1}},
		board: []Card{Apr1},
	})
	b := *a
	if a.GameStateHash() != b.GameStateHash() {
		t.Fatal("copies hash differently")
	}
	mustApply(t, &b, 0, DoublePiAnswer{Use: true})
	if a.GameStateHash() == b.GameStateHash() {
		t.Fatal("hash ignored an applied answer")
	}

	edits := map[string]func(g *GameState){
		"pending from deck": func(g *GameState) { g.Pending.FromDeck = true },
		"scores":            func(g *GameState) { g.Scores[0] = 7 },
		"payments":          func(g *GameState) { g.Payments[1] = 7 },
		"last turn":         func(g *GameState) { g.LastTurn.Stolen = SetOf(Jan1) },
		"rules":             func(g *GameState) { g.Rules.PiSteal = !g.Rules.PiSteal },
	}
	for name, edit := range edits {
		c := *a
		edit(&c)
		if c.GameStateHash() == a.GameStateHash() {
			t.Errorf("hash ignored a change to %s", name)
		}
	}
}
