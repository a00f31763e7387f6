package engine

import "testing"

// TestThrowPlacesUnmatched verifies a card with no month partner stays on the board.
func TestThrowPlacesUnmatched(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{Jan1, Feb1}, {Mar1}},
		board:   []Card{Apr1},
		deckTop: []Card{Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})

	if !g.Board.Has(Jan1) || g.Players[0].Hand.Has(Jan1) {
		t.Fatalf("Jan1 should move from hand to board, board=%v", g.Board)
	}
	if !g.LastTurn.Placed {
		t.Error("LastTurn.Placed = false")
	}
	wantQuestion(t, g, QuestionPickFromDeck, 0)
}

// TestThrowCapturesSingleMatch verifies the thrown card and its partner are acquired.
func TestThrowCapturesSingleMatch(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{JanLight, Feb1}, {Mar1}},
		board:   []Card{Jan1, Apr1},
		deckTop: []Card{Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: JanLight})

	if want := SetOf(JanLight, Jan1); g.Players[0].Acquired != want {
		t.Errorf("acquired = %v, want %v", g.Players[0].Acquired, want)
	}
	if g.Board != SetOf(Apr1) {
		t.Errorf("board = %v, want [Apr1]", g.Board)
	}
}

// TestThrowTwoMatchesRaisesPick throws the January light at the two January
// pi and resolves with each candidate.
func TestThrowTwoMatchesRaisesPick(t *testing.T) {
	for _, choice := range []Card{Jan1, Jan2} {
		t.Run(choice.String(), func(t *testing.T) {
			g := arrange(t, layout{
				hands:   [][]Card{{JanLight, Feb1}, {Mar1}},
				board:   []Card{Jan1, Jan2, Apr1},
				deckTop: []Card{Oct1},
			})
			mustApply(t, g, 0, ThrowAnswer{Card: JanLight})

			wantQuestion(t, g, QuestionWhichCardToPick, 0)
			q := g.Question().(WhichCardToPick)
			if q.Source != JanLight || q.Candidates != [2]Card{Jan1, Jan2} || q.FromDeck {
				t.Fatalf("question = %#v", q)
			}
			wantRejected(t, g, 0, PickAnswer{Card: Apr1}, ErrIllegalAction)
			wantRejected(t, g, 0, FlipAnswer{}, ErrProtocolMismatch)

			mustApply(t, g, 0, PickAnswer{Card: choice})
			other := Jan1
			if choice == Jan1 {
				other = Jan2
			}
			if want := SetOf(JanLight, choice); g.Players[0].Acquired != want {
				t.Errorf("acquired = %v, want %v", g.Players[0].Acquired, want)
			}
			if !g.Board.Has(other) || g.Board.Has(choice) || g.Board.Has(JanLight) {
				t.Errorf("board = %v, want %v left", g.Board, other)
			}
			wantQuestion(t, g, QuestionPickFromDeck, 0)
		})
	}
}

// TestThrowThreeMatchesSweeps verifies the thrown card takes the whole month.
func TestThrowThreeMatchesSweeps(t *testing.T) {
	g := arrange(t, layout{
		hands:    [][]Card{{JanLight, Feb1}, {Mar1}},
		acquired: [][]Card{nil, {Apr1, NovDouble}},
		board:    []Card{JanRedFlag, Jan1, Jan2},
		deckTop:  []Card{Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: JanLight})

	acq := g.Players[0].Acquired
	if acq.CountMonth(1) != 4 || g.Board.CountMonth(1) != 0 {
		t.Fatalf("acquired = %v, board = %v, want all of January taken", acq, g.Board)
	}
	if g.LastTurn.Events&EventSweep == 0 {
		t.Error("sweep event not recorded")
	}
	// the opponent's cheapest pi is taken
	if !acq.Has(Apr1) || g.Players[1].Acquired != SetOf(NovDouble) {
		t.Errorf("steal: acquired=%v opponent=%v", acq, g.Players[1].Acquired)
	}
}

// TestFlipResolvesAgainstBoard verifies the deck card captures and the turn passes.
func TestFlipResolvesAgainstBoard(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{Jan1, Mar2}, {Mar1}},
		board:   []Card{FebBird, Apr1},
		deckTop: []Card{Feb1, Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})
	mustApply(t, g, 0, FlipAnswer{})

	if want := SetOf(FebBird, Feb1); g.Players[0].Acquired != want {
		t.Errorf("acquired = %v, want %v", g.Players[0].Acquired, want)
	}
	if g.LastTurn.Flipped != Feb1 {
		t.Errorf("LastTurn.Flipped = %v, want Feb1", g.LastTurn.Flipped)
	}
	wantQuestion(t, g, QuestionWhichCardToThrow, 1)
	if g.TurnPlayer() != 1 || g.TurnNumber != 1 {
		t.Errorf("turn = %d (number %d), want player 1 on turn 1", g.TurnPlayer(), g.TurnNumber)
	}
}

// TestFlipTwoMatchesRaisesPick verifies the deck card can also be ambiguous.
func TestFlipTwoMatchesRaisesPick(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{Jan1, Mar2}, {Mar1}},
		board:   []Card{Aug1, Aug2, Apr1},
		deckTop: []Card{AugLight, Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})
	mustApply(t, g, 0, FlipAnswer{})

	wantQuestion(t, g, QuestionWhichCardToPick, 0)
	if q := g.Question().(WhichCardToPick); !q.FromDeck || q.Source != AugLight {
		t.Fatalf("question = %#v, want deck pick for AugLight", q)
	}
	mustApply(t, g, 0, PickAnswer{Card: Aug2})

	if want := SetOf(AugLight, Aug2); g.Players[0].Acquired != want {
		t.Errorf("acquired = %v, want %v", g.Players[0].Acquired, want)
	}
	wantQuestion(t, g, QuestionWhichCardToThrow, 1)
}

// TestKissStealsPi flips the partner of the card just placed.
func TestKissStealsPi(t *testing.T) {
	g := arrange(t, layout{
		hands:    [][]Card{{Jan1, Mar2}, {Mar1}},
		acquired: [][]Card{nil, {Sep1}},
		board:    []Card{Apr1},
		deckTop:  []Card{Jan2, Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})
	mustApply(t, g, 0, FlipAnswer{})

	if want := SetOf(Jan1, Jan2, Sep1); g.Players[0].Acquired != want {
		t.Errorf("acquired = %v, want %v", g.Players[0].Acquired, want)
	}
	if g.LastTurn.Events&EventKiss == 0 {
		t.Error("kiss event not recorded")
	}
	if g.LastTurn.Stolen != SetOf(Sep1) {
		t.Errorf("stolen = %v, want [Sep1]", g.LastTurn.Stolen)
	}
}

// TestPiStealDisabled verifies the house rule switch.
func TestPiStealDisabled(t *testing.T) {
	r := testRules()
	r.PiSteal = false
	g := arrangeWith(t, r, layout{
		hands:    [][]Card{{Jan1, Mar2}, {Mar1}},
		acquired: [][]Card{nil, {Sep1}},
		board:    []Card{Apr1},
		deckTop:  []Card{Jan2, Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})
	mustApply(t, g, 0, FlipAnswer{})
	if g.Players[1].Acquired != SetOf(Sep1) {
		t.Errorf("opponent acquired = %v, want [Sep1] untouched", g.Players[1].Acquired)
	}
}

// TestBoardClearStealsPi empties the board in one turn.
func TestBoardClearStealsPi(t *testing.T) {
	g := arrange(t, layout{
		hands:    [][]Card{{JanLight, Mar2}, {Mar1}},
		acquired: [][]Card{nil, {Sep1, Sep2}},
		board:    []Card{Jan1, FebBird},
		deckTop:  []Card{Feb1, Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: JanLight})
	mustApply(t, g, 0, FlipAnswer{})

	if !g.Board.Empty() {
		t.Fatalf("board = %v, want empty", g.Board)
	}
	if g.LastTurn.Events&EventClear == 0 {
		t.Error("clear event not recorded")
	}
	if g.Players[1].Acquired.Len() != 1 || g.Players[0].Acquired.Len() != 5 {
		t.Errorf("acquired = %v / %v, want one pi moved", g.Players[0].Acquired, g.Players[1].Acquired)
	}
}

// TestFlippedJokerIsAcquired verifies a joker off the deck goes to the
// player and the next card is flipped.
func TestFlippedJokerIsAcquired(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{Jan1, Mar2}, {Mar1}},
		board:   []Card{FebBird, Apr1},
		deckTop: []Card{JokerDouble1, Feb1, Oct1},
	})
	mustApply(t, g, 0, ThrowAnswer{Card: Jan1})
	mustApply(t, g, 0, FlipAnswer{})

	if want := SetOf(JokerDouble1, FebBird, Feb1); g.Players[0].Acquired != want {
		t.Errorf("acquired = %v, want %v", g.Players[0].Acquired, want)
	}
}

// TestThrownJokerDrawsReplacement verifies a joker from hand scores and is
// replaced while the throw question stays open.
func TestThrownJokerDrawsReplacement(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{JokerTriple, Mar2}, {Mar1}},
		board:   []Card{Apr1},
		deckTop: []Card{May1, Oct1},
	})
	deck := g.DeckSize()
	mustApply(t, g, 0, ThrowAnswer{Card: JokerTriple})

	if !g.Players[0].Acquired.Has(JokerTriple) {
		t.Error("joker not acquired")
	}
	if !g.Players[0].Hand.Has(May1) || g.DeckSize() != deck-1 {
		t.Errorf("hand = %v, deck = %d, want May1 drawn", g.Players[0].Hand, g.DeckSize())
	}
	wantQuestion(t, g, QuestionWhichCardToThrow, 0)
	wantRejected(t, g, 0, ThrowAnswer{Card: JokerDouble1}, ErrIllegalAction)
}

// TestThrowRejections covers wrong player, wrong shape and unowned cards.
func TestThrowRejections(t *testing.T) {
	g := arrange(t, layout{
		hands:   [][]Card{{Jan1, Mar2}, {Mar1}},
		board:   []Card{Apr1},
		deckTop: []Card{Oct1},
	})
	wantRejected(t, g, 1, ThrowAnswer{Card: Mar1}, ErrIllegalAction)
	wantRejected(t, g, 0, ThrowAnswer{Card: Mar1}, ErrIllegalAction)
	wantRejected(t, g, 0, FlipAnswer{}, ErrProtocolMismatch)
	wantRejected(t, g, 0, nil, ErrProtocolMismatch)
	wantRejected(t, g, 0, &ThrowAnswer{Card: Jan1}, ErrProtocolMismatch)
	wantRejected(t, g, 0, ThrowAnswer{Card: Bomb}, ErrIllegalAction)
	wantRejected(t, g, 0, ThrowAnswer{Card: Jan1, Shake: true}, ErrIllegalAction)
	wantRejected(t, g, 0, ThrowAnswer{Card: Jan1, Bomb: true}, ErrIllegalAction)
}
