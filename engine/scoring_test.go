package engine

import "testing"

var tenPi = []Card{Jan1, Jan2, Feb1, Feb2, Mar1, Mar2, Apr1, Apr2, May1, May2}

// TestBreakdown scores acquired piles directly.
func TestBreakdown(t *testing.T) {
	tests := []struct {
		name     string
		acquired []Card
		doublePi bool
		noRain   bool // disable the rain-light rule
		wantRaw  int
	}{
		{"nothing", nil, false, false, 0},
		{"three lights", []Card{JanLight, MarLight, AugLight}, false, false, 3},
		{"three lights with rain", []Card{JanLight, MarLight, DecLight}, false, false, 2},
		{"three lights with rain, rule off", []Card{JanLight, MarLight, DecLight}, false, true, 3},
		{"four lights", []Card{JanLight, MarLight, AugLight, DecLight}, false, false, 4},
		{"five lights", []Card{JanLight, MarLight, AugLight, NovLight, DecLight}, false, false, 15},
		{"ten pi", tenPi, false, false, 1},
		{"twelve pi", append([]Card{NovDouble}, tenPi...), false, false, 3},
		{"five animals", []Card{MayBridge, JunButterfly, JulPig, OctDeer, DecBird}, false, false, 1},
		{"godori", []Card{FebBird, AprBird, AugBird}, false, false, 5},
		{"godori and five animals", []Card{FebBird, AprBird, AugBird, MayBridge, JunButterfly, JulPig, OctDeer, DecBird}, false, false, 6},
		{"red ribbons", []Card{JanRedFlag, FebRedFlag, MarRedFlag}, false, false, 3},
		{"blue ribbons", []Card{JunBlueFlag, SepBlueFlag, OctBlueFlag}, false, false, 3},
		{"plain ribbons", []Card{AprFlag, MayFlag, JulFlag}, false, false, 3},
		{"five ribbons", []Card{JanRedFlag, FebRedFlag, MarRedFlag, AprFlag, DecFlag}, false, false, 4},
		{"flask as animal", append([]Card{SepFlask}, tenPi[:9]...), false, false, 0},
		{"flask as double pi", append([]Card{SepFlask}, tenPi[:9]...), true, false, 2},
		{"jokers", []Card{JokerDouble1, JokerDouble2, JokerTriple, Jan1, Jan2, Feb1}, false, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRules()
			r.RainLightRule = !tt.noRain
			g, _ := NewGame(1, r)
			g.Players[0].Acquired = SetOf(tt.acquired...)
			g.Players[0].UseDoublePi = tt.doublePi
			b := g.Breakdown(0)
			if b.Raw != tt.wantRaw {
				t.Errorf("Raw = %d, want %d (%+v)", b.Raw, tt.wantRaw, b)
			}
		})
	}
}

// TestBreakdownGodoriAnimals verifies godori birds leave the animal tally.
func TestBreakdownGodoriAnimals(t *testing.T) {
	g, _ := NewGame(1, testRules())
	g.Players[0].Acquired = SetOf(FebBird, AprBird, AugBird, MayBridge)
	b := g.Breakdown(0)
	if !b.Godori || b.Animals != 1 || b.AnimalCards != 4 {
		t.Errorf("Godori=%v Animals=%d AnimalCards=%d, want true 1 4", b.Godori, b.Animals, b.AnimalCards)
	}
}

// TestRunningScoreGo checks the go bonus and doubling from the third go.
func TestRunningScoreGo(t *testing.T) {
	want := []int{3, 4, 5, 10, 20}
	for gos, w := range want {
		g, _ := NewGame(1, testRules())
		g.Players[0].Acquired = SetOf(JanLight, MarLight, AugLight)
		g.Players[0].GoCount = uint8(gos)
		if got := g.runningScore(0); got != w {
			t.Errorf("%d go: runningScore = %d, want %d", gos, got, w)
		}
	}
}

// TestRunningScoreBoosters checks shake, bomb, president and mung-bak.
func TestRunningScoreBoosters(t *testing.T) {
	g, _ := NewGame(1, testRules())
	ps := &g.Players[0]
	ps.Acquired = SetOf(JanLight, MarLight, AugLight)

	ps.ShakeCount = 1
	ps.BombCount = 1
	if got := g.runningScore(0); got != 12 {
		t.Errorf("shake+bomb: runningScore = %d, want 12", got)
	}
	ps.ShakeCount, ps.BombCount, ps.PresidentCount = 0, 0, 1
	if got := g.runningScore(0); got != 12 {
		t.Errorf("president: runningScore = %d, want 12", got)
	}

	ps.PresidentCount = 0
	ps.Acquired = SetOf(FebBird, MayBridge, JunButterfly, JulPig, SepFlask, OctDeer, DecBird)
	// seven animals score 3, doubled
	if got := g.runningScore(0); got != 6 {
		t.Errorf("mung-bak: runningScore = %d, want 6", got)
	}
	g.Rules.MungBak = false
	if got := g.runningScore(0); got != 3 {
		t.Errorf("mung-bak off: runningScore = %d, want 3", got)
	}
}
