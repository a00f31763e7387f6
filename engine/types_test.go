package engine

import (
	"encoding/json"
	"testing"
)

// TestCatalogMonths verifies month cards are laid out four per month and
// bonus cards have no month.
func TestCatalogMonths(t *testing.T) {
	for c := Card(0); c < NumMonthCards; c++ {
		want := uint8(c)/4 + 1
		if got := c.Month(); got != want {
			t.Errorf("%v.Month() = %d, want %d", c, got, want)
		}
	}
	for _, c := range []Card{JokerDouble1, JokerDouble2, JokerTriple, Bomb, EmptyCard} {
		if m := c.Month(); m != 0 {
			t.Errorf("%v.Month() = %d, want 0", c, m)
		}
	}
	if !Bomb.Prop().Bomb {
		t.Error("Bomb marker missing bomb flag")
	}
}

// TestCatalogCounts verifies the role totals of the 48 month cards.
func TestCatalogCounts(t *testing.T) {
	var lights, subLights, animals, birds, ribbons, red, blue, plain, pi int
	for c := Card(0); c < NumMonthCards; c++ {
		p := c.Prop()
		if p.Light {
			lights++
		}
		if p.SubLight {
			subLights++
		}
		if p.Animal {
			animals++
		}
		if p.Bird {
			birds++
		}
		if p.Ribbon() {
			ribbons++
		}
		if p.RedFlag {
			red++
		}
		if p.BlueFlag {
			blue++
		}
		if p.Flag {
			plain++
		}
		pi += int(p.Score)
		if p.Joker || p.Bomb {
			t.Errorf("%v flagged as bonus card", c)
		}
	}
	checks := []struct {
		name      string
		got, want int
	}{
		{"lights", lights, 5},
		{"sub-lights", subLights, 1},
		{"animals", animals, 9},
		{"birds", birds, 3},
		{"ribbons", ribbons, 10},
		{"red ribbons", red, 3},
		{"blue ribbons", blue, 3},
		{"plain ribbons", plain, 4},
		{"pi value", pi, 26},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	var jokerPi int
	for _, c := range []Card{JokerDouble1, JokerDouble2, JokerTriple} {
		if !c.IsJoker() {
			t.Errorf("%v is not a joker", c)
		}
		jokerPi += int(c.Prop().Score)
	}
	if jokerPi != 7 {
		t.Errorf("joker pi value = %d, want 7", jokerPi)
	}
}

func TestMatched(t *testing.T) {
	tests := []struct {
		a, b Card
		want bool
	}{
		{JanLight, Jan1, true},
		{Jan1, Jan2, true},
		{Jan1, Feb1, false},
		{DecLight, DecDoor, true},
		{JokerDouble1, JokerDouble2, false},
		{JokerTriple, Jan1, false},
		{Bomb, Bomb, false},
	}
	for _, tt := range tests {
		if got := tt.a.Matched(tt.b); got != tt.want {
			t.Errorf("%v.Matched(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestCardTextRoundTrip verifies every card survives MarshalText/UnmarshalText.
func TestCardTextRoundTrip(t *testing.T) {
	for c := Card(0); c < NumCardTypes; c++ {
		text, err := c.MarshalText()
		if err != nil {
			t.Fatalf("%d MarshalText: %v", c, err)
		}
		var back Card
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != c {
			t.Errorf("round trip %v -> %q -> %v", c, text, back)
		}
	}
	if _, err := ParseCard("MarchHare"); err == nil {
		t.Error("ParseCard accepted an unknown name")
	}
	if _, err := Card(200).MarshalText(); err == nil {
		t.Error("MarshalText accepted an invalid tag")
	}
}

func TestCardSetMonthOps(t *testing.T) {
	s := SetOf(JanLight, Jan2, FebBird, DecDoor, JokerTriple)
	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
	if got := s.CountMonth(1); got != 2 {
		t.Errorf("CountMonth(1) = %d, want 2", got)
	}
	if got := s.OfMonth(12); got != SetOf(DecDoor) {
		t.Errorf("OfMonth(12) = %v", got)
	}
	if got := s.CountMonth(0); got != 0 {
		t.Errorf("CountMonth(0) = %d, want 0", got)
	}
	want := []Card{JanLight, Jan2, FebBird, DecDoor, JokerTriple}
	got := s.Cards()
	if len(got) != len(want) {
		t.Fatalf("Cards() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Cards()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if s.First() != JanLight {
		t.Errorf("First() = %v, want JanLight", s.First())
	}
	if CardSet(0).First() != EmptyCard {
		t.Error("First() of empty set should be EmptyCard")
	}
	s.Remove(Jan2)
	if s.Has(Jan2) {
		t.Error("Remove(Jan2) left the card in the set")
	}
}

func TestCardSetJSON(t *testing.T) {
	s := SetOf(MarLight, NovDouble)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["MarLight","NovDouble"]` {
		t.Errorf("Marshal = %s", data)
	}
	var back CardSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != s {
		t.Errorf("round trip = %v, want %v", back, s)
	}
	empty, _ := json.Marshal(CardSet(0))
	if string(empty) != "[]" {
		t.Errorf("empty set = %s, want []", empty)
	}
}
