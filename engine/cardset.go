package engine

import (
	"encoding/json"
	"math/bits"
)

// CardSet is an unordered collection of cards stored as a bitset over card
// tags. Iteration is always in tag order.
type CardSet uint64

// AllCards contains every catalog card, bomb marker included.
const AllCards CardSet = 1<<NumCardTypes - 1

// SetOf builds a CardSet from the given cards.
func SetOf(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

func monthMask(m uint8) CardSet {
	if m < 1 || m > NumMonths {
		return 0
	}
	return CardSet(0xF) << (uint(m-1) * 4)
}

// Has reports whether c is in the set.
func (s CardSet) Has(c Card) bool { return c < NumCardTypes && s&(1<<c) != 0 }

// Add inserts c.
func (s *CardSet) Add(c Card) { *s |= 1 << c }

// Remove deletes c.
func (s *CardSet) Remove(c Card) { *s &^= 1 << c }

// Len returns the number of cards in the set.
func (s CardSet) Len() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether the set has no cards.
func (s CardSet) Empty() bool { return s == 0 }

// Union returns s ∪ o.
func (s CardSet) Union(o CardSet) CardSet { return s | o }

// Intersect returns s ∩ o.
func (s CardSet) Intersect(o CardSet) CardSet { return s & o }

// Minus returns s \ o.
func (s CardSet) Minus(o CardSet) CardSet { return s &^ o }

// OfMonth returns the cards of month m in s.
func (s CardSet) OfMonth(m uint8) CardSet { return s & monthMask(m) }

// CountMonth returns how many cards of month m are in s.
func (s CardSet) CountMonth(m uint8) int { return s.OfMonth(m).Len() }

// First returns the lowest tag in s, or EmptyCard if s is empty.
func (s CardSet) First() Card {
	if s == 0 {
		return EmptyCard
	}
	return Card(bits.TrailingZeros64(uint64(s)))
}

// Cards returns the members of s in tag order. Never nil.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Len())
	for rest := s; rest != 0; rest &= rest - 1 {
		out = append(out, Card(bits.TrailingZeros64(uint64(rest))))
	}
	return out
}

// Filter returns the members of s for which keep returns true.
func (s CardSet) Filter(keep func(Card) bool) CardSet {
	var out CardSet
	for rest := s; rest != 0; rest &= rest - 1 {
		c := Card(bits.TrailingZeros64(uint64(rest)))
		if keep(c) {
			out.Add(c)
		}
	}
	return out
}

func (s CardSet) String() string {
	b, _ := json.Marshal(s)
	return string(b)
}

// MarshalJSON encodes the set as a list of card names.
func (s CardSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Cards()) }

// UnmarshalJSON decodes a list of card names.
func (s *CardSet) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	*s = SetOf(cards...)
	return nil
}
