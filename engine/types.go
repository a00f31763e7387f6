package engine

import "fmt"

// Card is a type tag into the card catalog. Month cards are laid out four
// per month in calendar order, so the month of a month card is tag/4 + 1.
type Card uint8

const (
	JanLight Card = iota
	JanRedFlag
	Jan1
	Jan2

	FebBird
	FebRedFlag
	Feb1
	Feb2

	MarLight
	MarRedFlag
	Mar1
	Mar2

	AprBird
	AprFlag
	Apr1
	Apr2

	MayBridge
	MayFlag
	May1
	May2

	JunButterfly
	JunBlueFlag
	Jun1
	Jun2

	JulPig
	JulFlag
	Jul1
	Jul2

	AugLight
	AugBird
	Aug1
	Aug2

	SepFlask
	SepBlueFlag
	Sep1
	Sep2

	OctDeer
	OctBlueFlag
	Oct1
	Oct2

	NovLight
	NovDouble
	Nov1
	Nov2

	DecLight
	DecBird
	DecFlag
	DecDoor

	// bonus cards
	JokerDouble1
	JokerDouble2
	JokerTriple

	// virtual card thrown to spend a bomb token
	Bomb

	NumCardTypes
)

const (
	NumMonthCards = 48
	NumMonths     = 12
)

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// Properties are the fixed catalog attributes of a card type.
type Properties struct {
	Month    uint8 // 1-12; 0 for jokers and the bomb marker
	Score    uint8 // pi value
	Light    bool
	SubLight bool // the rain light
	Animal   bool
	Bird     bool // counts toward godori
	Flag     bool // plain ribbon
	BlueFlag bool
	RedFlag  bool
	Bomb     bool
	Joker    bool
}

// Ribbon reports whether the card is any kind of ribbon.
func (p Properties) Ribbon() bool { return p.Flag || p.BlueFlag || p.RedFlag }

// Pi reports whether the card is worth pi points.
func (p Properties) Pi() bool { return p.Score > 0 }

var catalog = [NumCardTypes]Properties{
	JanLight:   {Month: 1, Light: true},
	JanRedFlag: {Month: 1, RedFlag: true},
	Jan1:       {Month: 1, Score: 1},
	Jan2:       {Month: 1, Score: 1},

	FebBird:    {Month: 2, Animal: true, Bird: true},
	FebRedFlag: {Month: 2, RedFlag: true},
	Feb1:       {Month: 2, Score: 1},
	Feb2:       {Month: 2, Score: 1},

	MarLight:   {Month: 3, Light: true},
	MarRedFlag: {Month: 3, RedFlag: true},
	Mar1:       {Month: 3, Score: 1},
	Mar2:       {Month: 3, Score: 1},

	AprBird: {Month: 4, Animal: true, Bird: true},
	AprFlag: {Month: 4, Flag: true},
	Apr1:    {Month: 4, Score: 1},
	Apr2:    {Month: 4, Score: 1},

	MayBridge: {Month: 5, Animal: true},
	MayFlag:   {Month: 5, Flag: true},
	May1:      {Month: 5, Score: 1},
	May2:      {Month: 5, Score: 1},

	JunButterfly: {Month: 6, Animal: true},
	JunBlueFlag:  {Month: 6, BlueFlag: true},
	Jun1:         {Month: 6, Score: 1},
	Jun2:         {Month: 6, Score: 1},

	JulPig:  {Month: 7, Animal: true},
	JulFlag: {Month: 7, Flag: true},
	Jul1:    {Month: 7, Score: 1},
	Jul2:    {Month: 7, Score: 1},

	AugLight: {Month: 8, Light: true},
	AugBird:  {Month: 8, Animal: true, Bird: true},
	Aug1:     {Month: 8, Score: 1},
	Aug2:     {Month: 8, Score: 1},

	SepFlask:    {Month: 9, Animal: true},
	SepBlueFlag: {Month: 9, BlueFlag: true},
	Sep1:        {Month: 9, Score: 1},
	Sep2:        {Month: 9, Score: 1},

	OctDeer:     {Month: 10, Animal: true},
	OctBlueFlag: {Month: 10, BlueFlag: true},
	Oct1:        {Month: 10, Score: 1},
	Oct2:        {Month: 10, Score: 1},

	NovLight:  {Month: 11, Light: true},
	NovDouble: {Month: 11, Score: 2},
	Nov1:      {Month: 11, Score: 1},
	Nov2:      {Month: 11, Score: 1},

	DecLight: {Month: 12, Light: true, SubLight: true},
	DecBird:  {Month: 12, Animal: true},
	DecFlag:  {Month: 12, Flag: true},
	DecDoor:  {Month: 12, Score: 2},

	JokerDouble1: {Score: 2, Joker: true},
	JokerDouble2: {Score: 2, Joker: true},
	JokerTriple:  {Score: 3, Joker: true},

	Bomb: {Bomb: true},
}

var cardNames = [NumCardTypes]string{
	"JanLight", "JanRedFlag", "Jan1", "Jan2",
	"FebBird", "FebRedFlag", "Feb1", "Feb2",
	"MarLight", "MarRedFlag", "Mar1", "Mar2",
	"AprBird", "AprFlag", "Apr1", "Apr2",
	"MayBridge", "MayFlag", "May1", "May2",
	"JunButterfly", "JunBlueFlag", "Jun1", "Jun2",
	"JulPig", "JulFlag", "Jul1", "Jul2",
	"AugLight", "AugBird", "Aug1", "Aug2",
	"SepFlask", "SepBlueFlag", "Sep1", "Sep2",
	"OctDeer", "OctBlueFlag", "Oct1", "Oct2",
	"NovLight", "NovDouble", "Nov1", "Nov2",
	"DecLight", "DecBird", "DecFlag", "DecDoor",
	"JokerDouble1", "JokerDouble2", "JokerTriple",
	"Bomb",
}

// Prop returns the catalog properties of a card type.
// Unknown tags (including EmptyCard) have zero properties.
func Prop(c Card) Properties {
	if c >= NumCardTypes {
		return Properties{}
	}
	return catalog[c]
}

// Prop returns the catalog properties of c.
func (c Card) Prop() Properties { return Prop(c) }

// Month returns the card's month, 0 for jokers and the bomb marker.
func (c Card) Month() uint8 { return Prop(c).Month }

// IsJoker reports whether c is one of the bonus cards.
func (c Card) IsJoker() bool { return Prop(c).Joker }

// Matched reports whether c and other share a month in 1–12.
func (c Card) Matched(other Card) bool {
	m := c.Month()
	return m >= 1 && m <= NumMonths && m == other.Month()
}

// Valid reports whether c is a catalog tag.
func (c Card) Valid() bool { return c < NumCardTypes }

func (c Card) String() string {
	if c == EmptyCard {
		return "Empty"
	}
	if c >= NumCardTypes {
		return fmt.Sprintf("Card(%d)", uint8(c))
	}
	return cardNames[c]
}

// ParseCard returns the card with the given catalog name.
func ParseCard(name string) (Card, error) {
	if name == "Empty" {
		return EmptyCard, nil
	}
	for i, n := range cardNames {
		if n == name {
			return Card(i), nil
		}
	}
	return EmptyCard, fmt.Errorf("unknown card %q", name)
}

// MarshalText encodes the card as its catalog name.
func (c Card) MarshalText() ([]byte, error) {
	if c != EmptyCard && c >= NumCardTypes {
		return nil, fmt.Errorf("invalid card tag %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a catalog name.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MonthCards returns the four cards of month m in catalog order.
func MonthCards(m uint8) [4]Card {
	base := Card((m - 1) * 4)
	return [4]Card{base, base + 1, base + 2, base + 3}
}
