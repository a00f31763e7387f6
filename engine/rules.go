package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	NumPlayers uint8 // 2 or 3; 0 treated as 2

	GoThreshold     uint8 // minimum raw score before go/stop is asked
	PiThreshold     uint8 // pi value at which pi starts scoring (count - PiThreshold + 1)
	AnimalThreshold uint8
	RibbonThreshold uint8
	SetBonus        uint8 // red, blue and plain ribbon sets
	GodoriBonus     uint8
	FiveLightScore  uint8
	RainLightRule   bool // three lights including the rain light score one less

	GoBonus        uint8 // points added per go before doubling starts
	GoDoublingFrom uint8 // the n-th go and every go after it doubles the score

	BackDo         bool // loser who had called go pays double
	PiBak          bool
	PiBakMax       uint8 // loser holding 1..PiBakMax pi is pi-bak
	GwangBak       bool
	MungBak        bool
	MungBakAnimals uint8

	PresidentStopScore  uint8
	BoardPresidentScore uint8
	PresidentTokens     uint8 // bomb tokens granted for continuing after a president

	AskDoublePi bool // ask each player whether the Sep flask counts as double pi
	PiSteal     bool // kiss, sweep, board clear and bomb take a pi from each opponent
}

// DefaultHouseRules returns the standard Matgo house rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		NumPlayers:          2,
		GoThreshold:         3,
		PiThreshold:         10,
		AnimalThreshold:     5,
		RibbonThreshold:     5,
		SetBonus:            3,
		GodoriBonus:         5,
		FiveLightScore:      15,
		RainLightRule:       true,
		GoBonus:             1,
		GoDoublingFrom:      3,
		BackDo:              true,
		PiBak:               true,
		PiBakMax:            5,
		GwangBak:            true,
		MungBak:             true,
		MungBakAnimals:      7,
		PresidentStopScore:  7,
		BoardPresidentScore: 3,
		PresidentTokens:     4,
		AskDoublePi:         true,
		PiSteal:             true,
	}
}

// numPlayers returns the effective number of players, treating 0 as 2.
func (r *HouseRules) numPlayers() uint8 {
	if r.NumPlayers == 0 {
		return 2
	}
	return r.NumPlayers
}

// handSize and boardSize return the deal counts for the player count.
func (r *HouseRules) handSize() int {
	if r.numPlayers() == 3 {
		return 7
	}
	return 10
}

func (r *HouseRules) boardSize() int {
	if r.numPlayers() == 3 {
		return 6
	}
	return 8
}
