package engine

// Named card sets that score a fixed bonus when all members are acquired.
var (
	redRibbonSet   = SetOf(JanRedFlag, FebRedFlag, MarRedFlag)
	blueRibbonSet  = SetOf(JunBlueFlag, SepBlueFlag, OctBlueFlag)
	plainRibbonSet = SetOf(AprFlag, MayFlag, JulFlag)
	godoriSet      = SetOf(FebBird, AprBird, AugBird)
)

// ScoreBreakdown itemizes a player's raw score.
type ScoreBreakdown struct {
	Lights      int  `json:"lights"`
	RainLight   bool `json:"rain_light"`
	Pi          int  `json:"pi"` // pi value, doubles and the flask counted
	Animals     int  `json:"animals"`
	AnimalCards int  `json:"animal_cards"` // animals including godori birds
	Ribbons     int  `json:"ribbons"`

	LightPoints  int `json:"light_points"`
	PiPoints     int `json:"pi_points"`
	AnimalPoints int `json:"animal_points"`
	RibbonPoints int `json:"ribbon_points"`

	RedRibbons   bool `json:"red_ribbons"`
	BlueRibbons  bool `json:"blue_ribbons"`
	PlainRibbons bool `json:"plain_ribbons"`
	Godori       bool `json:"godori"`
	SetPoints    int  `json:"set_points"`

	Raw int `json:"raw"`
}

// Breakdown computes the raw score of the player's acquired cards.
func (g *GameState) Breakdown(player uint8) ScoreBreakdown {
	var b ScoreBreakdown
	if player >= MaxPlayers {
		return b
	}
	ps := &g.Players[player]
	r := &g.Rules
	acq := ps.Acquired

	for _, c := range acq.Cards() {
		p := c.Prop()
		if p.Light {
			b.Lights++
			b.RainLight = b.RainLight || p.SubLight
		}
		if p.Animal {
			b.AnimalCards++
		}
		if p.Ribbon() {
			b.Ribbons++
		}
		b.Pi += int(p.Score)
	}
	if ps.UseDoublePi && acq.Has(SepFlask) {
		b.Pi += 2
		b.AnimalCards--
	}
	b.Animals = b.AnimalCards

	b.RedRibbons = acq&redRibbonSet == redRibbonSet
	b.BlueRibbons = acq&blueRibbonSet == blueRibbonSet
	b.PlainRibbons = acq&plainRibbonSet == plainRibbonSet
	b.Godori = acq&godoriSet == godoriSet
	if b.Godori {
		// godori birds score through the set only
		b.Animals -= godoriSet.Len()
	}

	switch {
	case b.Lights >= 5:
		b.LightPoints = int(r.FiveLightScore)
	case b.Lights == 4:
		b.LightPoints = 4
	case b.Lights == 3 && b.RainLight && r.RainLightRule:
		b.LightPoints = 2
	case b.Lights == 3:
		b.LightPoints = 3
	}
	b.PiPoints = overThreshold(b.Pi, r.PiThreshold)
	b.AnimalPoints = overThreshold(b.Animals, r.AnimalThreshold)
	b.RibbonPoints = overThreshold(b.Ribbons, r.RibbonThreshold)

	for _, done := range [...]bool{b.RedRibbons, b.BlueRibbons, b.PlainRibbons} {
		if done {
			b.SetPoints += int(r.SetBonus)
		}
	}
	if b.Godori {
		b.SetPoints += int(r.GodoriBonus)
	}

	b.Raw = b.LightPoints + b.PiPoints + b.AnimalPoints + b.RibbonPoints + b.SetPoints
	return b
}

// overThreshold scores one point at the threshold and one per card beyond.
func overThreshold(n int, threshold uint8) int {
	if threshold == 0 || n < int(threshold) {
		return 0
	}
	return n - int(threshold) + 1
}

// Booster returns the player's multiplier from shakes, bombs and presidents.
func (g *GameState) Booster(player uint8) int {
	ps := &g.Players[player]
	return 1 << (uint(ps.ShakeCount) + uint(ps.BombCount) + 2*uint(ps.PresidentCount))
}

// runningScore is what the player would collect from each opponent by
// stopping now, before per-loser penalties.
func (g *GameState) runningScore(player uint8) int {
	b := g.Breakdown(player)
	if b.Raw == 0 {
		return 0
	}
	ps := &g.Players[player]
	r := &g.Rules

	s := b.Raw
	gos := int(ps.GoCount)
	bonusGos := gos
	if from := int(r.GoDoublingFrom); from > 0 && bonusGos > from-1 {
		bonusGos = from - 1
	}
	s += bonusGos * int(r.GoBonus)
	if from := int(r.GoDoublingFrom); from > 0 {
		for i := from; i <= gos; i++ {
			s *= 2
		}
	}

	s *= g.Booster(player)
	if r.MungBak && r.MungBakAnimals > 0 && b.AnimalCards >= int(r.MungBakAnimals) {
		s *= 2
	}
	return s
}

// penaltyMultiplier applies go-bak, pi-bak and gwang-bak to what loser pays.
func (g *GameState) penaltyMultiplier(winner, loser uint8, wb ScoreBreakdown) int {
	r := &g.Rules
	lb := g.Breakdown(loser)
	m := 1
	if r.BackDo && g.Players[loser].GoCount > 0 {
		m *= 2
	}
	if r.PiBak && wb.PiPoints > 0 && lb.Pi > 0 && lb.Pi <= int(r.PiBakMax) {
		m *= 2
	}
	if r.GwangBak && wb.LightPoints > 0 && lb.Lights == 0 {
		m *= 2
	}
	return m
}
