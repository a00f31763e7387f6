package engine

// QuestionKind identifies the decision the engine is waiting for.
type QuestionKind uint8

const (
	QuestionNone QuestionKind = iota
	QuestionClaimPresident
	QuestionWhichCardToThrow
	QuestionPickFromDeck
	QuestionWhichCardToPick
	QuestionUseAsDoublePi
	QuestionSayGo
)

var questionNames = [...]string{
	QuestionNone:             "none",
	QuestionClaimPresident:   "claim_president",
	QuestionWhichCardToThrow: "which_card_to_throw",
	QuestionPickFromDeck:     "pick_from_deck",
	QuestionWhichCardToPick:  "which_card_to_pick",
	QuestionUseAsDoublePi:    "use_as_double_pi",
	QuestionSayGo:            "say_go",
}

func (k QuestionKind) String() string {
	if int(k) < len(questionNames) {
		return questionNames[k]
	}
	return "unknown"
}

// PendingQuestion is the flat in-state encoding of the outstanding question.
type PendingQuestion struct {
	Kind       QuestionKind
	Player     uint8
	Months     uint16  // ClaimPresident: bit m set for each president month
	Source     Card    // WhichCardToPick: card looking for a partner
	Candidates [2]Card // WhichCardToPick
	FromDeck   bool    // WhichCardToPick: Source was flipped from the deck
}

// ---------------------------------------------------------------------------
// Questions
// ---------------------------------------------------------------------------

// Question is the decision currently asked of one player.
// Implementations: ClaimPresident, WhichCardToThrow, PickFromDeck,
// WhichCardToPick, UseAsDoublePi, SayGo.
type Question interface {
	Kind() QuestionKind
	Target() uint8
	question()
}

// ClaimPresident asks whether to stop on a president dealt in hand.
type ClaimPresident struct {
	Player uint8 `json:"player"`
	Months []int `json:"months,omitempty"`
}

// WhichCardToThrow asks the turn player to throw a hand card.
type WhichCardToThrow struct {
	Player uint8 `json:"player"`
}

// PickFromDeck asks the turn player to flip the top card of the draw pile.
type PickFromDeck struct {
	Player uint8 `json:"player"`
}

// WhichCardToPick asks which of two same-month board cards Source captures.
type WhichCardToPick struct {
	Player     uint8   `json:"player"`
	Source     Card    `json:"source"`
	Candidates [2]Card `json:"candidates"`
	FromDeck   bool    `json:"from_deck"`
}

// UseAsDoublePi asks whether the Sep flask counts as double pi.
type UseAsDoublePi struct {
	Player uint8 `json:"player"`
}

// SayGo asks a player who reached the go threshold to go or stop.
type SayGo struct {
	Player uint8 `json:"player"`
	Score  int   `json:"score"`
}

func (ClaimPresident) Kind() QuestionKind   { return QuestionClaimPresident }
func (WhichCardToThrow) Kind() QuestionKind { return QuestionWhichCardToThrow }
func (PickFromDeck) Kind() QuestionKind     { return QuestionPickFromDeck }
func (WhichCardToPick) Kind() QuestionKind  { return QuestionWhichCardToPick }
func (UseAsDoublePi) Kind() QuestionKind    { return QuestionUseAsDoublePi }
func (SayGo) Kind() QuestionKind            { return QuestionSayGo }

func (q ClaimPresident) Target() uint8   { return q.Player }
func (q WhichCardToThrow) Target() uint8 { return q.Player }
func (q PickFromDeck) Target() uint8     { return q.Player }
func (q WhichCardToPick) Target() uint8  { return q.Player }
func (q UseAsDoublePi) Target() uint8    { return q.Player }
func (q SayGo) Target() uint8            { return q.Player }

func (ClaimPresident) question()   {}
func (WhichCardToThrow) question() {}
func (PickFromDeck) question()     {}
func (WhichCardToPick) question()  {}
func (UseAsDoublePi) question()    {}
func (SayGo) question()            {}

// ---------------------------------------------------------------------------
// Answers
// ---------------------------------------------------------------------------

// Answer is a decision supplied for the pending question. Each answer type
// is accepted only by the question kind it reports.
type Answer interface {
	Kind() QuestionKind
	answer()
}

// PresidentAnswer answers ClaimPresident.
type PresidentAnswer struct {
	Stop bool `json:"stop"`
}

// ThrowAnswer answers WhichCardToThrow. Card may be Bomb to spend a bomb token.
// Shake and Bomb declare the special move for the card's month.
type ThrowAnswer struct {
	Card  Card `json:"card"`
	Shake bool `json:"shake,omitempty"`
	Bomb  bool `json:"bomb,omitempty"`
}

// FlipAnswer answers PickFromDeck.
type FlipAnswer struct{}

// PickAnswer answers WhichCardToPick.
type PickAnswer struct {
	Card Card `json:"card"`
}

// DoublePiAnswer answers UseAsDoublePi.
type DoublePiAnswer struct {
	Use bool `json:"use"`
}

// GoAnswer answers SayGo.
type GoAnswer struct {
	Go bool `json:"go"`
}

func (PresidentAnswer) Kind() QuestionKind { return QuestionClaimPresident }
func (ThrowAnswer) Kind() QuestionKind     { return QuestionWhichCardToThrow }
func (FlipAnswer) Kind() QuestionKind      { return QuestionPickFromDeck }
func (PickAnswer) Kind() QuestionKind      { return QuestionWhichCardToPick }
func (DoublePiAnswer) Kind() QuestionKind  { return QuestionUseAsDoublePi }
func (GoAnswer) Kind() QuestionKind        { return QuestionSayGo }

func (PresidentAnswer) answer() {}
func (ThrowAnswer) answer()     {}
func (FlipAnswer) answer()      {}
func (PickAnswer) answer()      {}
func (DoublePiAnswer) answer()  {}
func (GoAnswer) answer()        {}

// Question returns the pending question, or nil when none is pending.
func (g *GameState) Question() Question {
	return g.questionFor(g.Pending.Player)
}

// questionFor renders the pending question as seen by viewer. President
// months are only shown to the player being asked.
func (g *GameState) questionFor(viewer uint8) Question {
	if g.IsTerminal() {
		return nil
	}
	q := g.Pending
	switch q.Kind {
	case QuestionClaimPresident:
		cp := ClaimPresident{Player: q.Player}
		if viewer == q.Player {
			for m := uint8(1); m <= NumMonths; m++ {
				if q.Months&(1<<m) != 0 {
					cp.Months = append(cp.Months, int(m))
				}
			}
		}
		return cp
	case QuestionWhichCardToThrow:
		return WhichCardToThrow{Player: q.Player}
	case QuestionPickFromDeck:
		return PickFromDeck{Player: q.Player}
	case QuestionWhichCardToPick:
		return WhichCardToPick{Player: q.Player, Source: q.Source, Candidates: q.Candidates, FromDeck: q.FromDeck}
	case QuestionUseAsDoublePi:
		return UseAsDoublePi{Player: q.Player}
	case QuestionSayGo:
		return SayGo{Player: q.Player, Score: g.Breakdown(q.Player).Raw}
	}
	return nil
}
