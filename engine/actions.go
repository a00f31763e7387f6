package engine

import "fmt"

// Apply validates answer against the pending question and applies it.
// On error the game state is unchanged.
func (g *GameState) Apply(player uint8, answer Answer) error {
	if g.IsGameOver() {
		return fmt.Errorf("%w: game is already over", ErrIllegalAction)
	}
	if g.Pending.Kind == QuestionNone {
		return fmt.Errorf("%w: no question pending", ErrIllegalAction)
	}
	if player != g.Pending.Player {
		return fmt.Errorf("%w: %s is addressed to player %d, not %d",
			ErrIllegalAction, g.Pending.Kind, g.Pending.Player, player)
	}
	if answer == nil || answer.Kind() != g.Pending.Kind {
		return fmt.Errorf("%w: pending %s, got %T", ErrProtocolMismatch, g.Pending.Kind, answer)
	}

	// Work on a copy so a rejected answer cannot leave partial changes.
	next := *g
	if err := next.apply(player, answer); err != nil {
		return err
	}
	next.checkPartition()
	*g = next
	return nil
}

// Answer applies answer and reports whether it was accepted.
func (g *GameState) Answer(player uint8, answer Answer) bool {
	return g.Apply(player, answer) == nil
}

func (g *GameState) apply(player uint8, answer Answer) error {
	switch a := answer.(type) {
	case DoublePiAnswer:
		g.chooseDoublePi(player, a.Use)
	case PresidentAnswer:
		g.claimPresident(player, a.Stop)
	case ThrowAnswer:
		return g.throwCard(player, a)
	case FlipAnswer:
		g.flip(player)
	case PickAnswer:
		return g.pickCard(player, a.Card)
	case GoAnswer:
		g.sayGo(player, a.Go)
	default:
		return fmt.Errorf("%w: unsupported answer type %T", ErrProtocolMismatch, answer)
	}
	return nil
}
