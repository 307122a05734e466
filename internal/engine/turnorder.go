package engine

import (
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/rng"
)

// DecideFirstTurn picks the side acting first. In speed mode the higher
// effective speed leads and ties favor the left side; left/right force a
// side; random flips a fair coin.
func DecideFirstTurn(left, right *game.Creature, mode game.StartMode, src rng.Source) game.Side {
	if left == nil || right == nil {
		return game.SideLeft
	}
	switch mode {
	case game.StartBySpeed:
		if EffectiveStats(left, game.Modifiers{}).Speed >= EffectiveStats(right, game.Modifiers{}).Speed {
			return game.SideLeft
		}
		return game.SideRight
	case game.StartRight:
		return game.SideRight
	case game.StartAtRandom:
		if src.Float64() < 0.5 {
			return game.SideLeft
		}
		return game.SideRight
	}
	return game.SideLeft
}
