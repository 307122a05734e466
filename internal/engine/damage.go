package engine

import (
	"math"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/rng"
)

// DamageResult carries a computed damage value together with the
// multiplier breakdown of the best attacking-type match-up.
type DamageResult struct {
	Damage       int     `json:"damage"`
	AttackType   string  `json:"attackType"`
	BaseTypeMult float64 `json:"baseTypeMult"`
	StabMult     float64 `json:"stabMult"`
	WeatherMult  float64 `json:"weatherMult"`
	TotalMult    float64 `json:"totalMult"`
}

// CalcDamage picks the attacker's best attacking type against the defender
// (type effectiveness × STAB × weather; only a strictly greater total
// replaces the current best, so ties keep the first type found) and rolls
// a randomized damage value:
//
//	base = max(10, floor(atk/max(def,1) * 20)) + floor(spd/20)
//	damage = floor(base * U[0.85,1.15) * totalMult)
//
// The baseline multiplier of 1 never gets replaced by a worse match-up,
// so even a fully immune defender takes neutral damage.
func CalcDamage(attacker, defender *game.Creature, weather game.Weather, src rng.Source) DamageResult {
	best := DamageResult{
		AttackType:   "normal",
		BaseTypeMult: 1,
		StabMult:     1,
		WeatherMult:  1,
		TotalMult:    1,
	}
	var attackerTypes, defenderTypes []string
	if attacker != nil {
		attackerTypes = attacker.Types
	}
	if defender != nil {
		defenderTypes = defender.Types
	}
	if len(attackerTypes) > 0 {
		best.AttackType = attackerTypes[0]
	}
	for _, atkType := range attackerTypes {
		baseMult := TypeEffectiveness(atkType, defenderTypes)
		weatherMult := WeatherMultiplier(atkType, weather)
		stabMult := 1.0
		if contains(attackerTypes, atkType) {
			stabMult = 1.5
		}
		totalMult := baseMult * weatherMult * stabMult
		if totalMult > best.TotalMult {
			best = DamageResult{
				AttackType:   atkType,
				BaseTypeMult: baseMult,
				StabMult:     stabMult,
				WeatherMult:  weatherMult,
				TotalMult:    totalMult,
			}
		}
	}

	atkStats := EffectiveStats(attacker, game.Modifiers{})
	defStats := EffectiveStats(defender, game.Modifiers{})
	def := defStats.Defense
	if def < 1 {
		def = 1
	}
	base := int(math.Floor(float64(atkStats.Attack) / float64(def) * 20))
	if base < 10 {
		base = 10
	}
	speedBonus := atkStats.Speed / 20
	randomFactor := src.Float64()*0.3 + 0.85
	best.Damage = int(math.Floor(float64(base+speedBonus) * randomFactor * best.TotalMult))
	return best
}

// ScaleByMove scales a damage roll by a move's relative power
// (80 is the reference power), never dropping under 5.
func ScaleByMove(damage, movePower int) int {
	scaled := int(math.Round(float64(damage) * float64(movePower) / 80))
	if scaled < 5 {
		return 5
	}
	return scaled
}
