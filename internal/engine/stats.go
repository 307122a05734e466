package engine

import (
	"strings"

	"github.com/ivan12/Pokedex/internal/game"
)

const (
	defaultLevel = 100
	defaultIV    = 31
	defaultEV    = 0

	// Fallbacks when a base stat is missing from the source record.
	fallbackBaseStat = 60
	fallbackBaseHP   = 80
)

// EffectiveStats derives battle-usable stats from a creature's base stats
// plus optional level/IV/EV/nature modifiers. Unspecified modifiers fall
// back to level 100 / IV 31 / EV 0 / neutral nature, producing stable
// "max-possible" stats for casual play.
//
// Non-HP stats: floor(floor((2*base + iv + floor(ev/4)) * level / 100) + 5) * nature.
// HP: floor((2*base + iv + floor(ev/4)) * level / 100) + level + 10.
func EffectiveStats(c *game.Creature, mods game.Modifiers) game.EffectiveStats {
	level := mods.Level
	if level == 0 {
		level = defaultLevel
	}

	iv := func(key game.StatKey) int {
		if v, ok := mods.IVs[key]; ok {
			return v
		}
		return defaultIV
	}
	ev := func(key game.StatKey) int {
		if v, ok := mods.EVs[key]; ok {
			return v
		}
		return defaultEV
	}
	natureMult := func(key game.StatKey) float64 {
		switch {
		case mods.Nature.Boost != "" && key == mods.Nature.Boost:
			return 1.1
		case mods.Nature.Lower != "" && key == mods.Nature.Lower:
			return 0.9
		}
		return 1.0
	}

	calc := func(key game.StatKey, isHP bool) int {
		fallback := fallbackBaseStat
		if isHP {
			fallback = fallbackBaseHP
		}
		base := 0
		if c != nil {
			base = c.Stats.Base(key, fallback)
		} else {
			base = fallback
		}
		raw := (2*base + iv(key) + ev(key)/4) * level / 100
		if isHP {
			return raw + level + 10
		}
		return int(float64(raw+5) * natureMult(key))
	}

	return game.EffectiveStats{
		HP:             calc(game.StatHP, true),
		Attack:         calc(game.StatAttack, false),
		Defense:        calc(game.StatDefense, false),
		SpecialAttack:  calc(game.StatSpecialAttack, false),
		SpecialDefense: calc(game.StatSpecialDefense, false),
		Speed:          calc(game.StatSpeed, false),
	}
}

// MaxHP is the effective HP under default modifiers; rooms store it as a
// player's maxHp when a creature is attached.
func MaxHP(c *game.Creature) int {
	return EffectiveStats(c, game.Modifiers{}).HP
}

// CardStatValue maps a card-mode comparison stat onto the creature's
// effective stats (strength ≈ HP, agility ≈ speed). A nil creature is
// worth zero.
func CardStatValue(c *game.Creature, key game.CardStatKey) int {
	if c == nil {
		return 0
	}
	stats := EffectiveStats(c, game.Modifiers{})
	switch key {
	case game.CardStatStrength:
		return stats.HP
	case game.CardStatAttack:
		return stats.Attack
	case game.CardStatDefense:
		return stats.Defense
	case game.CardStatAgility:
		return stats.Speed
	}
	return 0
}

var moveIcons = []string{"swords", "flame", "zap", "sparkles"}

var cannedMoves = []string{"Quick Strike", "Charge", "Guard Break", "Ace Hit"}

// DerivedMoves builds a creature's move set: at most four moves taken from
// its raw move list, or four canned generic moves when it carries none.
// power = max(40, floor(baseAttack/2)) + 10*index.
func DerivedMoves(c *game.Creature) []game.Move {
	baseAtk := fallbackBaseStat
	if c != nil {
		baseAtk = c.Stats.Base(game.StatAttack, fallbackBaseStat)
	}
	basePower := baseAtk / 2
	if basePower < 40 {
		basePower = 40
	}

	var raw []string
	if c != nil {
		raw = c.Moves
	}
	if len(raw) == 0 {
		raw = cannedMoves
	}
	if len(raw) > 4 {
		raw = raw[:4]
	}

	moves := make([]game.Move, 0, len(raw))
	for i, name := range raw {
		moves = append(moves, game.Move{
			Name:  FormatMoveName(name),
			Power: basePower + 10*i,
			Icon:  moveIcons[i%len(moveIcons)],
		})
	}
	return moves
}

// FormatMoveName turns a raw kebab-case move name into display form
// ("quick-attack" -> "Quick Attack").
func FormatMoveName(name string) string {
	if name == "" {
		name = "attack"
	}
	parts := strings.Split(strings.ReplaceAll(name, "-", " "), " ")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
