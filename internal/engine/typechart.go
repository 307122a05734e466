package engine

import "github.com/ivan12/Pokedex/internal/game"

type typeEffect struct {
	strong []string
	weak   []string
	immune []string
}

// typeChart covers the 18 elemental types. Multipliers stack
// multiplicatively across a defender's types: strong ×2, weak ×0.5,
// immune ×0.
var typeChart = map[string]typeEffect{
	"fire":     {strong: []string{"grass", "ice", "bug", "steel"}, weak: []string{"water", "rock", "fire", "dragon"}},
	"water":    {strong: []string{"fire", "rock", "ground"}, weak: []string{"grass", "dragon", "water"}},
	"grass":    {strong: []string{"water", "ground", "rock"}, weak: []string{"fire", "flying", "bug", "poison", "ice"}},
	"electric": {strong: []string{"water", "flying"}, weak: []string{"grass", "dragon", "electric"}, immune: []string{"ground"}},
	"rock":     {strong: []string{"fire", "ice", "flying", "bug"}, weak: []string{"water", "grass", "fighting", "ground", "steel"}},
	"fighting": {strong: []string{"normal", "rock", "ice", "dark", "steel"}, weak: []string{"psychic", "flying", "fairy", "poison"}, immune: []string{"ghost"}},
	"dark":     {strong: []string{"psychic", "ghost"}, weak: []string{"fighting", "fairy", "dark"}},
	"ghost":    {strong: []string{"psychic", "ghost"}, weak: []string{"dark"}, immune: []string{"normal"}},
	"psychic":  {strong: []string{"fighting", "poison"}, weak: []string{"bug", "dark", "ghost"}},
	"ice":      {strong: []string{"dragon", "grass", "ground", "flying"}, weak: []string{"fire", "steel", "fighting", "rock"}},
	"dragon":   {strong: []string{"dragon"}, weak: []string{"ice", "fairy", "dragon"}, immune: []string{"fairy"}},
	"fairy":    {strong: []string{"dragon", "dark", "fighting"}, weak: []string{"poison", "steel", "fire"}},
	"bug":      {strong: []string{"grass", "psychic", "dark"}, weak: []string{"fire", "flying", "rock"}},
	"poison":   {strong: []string{"grass", "fairy"}, weak: []string{"ground", "psychic"}, immune: []string{"steel"}},
	"steel":    {strong: []string{"ice", "rock", "fairy"}, weak: []string{"fire", "fighting", "ground"}},
	"ground":   {strong: []string{"fire", "electric", "rock", "steel", "poison"}, weak: []string{"water", "grass", "ice"}, immune: []string{"flying"}},
	"flying":   {strong: []string{"grass", "bug", "fighting"}, weak: []string{"electric", "ice", "rock"}},
	"normal":   {weak: []string{"rock", "steel"}, immune: []string{"ghost"}},
}

type weatherEffect struct {
	boost []string
	nerf  []string
}

var weatherBonus = map[game.Weather]weatherEffect{
	game.WeatherClear:     {},
	game.WeatherSun:       {boost: []string{"fire"}, nerf: []string{"water"}},
	game.WeatherRain:      {boost: []string{"water"}, nerf: []string{"fire"}},
	game.WeatherSnow:      {boost: []string{"ice"}},
	game.WeatherSandstorm: {boost: []string{"rock"}},
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TypeEffectiveness reduces the chart over all of the defender's types and
// returns the combined base multiplier for one attacking type.
func TypeEffectiveness(attackType string, defenderTypes []string) float64 {
	chart := typeChart[attackType]
	mult := 1.0
	for _, dt := range defenderTypes {
		switch {
		case contains(chart.immune, dt):
			mult *= 0
		case contains(chart.strong, dt):
			mult *= 2
		case contains(chart.weak, dt):
			mult *= 0.5
		}
	}
	return mult
}

// WeatherMultiplier is 1.2 when the weather boosts the attacking type,
// 0.8 when it nerfs it, else 1.0.
func WeatherMultiplier(attackType string, weather game.Weather) float64 {
	cfg := weatherBonus[weather]
	if contains(cfg.boost, attackType) {
		return 1.2
	}
	if contains(cfg.nerf, attackType) {
		return 0.8
	}
	return 1.0
}
