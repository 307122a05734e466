package engine

import (
	"testing"

	"github.com/ivan12/Pokedex/internal/game"
)

func TestEffectiveStats_Defaults(t *testing.T) {
	c := &game.Creature{Stats: game.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45}}
	stats := EffectiveStats(c, game.Modifiers{})

	// floor((2*45+31+0)*100/100) + 100 + 10 = 231
	if stats.HP != 231 {
		t.Fatalf("expected HP=231, got %d", stats.HP)
	}
	// floor((2*49+31)*100/100) + 5 = 134
	if stats.Attack != 134 {
		t.Fatalf("expected Attack=134, got %d", stats.Attack)
	}
	if stats.Speed != 126 {
		t.Fatalf("expected Speed=126, got %d", stats.Speed)
	}
}

func TestEffectiveStats_NatureMultiplier(t *testing.T) {
	c := &game.Creature{Stats: game.BaseStats{Attack: 100, Speed: 100}}
	neutral := EffectiveStats(c, game.Modifiers{})
	boosted := EffectiveStats(c, game.Modifiers{Nature: game.Nature{Boost: game.StatAttack, Lower: game.StatSpeed}})

	wantAtk := int(float64(neutral.Attack) * 1.1)
	if boosted.Attack != wantAtk {
		t.Fatalf("expected boosted attack %d, got %d", wantAtk, boosted.Attack)
	}
	wantSpd := int(float64(neutral.Speed) * 0.9)
	if boosted.Speed != wantSpd {
		t.Fatalf("expected lowered speed %d, got %d", wantSpd, boosted.Speed)
	}
}

func TestEffectiveStats_MissingBaseFallbacks(t *testing.T) {
	stats := EffectiveStats(&game.Creature{}, game.Modifiers{})
	// HP falls back to base 80, others to 60.
	if stats.HP != (2*80+31)+110 {
		t.Fatalf("unexpected fallback HP %d", stats.HP)
	}
	if stats.Attack != (2*60+31)+5 {
		t.Fatalf("unexpected fallback attack %d", stats.Attack)
	}
}

func TestDerivedMoves_FromRawList(t *testing.T) {
	c := &game.Creature{
		Stats: game.BaseStats{Attack: 120},
		Moves: []string{"razor-leaf", "vine-whip", "solar-beam", "growth", "tackle"},
	}
	moves := DerivedMoves(c)
	if len(moves) != 4 {
		t.Fatalf("expected 4 moves, got %d", len(moves))
	}
	if moves[0].Name != "Razor Leaf" {
		t.Fatalf("unexpected move name %q", moves[0].Name)
	}
	if moves[0].Power != 60 || moves[3].Power != 90 {
		t.Fatalf("unexpected powers %d/%d", moves[0].Power, moves[3].Power)
	}
}

func TestDerivedMoves_CannedFallback(t *testing.T) {
	moves := DerivedMoves(&game.Creature{Stats: game.BaseStats{Attack: 10}})
	if len(moves) != 4 {
		t.Fatalf("expected 4 canned moves, got %d", len(moves))
	}
	// Base power floor of 40 applies for weak attackers.
	if moves[0].Power != 40 {
		t.Fatalf("expected floor power 40, got %d", moves[0].Power)
	}
	if moves[0].Name != "Quick Strike" {
		t.Fatalf("unexpected canned move %q", moves[0].Name)
	}
}

func TestCardStatValue(t *testing.T) {
	c := &game.Creature{Stats: game.BaseStats{HP: 45, Attack: 49, Defense: 49, Speed: 45}}
	if got := CardStatValue(c, game.CardStatStrength); got != 231 {
		t.Fatalf("strength should map to HP, got %d", got)
	}
	if got := CardStatValue(c, game.CardStatAgility); got != 126 {
		t.Fatalf("agility should map to speed, got %d", got)
	}
	if got := CardStatValue(nil, game.CardStatAttack); got != 0 {
		t.Fatalf("nil creature should be worth 0, got %d", got)
	}
}
