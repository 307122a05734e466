package pve

import (
	"testing"
	"time"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/rng"
)

func fastConfig(mode game.StartMode) Config {
	return Config{
		AutoTurnDelay: time.Millisecond,
		OpenerDelay:   time.Millisecond,
		LockDelay:     time.Millisecond,
		StartMode:     mode,
	}
}

func testCreature(name string, stats game.BaseStats, types ...string) *game.Creature {
	return &game.Creature{Name: name, Types: types, Stats: stats}
}

func TestStart_RequiresBothCreatures(t *testing.T) {
	b := New(testCreature("pikachu", game.BaseStats{HP: 35}, "electric"), nil, fastConfig(game.StartBySpeed), rng.NewSeeded(1))
	if err := b.Start(); err != ErrMissingCreature {
		t.Fatalf("expected ErrMissingCreature, got %v", err)
	}
	if b.Snapshot().Active {
		t.Fatal("battle must stay idle")
	}
}

func TestResolveTurn_Guards(t *testing.T) {
	left := testCreature("machamp", game.BaseStats{HP: 90, Attack: 130, Defense: 80, Speed: 55}, "fighting")
	right := testCreature("onix", game.BaseStats{HP: 35, Attack: 45, Defense: 160, Speed: 70}, "rock", "ground")

	// Long delays so no timer interferes with the manual calls.
	b := New(left, right, Config{StartMode: game.StartLeft}, rng.NewSeeded(42))
	defer b.Reset()

	if err := b.ResolveTurn(game.SideLeft, 0); err != ErrNotActive {
		t.Fatalf("idle battle should refuse turns, got %v", err)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := b.ResolveTurn(game.SideRight, 0); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := b.ResolveTurn(game.SideLeft, 99); err != ErrBadMove {
		t.Fatalf("expected ErrBadMove, got %v", err)
	}
	if err := b.ResolveTurn(game.SideLeft, 0); err != nil {
		t.Fatalf("legal turn failed: %v", err)
	}

	snap := b.Snapshot()
	if snap.Turn != game.SideRight {
		t.Fatalf("turn should pass to right, got %q", snap.Turn)
	}
	if len(snap.Log) != 1 || snap.Log[0].Damage < 5 {
		t.Fatalf("unexpected log %+v", snap.Log)
	}
	if snap.HPRight >= snap.MaxRight {
		t.Fatalf("defender HP should drop: %d/%d", snap.HPRight, snap.MaxRight)
	}

	// The post-turn lockout refuses the next move until it expires.
	if err := b.ResolveTurn(game.SideRight, 0); err != ErrLocked {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestAutoBattle_RunsToCompletion(t *testing.T) {
	left := testCreature("charizard", game.BaseStats{HP: 78, Attack: 84, Defense: 78, Speed: 100}, "fire", "flying")
	right := testCreature("venusaur", game.BaseStats{HP: 80, Attack: 82, Defense: 83, Speed: 80}, "grass", "poison")

	b := New(left, right, fastConfig(game.StartBySpeed), rng.NewSeeded(7))
	defer b.Reset()
	if err := b.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		snap := b.Snapshot()
		if snap.Winner != "" {
			if snap.Active {
				t.Fatal("finished battle must not stay active")
			}
			if snap.Turn != "" {
				t.Fatalf("finished battle must clear turn, got %q", snap.Turn)
			}
			if snap.HPLeft > 0 && snap.HPRight > 0 {
				t.Fatalf("winner declared with both sides alive: %d/%d", snap.HPLeft, snap.HPRight)
			}
			if len(snap.Log) == 0 || len(snap.Log) > 8 {
				t.Fatalf("log must keep between 1 and 8 entries, got %d", len(snap.Log))
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("battle never finished: %+v", snap)
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestOpener_RightLeads(t *testing.T) {
	left := testCreature("slowpoke", game.BaseStats{HP: 90, Attack: 65, Defense: 65, Speed: 15}, "water", "psychic")
	right := testCreature("jolteon", game.BaseStats{HP: 65, Attack: 65, Defense: 60, Speed: 130}, "electric")

	b := New(left, right, fastConfig(game.StartRight), rng.NewSeeded(3))
	defer b.Reset()
	if err := b.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		snap := b.Snapshot()
		if len(snap.Log) > 0 {
			if snap.Log[0].Attacker != "jolteon" {
				t.Fatalf("foe should open, first attacker was %s", snap.Log[0].Attacker)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("opener never fired")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestReset_CancelsPendingTurns(t *testing.T) {
	left := testCreature("charizard", game.BaseStats{HP: 78, Attack: 84, Defense: 78, Speed: 100}, "fire")
	right := testCreature("venusaur", game.BaseStats{HP: 80, Attack: 82, Defense: 83, Speed: 80}, "grass")

	b := New(left, right, fastConfig(game.StartBySpeed), rng.NewSeeded(9))
	if err := b.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	b.Reset()

	snap := b.Snapshot()
	if snap.Active || snap.Turn != "" || snap.Winner != "" {
		t.Fatalf("reset battle should be idle, got %+v", snap)
	}

	// Any timer armed before the reset must be a no-op.
	time.Sleep(20 * time.Millisecond)
	after := b.Snapshot()
	if after.Active || len(after.Log) != 0 {
		t.Fatalf("stale timer mutated state after reset: %+v", after)
	}
}
