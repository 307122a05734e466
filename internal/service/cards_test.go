package service

import (
	"context"
	"testing"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/rng"
	"github.com/ivan12/Pokedex/internal/store"
)

// fakePool deals creatures in a fixed order.
type fakePool struct {
	queue []*game.Creature
	next  int
}

func (p *fakePool) Random(_ context.Context, _ string) (*game.Creature, error) {
	c := p.queue[p.next%len(p.queue)]
	p.next++
	return c, nil
}

func cardRoom(t *testing.T, st *store.Memory) string {
	t.Helper()
	roomID := seedRoom(t, st)
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	mode := game.ModeCards
	if err := rooms.UpdateSettings(context.Background(), roomID, ash.UID, RoomSettings{GameMode: &mode}); err != nil {
		t.Fatalf("failed to switch to cards: %v", err)
	}
	return roomID
}

func TestCards_StartRoundDealsHands(t *testing.T) {
	st := store.NewMemory()
	pool := &fakePool{queue: []*game.Creature{strongCreature(), frailCreature()}}
	// Scripted chooser: always the first player id in sorted order (ash).
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	ctx := context.Background()
	roomID := cardRoom(t, st)

	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("start round failed: %v", err)
	}

	room, _ := rooms.Get(ctx, roomID)
	cb := room.CardBattle
	if cb == nil || cb.Round != 1 || cb.MaxRounds != 3 {
		t.Fatalf("unexpected card battle %+v", cb)
	}
	if len(cb.Hands) != 2 || cb.Hands[ash.UID] == nil || cb.Hands[gary.UID] == nil {
		t.Fatalf("both players need a hand: %+v", cb.Hands)
	}
	if cb.Revealed || cb.SelectedStat != "" || cb.MatchWinner != "" {
		t.Fatalf("fresh round must be unrevealed: %+v", cb)
	}
	if _, ok := room.Players[cb.ChooserUID]; !ok {
		t.Fatalf("chooser must be a seated player, got %q", cb.ChooserUID)
	}
}

func TestCards_StartRoundRefusesClassicMode(t *testing.T) {
	st := store.NewMemory()
	cards := NewCardService(st, &fakePool{queue: []*game.Creature{strongCreature()}}, rng.NewSeeded(1))
	roomID := seedRoom(t, st)

	if err := cards.StartRound(context.Background(), roomID, ash.UID); err != ErrWrongMode {
		t.Fatalf("expected ErrWrongMode, got %v", err)
	}
}

func TestCards_DealRequiresSeatedAdmin(t *testing.T) {
	st := store.NewMemory()
	pool := &fakePool{queue: []*game.Creature{strongCreature(), frailCreature()}}
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	ctx := context.Background()
	roomID := cardRoom(t, st)

	if err := cards.StartRound(ctx, roomID, "uid-stranger"); err != ErrNotInRoom {
		t.Fatalf("expected ErrNotInRoom for an outsider, got %v", err)
	}
	if err := cards.StartRound(ctx, roomID, gary.UID); err != ErrNotAdmin {
		t.Fatalf("expected ErrNotAdmin for a non-admin player, got %v", err)
	}
	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("admin deal failed: %v", err)
	}
}

func TestCards_PickStatScoresRound(t *testing.T) {
	st := store.NewMemory()
	// Hands deal in sorted uid order: ash draws charizard, gary caterpie.
	pool := &fakePool{queue: []*game.Creature{strongCreature(), frailCreature()}}
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	ctx := context.Background()
	roomID := cardRoom(t, st)

	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("start round failed: %v", err)
	}
	room, _ := rooms.Get(ctx, roomID)
	chooser := room.CardBattle.ChooserUID
	other := room.OpponentOf(chooser)

	if err := cards.PickStat(ctx, roomID, other, game.CardStatAttack); err != ErrNotChooser {
		t.Fatalf("expected ErrNotChooser, got %v", err)
	}
	if err := cards.PickStat(ctx, roomID, chooser, game.CardStatAttack); err != nil {
		t.Fatalf("pick stat failed: %v", err)
	}

	room, _ = rooms.Get(ctx, roomID)
	cb := room.CardBattle
	if !cb.Revealed || cb.SelectedStat != game.CardStatAttack {
		t.Fatalf("round should be revealed: %+v", cb)
	}
	if cb.WinnerRound == "" {
		t.Fatalf("distinct stats must produce a round winner: %+v", cb)
	}
	if cb.Scores[cb.WinnerRound] != 1 {
		t.Fatalf("round winner should score 1, got %+v", cb.Scores)
	}
	if cb.ChooserUID != cb.WinnerRound {
		t.Fatalf("round winner should choose next, got %q", cb.ChooserUID)
	}

	// A revealed round refuses further picks.
	if err := cards.PickStat(ctx, roomID, chooser, game.CardStatDefense); err != ErrRoundRevealed {
		t.Fatalf("expected ErrRoundRevealed, got %v", err)
	}
}

func TestCards_TieRoundScoresNobody(t *testing.T) {
	st := store.NewMemory()
	// Identical cards force a tie on any stat.
	pool := &fakePool{queue: []*game.Creature{strongCreature(), strongCreature()}}
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	ctx := context.Background()
	roomID := cardRoom(t, st)

	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("start round failed: %v", err)
	}
	room, _ := rooms.Get(ctx, roomID)
	chooser := room.CardBattle.ChooserUID

	if err := cards.PickStat(ctx, roomID, chooser, game.CardStatAgility); err != nil {
		t.Fatalf("pick stat failed: %v", err)
	}
	room, _ = rooms.Get(ctx, roomID)
	cb := room.CardBattle
	if cb.WinnerRound != "" {
		t.Fatalf("tie should have no round winner, got %q", cb.WinnerRound)
	}
	if len(cb.Scores) != 0 && (cb.Scores[ash.UID] != 0 || cb.Scores[gary.UID] != 0) {
		t.Fatalf("tie must not score: %+v", cb.Scores)
	}
	if cb.ChooserUID != chooser {
		t.Fatalf("tie keeps the same chooser, got %q", cb.ChooserUID)
	}
}

func TestCards_MatchWinnerAfterMajority(t *testing.T) {
	st := store.NewMemory()
	pool := &fakePool{queue: []*game.Creature{strongCreature(), frailCreature()}}
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	ctx := context.Background()
	roomID := cardRoom(t, st)

	var winner string
	for round := 1; round <= 2; round++ {
		if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
			t.Fatalf("round %d deal failed: %v", round, err)
		}
		room, _ := rooms.Get(ctx, roomID)
		if err := cards.PickStat(ctx, roomID, room.CardBattle.ChooserUID, game.CardStatAttack); err != nil {
			t.Fatalf("round %d pick failed: %v", round, err)
		}
		room, _ = rooms.Get(ctx, roomID)
		winner = room.CardBattle.WinnerRound
	}

	room, _ := rooms.Get(ctx, roomID)
	cb := room.CardBattle
	if cb.Scores[winner] != 2 {
		t.Fatalf("expected two round wins, got %+v", cb.Scores)
	}
	if cb.MatchWinner != winner {
		t.Fatalf("two of three rounds should decide the match, got %q", cb.MatchWinner)
	}

	// A decided match refuses further picks.
	if err := cards.PickStat(ctx, roomID, winner, game.CardStatDefense); err != ErrMatchOver {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}
}

func TestCards_RoundWinnerKeepsDealingSameHandsOrder(t *testing.T) {
	st := store.NewMemory()
	pool := &fakePool{queue: []*game.Creature{strongCreature(), frailCreature()}}
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	ctx := context.Background()
	roomID := cardRoom(t, st)

	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("start round failed: %v", err)
	}
	room, _ := rooms.Get(ctx, roomID)
	if err := cards.PickStat(ctx, roomID, room.CardBattle.ChooserUID, game.CardStatAttack); err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	room, _ = rooms.Get(ctx, roomID)
	winner := room.CardBattle.WinnerRound

	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("second deal failed: %v", err)
	}
	room, _ = rooms.Get(ctx, roomID)
	cb := room.CardBattle
	if cb.Round != 2 {
		t.Fatalf("expected round 2, got %d", cb.Round)
	}
	if cb.ChooserUID != winner {
		t.Fatalf("previous round winner should choose, got %q", cb.ChooserUID)
	}
	if cb.Revealed || len(cb.Choices) != 0 || cb.WinnerRound != "" {
		t.Fatalf("new round must reset per-round fields: %+v", cb)
	}
	if cb.Scores[winner] != 1 {
		t.Fatalf("scores must carry across rounds: %+v", cb.Scores)
	}
}

func TestCards_PickSameStatTogglesOff(t *testing.T) {
	st := store.NewMemory()
	pool := &fakePool{queue: []*game.Creature{strongCreature(), frailCreature()}}
	cards := NewCardService(st, pool, &rng.Script{Ints: []int{0}})
	rooms := NewRoomService(st, newMockRepo(), rng.NewSeeded(1), game.WeatherClear)
	ctx := context.Background()
	roomID := cardRoom(t, st)

	if err := cards.StartRound(ctx, roomID, ash.UID); err != nil {
		t.Fatalf("start round failed: %v", err)
	}

	// Put the round into the chosen-but-unrevealed window.
	room, _ := rooms.Get(ctx, roomID)
	chooser := room.CardBattle.ChooserUID
	room.CardBattle.Choices = map[string]game.CardStatKey{chooser: game.CardStatAttack}
	room.CardBattle.SelectedStat = game.CardStatAttack
	data, err := encodeRoom(room)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := st.Put(ctx, keys.Room(roomID), data); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Picking the same stat again withdraws the choice.
	if err := cards.PickStat(ctx, roomID, chooser, game.CardStatAttack); err != nil {
		t.Fatalf("toggle pick failed: %v", err)
	}
	room, _ = rooms.Get(ctx, roomID)
	cb := room.CardBattle
	if cb.SelectedStat != "" || len(cb.Choices) != 0 {
		t.Fatalf("toggle should clear the choice: %+v", cb)
	}
	if cb.Revealed || cb.WinnerRound != "" || len(cb.Scores) != 0 {
		t.Fatalf("toggle must leave the round unscored: %+v", cb)
	}

	// The cleared round behaves like a fresh one: the next pick resolves.
	if err := cards.PickStat(ctx, roomID, chooser, game.CardStatAttack); err != nil {
		t.Fatalf("re-pick after toggle failed: %v", err)
	}
	room, _ = rooms.Get(ctx, roomID)
	if !room.CardBattle.Revealed || room.CardBattle.WinnerRound == "" {
		t.Fatalf("re-pick should resolve the round: %+v", room.CardBattle)
	}
}
