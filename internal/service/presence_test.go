package service

import (
	"context"
	"testing"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/store"
)

func TestPresence_Lifecycle(t *testing.T) {
	st := store.NewMemory()
	svc := NewPresenceService(st)
	ctx := context.Background()

	if err := svc.Connect(ctx, "sess-1", ash); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := svc.Connect(ctx, "sess-2", gary); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 online players, got %d (%v)", len(list), err)
	}
	if list[0].Name != "Ash" || list[0].Status != game.PresenceOnline {
		t.Fatalf("unexpected first entry %+v", list[0])
	}

	if err := svc.SetRoom(ctx, ash.UID, "room-1"); err != nil {
		t.Fatalf("set room failed: %v", err)
	}
	p, err := svc.Get(ctx, ash.UID)
	if err != nil || p == nil {
		t.Fatalf("get failed: %v", err)
	}
	if p.Status != game.PresenceBattle || p.RoomID != "room-1" {
		t.Fatalf("expected battle status, got %+v", p)
	}

	if err := svc.SetRoom(ctx, ash.UID, ""); err != nil {
		t.Fatalf("clear room failed: %v", err)
	}
	p, _ = svc.Get(ctx, ash.UID)
	if p.Status != game.PresenceOnline || p.RoomID != "" {
		t.Fatalf("expected online status, got %+v", p)
	}

	// Closing the session drops the presence record.
	svc.Disconnect("sess-1")
	p, err = svc.Get(ctx, ash.UID)
	if err != nil || p != nil {
		t.Fatalf("disconnected player should be offline, got %+v (%v)", p, err)
	}

	list, _ = svc.List(ctx)
	if len(list) != 1 || list[0].UID != gary.UID {
		t.Fatalf("expected only gary online, got %+v", list)
	}
}

func TestPresence_ListAvailableFilters(t *testing.T) {
	st := store.NewMemory()
	svc := NewPresenceService(st)
	ctx := context.Background()
	misty := game.Identity{UID: "uid-misty", Name: "Misty"}

	for sess, id := range map[string]game.Identity{"sess-a": ash, "sess-b": gary, "sess-c": misty} {
		if err := svc.Connect(ctx, sess, id); err != nil {
			t.Fatalf("connect failed: %v", err)
		}
	}
	if err := svc.SetRoom(ctx, gary.UID, "room-9"); err != nil {
		t.Fatalf("set room failed: %v", err)
	}

	// Callers see neither themselves nor players already in battle.
	list, err := svc.ListAvailable(ctx, ash.UID)
	if err != nil {
		t.Fatalf("list available failed: %v", err)
	}
	if len(list) != 1 || list[0].UID != misty.UID {
		t.Fatalf("expected only misty, got %+v", list)
	}
}
