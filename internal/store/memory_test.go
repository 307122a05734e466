package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestPutGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "rooms/r1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := m.Put(ctx, "rooms/r1", []byte(`{"state":"selecting"}`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, err := m.Get(ctx, "rooms/r1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"state":"selecting"}` {
		t.Fatalf("unexpected value %s", got)
	}

	if err := m.Delete(ctx, "rooms/r1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := m.Get(ctx, "rooms/r1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListByPrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "presence/u1", []byte(`1`))
	m.Put(ctx, "presence/u2", []byte(`2`))
	m.Put(ctx, "rooms/r1", []byte(`3`))

	got, err := m.List(ctx, "presence/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 presence docs, got %d", len(got))
	}
	if _, ok := got["presence/u1"]; !ok {
		t.Fatalf("missing presence/u1 in %v", got)
	}
}

func TestTransaction_CreatesAndDeletes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Transaction(ctx, "counters/c", func(cur []byte) ([]byte, error) {
		if cur != nil {
			t.Fatalf("expected nil current on empty path, got %s", cur)
		}
		return []byte(`1`), nil
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}

	err = m.Transaction(ctx, "counters/c", func(cur []byte) ([]byte, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("delete transaction failed: %v", err)
	}
	if _, err := m.Get(ctx, "counters/c"); err != ErrNotFound {
		t.Fatalf("expected path deleted, got %v", err)
	}
}

func TestTransaction_UnchangedAborts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "rooms/r1", []byte(`"before"`))

	calls := 0
	err := m.Transaction(ctx, "rooms/r1", func(cur []byte) ([]byte, error) {
		calls++
		return nil, ErrUnchanged
	})
	if err != nil {
		t.Fatalf("abort should not be an error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("aborted transaction must not retry, ran %d times", calls)
	}
	got, _ := m.Get(ctx, "rooms/r1")
	if string(got) != `"before"` {
		t.Fatalf("aborted transaction must not write, got %s", got)
	}
}

func TestTransaction_ConcurrentIncrements(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "counters/c", []byte(`0`))

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				err := m.Transaction(ctx, "counters/c", func(cur []byte) ([]byte, error) {
					var n int
					if err := json.Unmarshal(cur, &n); err != nil {
						return nil, err
					}
					return json.Marshal(n + 1)
				})
				if err != nil {
					t.Errorf("transaction failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, _ := m.Get(ctx, "counters/c")
	var n int
	json.Unmarshal(got, &n)
	if n != workers*perWorker {
		t.Fatalf("lost updates: expected %d, got %d", workers*perWorker, n)
	}
}

func TestSubscribe_SeedsAndDelivers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "presence/u1", []byte(`"online"`))

	ch, cancel := m.Subscribe("presence/")
	defer cancel()

	ev := waitEvent(t, ch)
	if ev.Path != "presence/u1" {
		t.Fatalf("expected seed event for presence/u1, got %s", ev.Path)
	}

	m.Put(ctx, "presence/u2", []byte(`"online"`))
	ev = waitEvent(t, ch)
	if ev.Path != "presence/u2" || ev.Value == nil {
		t.Fatalf("expected update for presence/u2, got %+v", ev)
	}

	m.Delete(ctx, "presence/u2")
	ev = waitEvent(t, ch)
	if ev.Path != "presence/u2" || ev.Value != nil {
		t.Fatalf("expected deletion event, got %+v", ev)
	}

	// Events outside the prefix never arrive.
	m.Put(ctx, "rooms/r1", []byte(`{}`))
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribe_CancelIsIdempotent(t *testing.T) {
	m := NewMemory()
	_, cancel := m.Subscribe("rooms/")
	cancel()
	cancel()
}

func TestOnDisconnect(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "presence/u1", []byte(`"online"`))
	m.Put(ctx, "presence/u2", []byte(`"online"`))

	m.OnDisconnect("sess-1", "presence/u1")
	m.OnDisconnect("sess-1", "presence/u2")
	m.CancelDisconnect("sess-1", "presence/u2")
	m.CloseSession("sess-1")

	if _, err := m.Get(ctx, "presence/u1"); err != ErrNotFound {
		t.Fatalf("expected presence/u1 removed on disconnect, got %v", err)
	}
	if _, err := m.Get(ctx, "presence/u2"); err != nil {
		t.Fatalf("cancelled hook must not fire: %v", err)
	}

	// Closing an unknown session does nothing.
	m.CloseSession("sess-2")
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}
