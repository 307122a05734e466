package store

import (
	"bytes"
	"context"
	"strings"
	"sync"
)

const (
	txnMaxRetries   = 32
	subscriberQueue = 64
)

type entry struct {
	value   []byte
	version uint64
}

type subscriber struct {
	prefix string
	ch     chan Event
	closed bool
}

// Memory is the in-process Store implementation. A single mutex guards
// the document map, the subscriber list and the disconnect hooks; all
// operations are short so contention stays low at two-player scale.
type Memory struct {
	mu      sync.Mutex
	docs    map[string]entry
	subs    map[*subscriber]struct{}
	hooks   map[string]map[string]struct{}
	version uint64
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]entry),
		subs:  make(map[*subscriber]struct{}),
		hooks: make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Put(_ context.Context, path string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeLocked(path, value)
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(path)
	return nil
}

func (m *Memory) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte)
	for path, e := range m.docs {
		if strings.HasPrefix(path, prefix) {
			out[path] = append([]byte(nil), e.value...)
		}
	}
	return out, nil
}

func (m *Memory) Transaction(ctx context.Context, path string, fn TxnFunc) error {
	for attempt := 0; attempt < txnMaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.mu.Lock()
		cur, exists := m.docs[path]
		m.mu.Unlock()

		var snapshot []byte
		if exists {
			snapshot = append([]byte(nil), cur.value...)
		}

		next, err := fn(snapshot)
		if err == ErrUnchanged {
			return nil
		}
		if err != nil {
			return err
		}

		m.mu.Lock()
		now, stillExists := m.docs[path]
		if exists != stillExists || (exists && now.version != cur.version) {
			m.mu.Unlock()
			continue
		}
		if next == nil {
			m.deleteLocked(path)
		} else if !exists || !bytes.Equal(now.value, next) {
			m.writeLocked(path, next)
		}
		m.mu.Unlock()
		return nil
	}
	return ErrConflict
}

func (m *Memory) Subscribe(prefix string) (<-chan Event, func()) {
	sub := &subscriber{prefix: prefix, ch: make(chan Event, subscriberQueue)}

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	// Seed the channel with the current state so consumers never start
	// blind.
	for path, e := range m.docs {
		if strings.HasPrefix(path, prefix) {
			sub.deliver(Event{Path: path, Value: append([]byte(nil), e.value...)})
		}
	}
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[sub]; !ok {
			return
		}
		delete(m.subs, sub)
		sub.closed = true
		close(sub.ch)
	}
	return sub.ch, cancel
}

func (m *Memory) OnDisconnect(sessionID, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths, ok := m.hooks[sessionID]
	if !ok {
		paths = make(map[string]struct{})
		m.hooks[sessionID] = paths
	}
	paths[path] = struct{}{}
}

func (m *Memory) CancelDisconnect(sessionID, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if paths, ok := m.hooks[sessionID]; ok {
		delete(paths, path)
		if len(paths) == 0 {
			delete(m.hooks, sessionID)
		}
	}
}

func (m *Memory) CloseSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for path := range m.hooks[sessionID] {
		m.deleteLocked(path)
	}
	delete(m.hooks, sessionID)
}

// writeLocked stores value and fans the change out. Caller holds mu.
func (m *Memory) writeLocked(path string, value []byte) {
	m.version++
	m.docs[path] = entry{value: append([]byte(nil), value...), version: m.version}
	m.notifyLocked(Event{Path: path, Value: append([]byte(nil), value...)})
}

// deleteLocked removes path and fans a nil-value event out. Caller holds
// mu.
func (m *Memory) deleteLocked(path string) {
	if _, ok := m.docs[path]; !ok {
		return
	}
	delete(m.docs, path)
	m.notifyLocked(Event{Path: path})
}

func (m *Memory) notifyLocked(ev Event) {
	for sub := range m.subs {
		if strings.HasPrefix(ev.Path, sub.prefix) {
			sub.deliver(ev)
		}
	}
}

// deliver never blocks: when the queue is full the oldest event is
// dropped. Consumers treat events as dirty markers and re-read, so
// losing an intermediate state is harmless.
func (s *subscriber) deliver(ev Event) {
	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}
