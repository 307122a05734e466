package service

import (
	"context"
	"sort"
	"time"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/store"
)

// PresenceService maintains the online-players list. Records live in the
// shared store and are removed automatically when the owning stream
// session closes.
type PresenceService struct {
	store store.Store
}

func NewPresenceService(st store.Store) *PresenceService {
	return &PresenceService{store: st}
}

// Connect writes the user's presence record and ties its lifetime to the
// given session: when the session closes the record is removed.
func (s *PresenceService) Connect(ctx context.Context, sessionID string, ident game.Identity) error {
	s.store.OnDisconnect(sessionID, keys.Presence(ident.UID))
	return s.update(ctx, ident.UID, func(p *game.Presence) {
		p.Name = ident.Name
		p.PhotoURL = ident.PhotoURL
		p.Status = game.PresenceOnline
		p.RoomID = ""
	})
}

// SetRoom flips the user into battle status while they occupy a room, or
// back online when roomID is empty.
func (s *PresenceService) SetRoom(ctx context.Context, uid, roomID string) error {
	return s.update(ctx, uid, func(p *game.Presence) {
		p.RoomID = roomID
		if roomID == "" {
			p.Status = game.PresenceOnline
		} else {
			p.Status = game.PresenceBattle
		}
	})
}

// Heartbeat refreshes the lastSeen timestamp.
func (s *PresenceService) Heartbeat(ctx context.Context, uid string) error {
	return s.update(ctx, uid, func(p *game.Presence) {})
}

// Disconnect fires the session's scheduled removals.
func (s *PresenceService) Disconnect(sessionID string) {
	s.store.CloseSession(sessionID)
}

// List returns every online player sorted by name.
func (s *PresenceService) List(ctx context.Context) ([]game.Presence, error) {
	docs, err := s.store.List(ctx, keys.PresencePrefix)
	if err != nil {
		return nil, err
	}
	out := make([]game.Presence, 0, len(docs))
	for _, data := range docs {
		p, err := decodePresence(data)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListAvailable returns the players who can be invited right now: online,
// not in a battle, and not the caller themselves.
func (s *PresenceService) ListAvailable(ctx context.Context, selfUID string) ([]game.Presence, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.UID == selfUID || p.Status != game.PresenceOnline {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns one user's presence, or nil when offline.
func (s *PresenceService) Get(ctx context.Context, uid string) (*game.Presence, error) {
	data, err := s.store.Get(ctx, keys.Presence(uid))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodePresence(data)
}

func (s *PresenceService) update(ctx context.Context, uid string, mutate func(*game.Presence)) error {
	return s.store.Transaction(ctx, keys.Presence(uid), func(current []byte) ([]byte, error) {
		p := &game.Presence{UID: uid, Status: game.PresenceOnline}
		if current != nil {
			if cur, err := decodePresence(current); err == nil {
				p = cur
			}
		}
		mutate(p)
		p.UID = uid
		p.LastSeen = time.Now().UnixMilli()
		return encodePresence(p)
	})
}
