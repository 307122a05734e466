package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/logging"
	"github.com/ivan12/Pokedex/internal/store"
)

// DefaultInviteTTL is how long a pending invite stays answerable.
const DefaultInviteTTL = 60 * time.Second

// InviteService moves battle invites through their lifecycle: pending ->
// accepted (which spawns a room) or declined. Invites live in the
// recipient's inbox.
type InviteService struct {
	store store.Store
}

func NewInviteService(st store.Store) *InviteService {
	return &InviteService{store: st}
}

// Send drops a pending invite into the target's inbox. Targets already in
// battle and senders with an unanswered invite to the same target are
// refused.
func (s *InviteService) Send(ctx context.Context, from game.Identity, targetUID string) (*game.Invite, error) {
	if targetUID == "" || targetUID == from.UID {
		return nil, ErrInviteToSelf
	}

	if data, err := s.store.Get(ctx, keys.Presence(targetUID)); err == nil {
		if p, err := decodePresence(data); err == nil && p.Status == game.PresenceBattle {
			return nil, ErrTargetInBattle
		}
	}

	// One outgoing invite at a time, regardless of target.
	all, err := s.store.List(ctx, keys.InvitesPrefix)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-DefaultInviteTTL).UnixMilli()
	for _, data := range all {
		inv, err := decodeInvite(data, "")
		if err != nil {
			continue
		}
		if inv.FromUID == from.UID && inv.Status == game.InviteStatusPending && inv.CreatedAt > cutoff {
			return nil, ErrInvitePending
		}
	}

	inv := &game.Invite{
		ID:        uuid.NewString(),
		FromUID:   from.UID,
		FromName:  from.Name,
		FromPhoto: from.PhotoURL,
		Status:    game.InviteStatusPending,
		CreatedAt: time.Now().UnixMilli(),
	}
	data, err := encodeInvite(inv)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, keys.Invite(targetUID, inv.ID), data); err != nil {
		return nil, err
	}
	return inv, nil
}

// Cancel removes the sender's own pending invite from the target's inbox.
func (s *InviteService) Cancel(ctx context.Context, fromUID, targetUID, inviteID string) error {
	return s.store.Transaction(ctx, keys.Invite(targetUID, inviteID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrInviteNotFound
		}
		inv, err := decodeInvite(current, inviteID)
		if err != nil {
			return nil, err
		}
		if inv.FromUID != fromUID {
			return nil, ErrInviteNotFound
		}
		return nil, nil
	})
}

// Accept marks the invite accepted and creates the room both players
// join. The inviter becomes the room admin.
func (s *InviteService) Accept(ctx context.Context, to game.Identity, inviteID string) (string, error) {
	data, err := s.store.Get(ctx, keys.Invite(to.UID, inviteID))
	if err == store.ErrNotFound {
		return "", ErrInviteNotFound
	}
	if err != nil {
		return "", err
	}
	inv, err := decodeInvite(data, inviteID)
	if err != nil {
		return "", err
	}
	if inv.Status != game.InviteStatusPending {
		return "", ErrInviteResolved
	}

	roomID := strings.ReplaceAll(uuid.NewString(), "-", "")
	room := &game.Room{
		ID:           roomID,
		State:        game.StateSelecting,
		GameMode:     game.ModeClassic,
		CreatedAt:    time.Now().UnixMilli(),
		RegionFilter: "all",
		CardBestOf:   3,
		AdminUID:     inv.FromUID,
		Players: map[string]*game.PlayerSlot{
			to.UID: {
				UID:      to.UID,
				Name:     to.Name,
				PhotoURL: to.PhotoURL,
			},
			inv.FromUID: {
				UID:      inv.FromUID,
				Name:     inv.FromName,
				PhotoURL: inv.FromPhoto,
			},
		},
	}
	roomData, err := encodeRoom(room)
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, keys.Room(roomID), roomData); err != nil {
		return "", err
	}

	err = s.store.Transaction(ctx, keys.Invite(to.UID, inviteID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrInviteNotFound
		}
		cur, err := decodeInvite(current, inviteID)
		if err != nil {
			return nil, err
		}
		if cur.Status != game.InviteStatusPending {
			return nil, ErrInviteResolved
		}
		cur.Status = game.InviteStatusAccepted
		cur.RoomID = roomID
		return encodeInvite(cur)
	})
	if err != nil {
		// Another responder won the race; drop the orphaned room.
		_ = s.store.Delete(ctx, keys.Room(roomID))
		return "", err
	}
	return roomID, nil
}

// Decline marks the invite declined so the sender's watcher sees the
// answer. Declining twice is a quiet no-op.
func (s *InviteService) Decline(ctx context.Context, toUID, inviteID string) error {
	return s.store.Transaction(ctx, keys.Invite(toUID, inviteID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrInviteNotFound
		}
		inv, err := decodeInvite(current, inviteID)
		if err != nil {
			return nil, err
		}
		if inv.Status != game.InviteStatusPending {
			return nil, store.ErrUnchanged
		}
		inv.Status = game.InviteStatusDeclined
		return encodeInvite(inv)
	})
}

// Inbox lists the pending invites of one user.
func (s *InviteService) Inbox(ctx context.Context, uid string) ([]game.Invite, error) {
	docs, err := s.store.List(ctx, keys.InviteInbox(uid))
	if err != nil {
		return nil, err
	}
	prefix := keys.InviteInbox(uid)
	out := make([]game.Invite, 0, len(docs))
	for path, data := range docs {
		inv, err := decodeInvite(data, strings.TrimPrefix(path, prefix))
		if err != nil {
			continue
		}
		if inv.Status == game.InviteStatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

// ExpireStale declines pending invites older than ttl and removes
// resolved ones past twice the ttl. Runs from the background sweeper.
func (s *InviteService) ExpireStale(ctx context.Context, ttl time.Duration) {
	docs, err := s.store.List(ctx, keys.InvitesPrefix)
	if err != nil {
		logging.Error("invite sweep failed", err, nil)
		return
	}
	now := time.Now().UnixMilli()
	expired := 0
	for path, data := range docs {
		inv, err := decodeInvite(data, "")
		if err != nil {
			continue
		}
		age := now - inv.CreatedAt
		switch {
		case inv.Status == game.InviteStatusPending && age > ttl.Milliseconds():
			err = s.store.Transaction(ctx, path, func(current []byte) ([]byte, error) {
				if current == nil {
					return nil, store.ErrUnchanged
				}
				cur, err := decodeInvite(current, "")
				if err != nil || cur.Status != game.InviteStatusPending {
					return nil, store.ErrUnchanged
				}
				cur.Status = game.InviteStatusDeclined
				return encodeInvite(cur)
			})
			if err == nil {
				expired++
			}
		case inv.Status != game.InviteStatusPending && age > 2*ttl.Milliseconds():
			_ = s.store.Delete(ctx, path)
		}
	}
	if expired > 0 {
		logging.Info("expired stale invites", logging.Fields{constants.LogFieldCount: expired})
	}
}
