package service

import (
	"context"
	"sort"
	"time"

	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/engine"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/logging"
	"github.com/ivan12/Pokedex/internal/rng"
	"github.com/ivan12/Pokedex/internal/storage"
	"github.com/ivan12/Pokedex/internal/store"
)

// pvpLogKeep bounds the retained turn history of a room; the log keeps
// the trailing window plus the turn being appended.
const pvpLogKeep = 20

// RoomService drives the shared room state machine. Every mutation goes
// through a store transaction so two players acting at once cannot
// corrupt a room.
type RoomService struct {
	store   store.Store
	repo    storage.Repository
	src     rng.Source
	weather game.Weather
}

func NewRoomService(st store.Store, repo storage.Repository, src rng.Source, weather game.Weather) *RoomService {
	if src == nil {
		src = rng.New()
	}
	if weather == "" {
		weather = game.WeatherClear
	}
	return &RoomService{store: st, repo: repo, src: src, weather: weather}
}

// Get loads a room by id.
func (s *RoomService) Get(ctx context.Context, roomID string) (*game.Room, error) {
	data, err := s.store.Get(ctx, keys.Room(roomID))
	if err == store.ErrNotFound {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRoom(data, roomID)
}

// SetCreature attaches a creature to the player's slot and clears their
// ready mark; picking again always requires a fresh ready. Picks are only
// accepted while the room is in a selection phase, so a mid-match re-pick
// cannot heal a damaged slot.
func (s *RoomService) SetCreature(ctx context.Context, roomID, uid string, c *game.Creature) error {
	if c == nil {
		return ErrCreatureMissing
	}
	hp := engine.MaxHP(c)
	return s.mutate(ctx, roomID, func(r *game.Room) error {
		slot, ok := r.Players[uid]
		if !ok {
			return ErrNotInRoom
		}
		if !selecting(r) {
			return ErrMidMatch
		}
		slot.Pokemon = c
		slot.HP = hp
		slot.MaxHP = hp
		slot.Ready = false
		return nil
	})
}

// MarkReady flags the player ready and promotes the room to in-progress
// once both players picked a creature and confirmed. The promotion is its
// own transaction, mirroring a double-ready race: whichever ready lands
// last triggers the start, and the start transaction itself refuses to
// run twice.
func (s *RoomService) MarkReady(ctx context.Context, roomID, uid string) error {
	err := s.mutate(ctx, roomID, func(r *game.Room) error {
		slot, ok := r.Players[uid]
		if !ok {
			return ErrNotInRoom
		}
		if !selecting(r) {
			return ErrMidMatch
		}
		slot.Ready = true
		return nil
	})
	if err != nil {
		return err
	}
	return s.maybeStart(ctx, roomID)
}

func (s *RoomService) maybeStart(ctx context.Context, roomID string) error {
	return s.store.Transaction(ctx, keys.Room(roomID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, store.ErrUnchanged
		}
		r, err := decodeRoom(current, roomID)
		if err != nil {
			return nil, err
		}
		if r.State != game.StateSelecting || r.GameMode == game.ModeCards {
			return nil, store.ErrUnchanged
		}
		ids := sortedPlayerIDs(r)
		if len(ids) != 2 || r.CurrentTurn != "" {
			return nil, store.ErrUnchanged
		}
		for _, pid := range ids {
			slot := r.Players[pid]
			if slot.Pokemon == nil || !slot.Ready {
				return nil, store.ErrUnchanged
			}
		}
		r.State = game.StateInProgress
		r.CurrentTurn = ids[s.src.Intn(len(ids))]
		if r.Log == nil {
			r.Log = []game.TurnRecord{}
		}
		return encodeRoom(r)
	})
}

// TakeTurn resolves one attack by the player whose turn it is. moveIndex
// addresses the attacker's derived move set and only affects the log
// entry; damage comes from the creatures themselves. When the defender
// drops to zero the room finishes and the result is recorded durably.
func (s *RoomService) TakeTurn(ctx context.Context, roomID, uid string, moveIndex int) (*game.Room, error) {
	var finished *game.MatchRecord
	var result *game.Room

	err := s.store.Transaction(ctx, keys.Room(roomID), func(current []byte) ([]byte, error) {
		finished = nil
		if current == nil {
			return nil, ErrRoomNotFound
		}
		r, err := decodeRoom(current, roomID)
		if err != nil {
			return nil, err
		}
		if _, ok := r.Players[uid]; !ok {
			return nil, ErrNotInRoom
		}
		if r.State != game.StateInProgress || r.CurrentTurn != uid {
			return nil, ErrNotYourTurn
		}
		opponentID := r.OpponentOf(uid)
		if opponentID == "" {
			return nil, ErrNotYourTurn
		}
		attacker := r.Players[uid]
		defender := r.Players[opponentID]
		if attacker.Pokemon == nil || defender.Pokemon == nil {
			return nil, ErrCreatureMissing
		}

		moveName := "Attack"
		movePower := 0
		if moves := engine.DerivedMoves(attacker.Pokemon); moveIndex >= 0 && moveIndex < len(moves) {
			moveName = moves[moveIndex].Name
			movePower = moves[moveIndex].Power
		}

		dmg := engine.CalcDamage(attacker.Pokemon, defender.Pokemon, s.weather, s.src)
		defenderHP := defender.HP
		if defenderHP == 0 && defender.MaxHP == 0 && defender.Pokemon != nil {
			defenderHP = engine.MaxHP(defender.Pokemon)
		}
		nextHP := defenderHP - dmg.Damage
		if nextHP < 0 {
			nextHP = 0
		}

		rec := game.TurnRecord{
			Turn:         len(r.Log) + 1,
			Attacker:     attacker.Name,
			Defender:     defender.Name,
			MoveName:     moveName,
			MovePower:    movePower,
			Damage:       dmg.Damage,
			AttackType:   dmg.AttackType,
			BaseTypeMult: dmg.BaseTypeMult,
			StabMult:     dmg.StabMult,
			WeatherMult:  dmg.WeatherMult,
			TotalMult:    dmg.TotalMult,
			RemainingHP:  nextHP,
		}
		if len(r.Log) > pvpLogKeep {
			r.Log = r.Log[len(r.Log)-pvpLogKeep:]
		}
		r.Log = append(r.Log, rec)
		defender.HP = nextHP

		if nextHP <= 0 {
			r.State = game.StateFinished
			r.WinnerUID = uid
			r.CurrentTurn = ""
			finished = &game.MatchRecord{
				RoomID:    roomID,
				GameMode:  r.GameMode,
				WinnerUID: uid,
				LoserUID:  opponentID,
				Turns:     rec.Turn,
			}
		} else {
			r.CurrentTurn = opponentID
		}
		result = r
		return encodeRoom(r)
	})
	if err != nil {
		return nil, err
	}

	if finished != nil && s.repo != nil {
		if err := s.repo.RecordMatchResult(finished); err != nil {
			logging.Error("failed to record match result", err, logging.Fields{constants.LogFieldRoomID: roomID})
		}
	}
	return result, nil
}

// RequestRematch posts a pending rematch request unless one is already
// waiting.
func (s *RoomService) RequestRematch(ctx context.Context, roomID string, from game.Identity) error {
	return s.mutate(ctx, roomID, func(r *game.Room) error {
		if _, ok := r.Players[from.UID]; !ok {
			return ErrNotInRoom
		}
		if r.RematchRequest != nil && r.RematchRequest.Status == game.InviteStatusPending {
			return store.ErrUnchanged
		}
		r.RematchRequest = &game.RematchRequest{
			FromUID:   from.UID,
			FromName:  from.Name,
			Status:    game.InviteStatusPending,
			CreatedAt: time.Now().UnixMilli(),
		}
		return nil
	})
}

// AcceptRematch resets the room back to creature selection, keeping the
// players and settings.
func (s *RoomService) AcceptRematch(ctx context.Context, roomID, uid string) error {
	return s.mutate(ctx, roomID, func(r *game.Room) error {
		if _, ok := r.Players[uid]; !ok {
			return ErrNotInRoom
		}
		if r.RematchRequest == nil {
			return store.ErrUnchanged
		}
		resetBattle(r)
		return nil
	})
}

// DeclineRematch marks the request declined and removes the decliner from
// the room, ending the session for both players.
func (s *RoomService) DeclineRematch(ctx context.Context, roomID, uid string) error {
	err := s.mutate(ctx, roomID, func(r *game.Room) error {
		if _, ok := r.Players[uid]; !ok {
			return ErrNotInRoom
		}
		if r.RematchRequest == nil {
			return store.ErrUnchanged
		}
		r.RematchRequest.Status = game.InviteStatusDeclined
		delete(r.Players, uid)
		r.State = game.StateEnded
		r.CurrentTurn = ""
		return nil
	})
	if err != nil {
		return err
	}
	return s.CleanupIfEmpty(ctx, roomID)
}

// Leave removes the player and marks the room ended; a room left with at
// most one player is deleted outright.
func (s *RoomService) Leave(ctx context.Context, roomID, uid string) error {
	err := s.mutate(ctx, roomID, func(r *game.Room) error {
		if _, ok := r.Players[uid]; !ok {
			return ErrNotInRoom
		}
		delete(r.Players, uid)
		r.RematchRequest = nil
		r.State = game.StateEnded
		r.CurrentTurn = ""
		return nil
	})
	if err != nil {
		return err
	}
	return s.CleanupIfEmpty(ctx, roomID)
}

// CleanupIfEmpty deletes the room when one or zero players remain.
func (s *RoomService) CleanupIfEmpty(ctx context.Context, roomID string) error {
	return s.store.Transaction(ctx, keys.Room(roomID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, store.ErrUnchanged
		}
		r, err := decodeRoom(current, roomID)
		if err != nil {
			return nil, err
		}
		if len(r.Players) <= 1 {
			return nil, nil
		}
		return nil, store.ErrUnchanged
	})
}

// RoomSettings carries the admin-tunable knobs; nil fields stay as they
// are.
type RoomSettings struct {
	GameMode     *string `json:"gameMode,omitempty"`
	RegionFilter *string `json:"regionFilter,omitempty"`
	CardBestOf   *int    `json:"cardBestOf,omitempty"`
}

// UpdateSettings applies room settings. Only the admin may change them
// and never while a match is running.
func (s *RoomService) UpdateSettings(ctx context.Context, roomID, uid string, settings RoomSettings) error {
	return s.mutate(ctx, roomID, func(r *game.Room) error {
		if r.AdminUID != uid {
			return ErrNotAdmin
		}
		if r.State == game.StateInProgress {
			return ErrMidMatch
		}
		if settings.GameMode != nil {
			switch *settings.GameMode {
			case game.ModeCards:
				r.GameMode = game.ModeCards
				r.State = game.StateCardSelecting
				r.CardBattle = nil
			case game.ModeClassic:
				r.GameMode = game.ModeClassic
				r.State = game.StateSelecting
				r.CardBattle = nil
			}
		}
		if settings.RegionFilter != nil {
			r.RegionFilter = *settings.RegionFilter
			r.CardBattle = nil
		}
		if settings.CardBestOf != nil {
			// Only best-of-3 and best-of-5 are offered.
			if *settings.CardBestOf == 5 {
				r.CardBestOf = 5
			} else {
				r.CardBestOf = 3
			}
		}
		return nil
	})
}

// mutate wraps the common transaction shape: load, mutate, encode.
func (s *RoomService) mutate(ctx context.Context, roomID string, fn func(*game.Room) error) error {
	return s.store.Transaction(ctx, keys.Room(roomID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}
		r, err := decodeRoom(current, roomID)
		if err != nil {
			return nil, err
		}
		if err := fn(r); err != nil {
			return nil, err
		}
		return encodeRoom(r)
	})
}

// selecting reports whether the room is in a phase where picking and
// readying are allowed.
func selecting(r *game.Room) bool {
	return r.State == game.StateSelecting || r.State == game.StateCardSelecting
}

func sortedPlayerIDs(r *game.Room) []string {
	ids := make([]string, 0, len(r.Players))
	for pid := range r.Players {
		ids = append(ids, pid)
	}
	sort.Strings(ids)
	return ids
}

func resetBattle(r *game.Room) {
	r.State = game.StateSelecting
	if r.GameMode == game.ModeCards {
		r.State = game.StateCardSelecting
	}
	r.CurrentTurn = ""
	r.WinnerUID = ""
	r.Log = nil
	r.RematchRequest = nil
	r.CardBattle = nil
	for _, slot := range r.Players {
		slot.Pokemon = nil
		slot.HP = 0
		slot.MaxHP = 0
		slot.Ready = false
	}
}
