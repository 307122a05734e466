package service

import (
	"context"

	"github.com/ivan12/Pokedex/internal/engine"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/pokedex"
	"github.com/ivan12/Pokedex/internal/rng"
	"github.com/ivan12/Pokedex/internal/store"
)

// CardService runs the best-of-N card duel inside a room: each round both
// players draw a random creature, the chooser picks a stat and the higher
// value scores.
type CardService struct {
	store store.Store
	pool  pokedex.CreaturePool
	src   rng.Source
}

func NewCardService(st store.Store, pool pokedex.CreaturePool, src rng.Source) *CardService {
	if src == nil {
		src = rng.New()
	}
	return &CardService{store: st, pool: pool, src: src}
}

// StartRound deals the next round on behalf of the room admin. Hands are
// drawn outside the transaction (the draws hit the creature pool) and the
// transaction revalidates the room before committing them.
func (s *CardService) StartRound(ctx context.Context, roomID, uid string) error {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if _, ok := room.Players[uid]; !ok {
		return ErrNotInRoom
	}
	if room.AdminUID != uid {
		return ErrNotAdmin
	}
	if room.GameMode != game.ModeCards {
		return ErrWrongMode
	}

	hands := make(map[string]*game.Creature, len(room.Players))
	for _, pid := range sortedPlayerIDs(room) {
		c, err := s.pool.Random(ctx, room.RegionFilter)
		if err != nil {
			return err
		}
		hands[pid] = c
	}
	if len(hands) < 2 {
		return ErrCreatureMissing
	}

	return s.store.Transaction(ctx, keys.Room(roomID), func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrRoomNotFound
		}
		r, err := decodeRoom(current, roomID)
		if err != nil {
			return nil, err
		}
		if r.GameMode != game.ModeCards {
			return nil, ErrWrongMode
		}
		if r.AdminUID != uid {
			return nil, ErrNotAdmin
		}
		for pid := range hands {
			if _, ok := r.Players[pid]; !ok {
				// Room membership changed under us; the caller retries.
				return nil, store.ErrUnchanged
			}
		}

		ids := sortedPlayerIDs(r)
		round := 1
		bestOf := r.CardBestOf
		if bestOf == 0 {
			bestOf = 3
		}
		scores := map[string]int{}
		matchWinner := ""
		chooser := ""
		if cb := r.CardBattle; cb != nil {
			round = cb.Round + 1
			if cb.MaxRounds > 0 && r.CardBestOf == 0 {
				bestOf = cb.MaxRounds
			}
			if round > bestOf && cb.MatchWinner != "" {
				return nil, ErrMatchOver
			}
			scores = cb.Scores
			if scores == nil {
				scores = map[string]int{}
			}
			matchWinner = cb.MatchWinner
			chooser = cb.WinnerRound
		}
		// Round winners keep choosing; otherwise pick someone at random.
		if chooser == "" || r.Players[chooser] == nil {
			chooser = ids[s.src.Intn(len(ids))]
		}

		region := r.RegionFilter
		if region == "" {
			region = "all"
		}
		r.CardBattle = &game.CardBattle{
			Round:       round,
			MaxRounds:   bestOf,
			Region:      region,
			Scores:      scores,
			Hands:       hands,
			Choices:     map[string]game.CardStatKey{},
			ChooserUID:  chooser,
			MatchWinner: matchWinner,
		}
		return encodeRoom(r)
	})
}

// PickStat registers the chooser's stat for the round. Picking the same
// stat again withdraws it; picking a stat reveals the round and scores
// it. Once enough rounds are won the match winner is fixed, with an even
// final score leaving the match without a winner.
func (s *CardService) PickStat(ctx context.Context, roomID, uid string, stat game.CardStatKey) error {
	return s.store.Transaction(ctx, keys.Room(roomID), func(current []byte) ([]byte, error) {
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
		cb := r.CardBattle
		if cb == nil || cb.MatchWinner != "" {
			return nil, ErrMatchOver
		}
		if cb.Revealed {
			return nil, ErrRoundRevealed
		}
		if cb.ChooserUID != "" && cb.ChooserUID != uid {
			return nil, ErrNotChooser
		}

		if cb.Choices == nil {
			cb.Choices = map[string]game.CardStatKey{}
		}
		if cb.Choices[uid] == stat {
			delete(cb.Choices, uid)
			cb.SelectedStat = ""
			cb.Revealed = false
			cb.WinnerRound = ""
			return encodeRoom(r)
		}

		cb.Choices[uid] = stat
		cb.SelectedStat = stat
		if cb.Scores == nil {
			cb.Scores = map[string]int{}
		}

		ids := sortedPlayerIDs(r)
		if len(ids) == 2 {
			a, b := ids[0], ids[1]
			valA := engine.CardStatValue(cb.Hands[a], stat)
			valB := engine.CardStatValue(cb.Hands[b], stat)
			switch {
			case valA > valB:
				cb.Scores[a]++
				cb.WinnerRound = a
			case valB > valA:
				cb.Scores[b]++
				cb.WinnerRound = b
			default:
				cb.WinnerRound = ""
			}
			cb.Revealed = true

			maxScore := cb.Scores[a]
			if cb.Scores[b] > maxScore {
				maxScore = cb.Scores[b]
			}
			needed := (cb.MaxRounds + 1) / 2
			if maxScore >= needed || cb.Round >= cb.MaxRounds {
				switch {
				case cb.Scores[a] == cb.Scores[b]:
					cb.MatchWinner = ""
				case cb.Scores[a] > cb.Scores[b]:
					cb.MatchWinner = a
				default:
					cb.MatchWinner = b
				}
			}
			if cb.WinnerRound != "" {
				cb.ChooserUID = cb.WinnerRound
			}
		}
		return encodeRoom(r)
	})
}

func (s *CardService) loadRoom(ctx context.Context, roomID string) (*game.Room, error) {
	data, err := s.store.Get(ctx, keys.Room(roomID))
	if err == store.ErrNotFound {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRoom(data, roomID)
}
