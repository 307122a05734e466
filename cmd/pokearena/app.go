package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/ivan12/Pokedex/internal/config"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/logging"
	"github.com/ivan12/Pokedex/internal/pokedex"
	"github.com/ivan12/Pokedex/internal/service"
	"github.com/ivan12/Pokedex/internal/storage"
	"github.com/ivan12/Pokedex/internal/store"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}

// seedCreatureCache warms the local creature cache in the background so
// the first card deals and lookups avoid the slow upstream path.
func seedCreatureCache(dex *pokedex.Client, ids []int) {
	if len(ids) == 0 {
		return
	}
	ctx := context.Background()
	warmed := 0
	for _, id := range ids {
		if _, err := dex.ByID(ctx, id); err != nil {
			logging.Error("failed to seed creature", err, logging.Fields{constants.LogFieldPokeID: id})
			continue
		}
		warmed++
	}
	logging.Info("creature cache seeded", logging.Fields{constants.LogFieldCount: warmed})
}

// startSweepers runs the periodic maintenance jobs: stale invites are
// declined after the TTL and abandoned rooms are collected.
func startSweepers(invites *service.InviteService, rooms *service.RoomService, st store.Store, inviteTTL time.Duration) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("Failed to create scheduler", err, nil)
	}

	_, _ = sched.NewJob(
		gocron.DurationJob(inviteTTL),
		gocron.NewTask(func() {
			invites.ExpireStale(context.Background(), inviteTTL)
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			sweepRooms(rooms, st)
		}),
	)

	sched.Start()
}

// sweepRooms deletes rooms that everyone (or all but one player) walked
// away from without calling leave.
func sweepRooms(rooms *service.RoomService, st store.Store) {
	ctx := context.Background()
	docs, err := st.List(ctx, keys.RoomsPrefix)
	if err != nil {
		logging.Error("room sweep failed to list rooms", err, nil)
		return
	}
	for path, data := range docs {
		var partial struct {
			Players map[string]json.RawMessage `json:"players"`
		}
		if json.Unmarshal(data, &partial) != nil || len(partial.Players) > 1 {
			continue
		}
		roomID := strings.TrimPrefix(path, keys.RoomsPrefix)
		if err := rooms.CleanupIfEmpty(ctx, roomID); err != nil {
			logging.Error("room sweep failed", err, logging.Fields{constants.LogFieldRoomID: roomID})
		}
	}
}
