package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/api"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/logging"
	"github.com/ivan12/Pokedex/internal/pokedex"
	"github.com/ivan12/Pokedex/internal/pve"
	"github.com/ivan12/Pokedex/internal/rng"
	"github.com/ivan12/Pokedex/internal/service"
	"github.com/ivan12/Pokedex/internal/store"
)

func main() {
	// godotenv runs inside LoadConfig, so the config file is read before
	// the env check.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./pokearena_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	repo := createRepositoryOrExit(dbPath)

	st := store.NewMemory()
	src := rng.New()

	dex := pokedex.NewClient(repo)
	pool := pokedex.NewPool(dex, src)

	presence := service.NewPresenceService(st)
	invites := service.NewInviteService(st)
	rooms := service.NewRoomService(st, repo, src, cfg.Weather)
	cards := service.NewCardService(st, pool, src)

	pveCfg := pve.Config{
		AutoTurnDelay: cfg.AutoTurnDelay,
		OpenerDelay:   cfg.OpenerDelay,
		LockDelay:     cfg.LockDelay,
		Weather:       cfg.Weather,
	}
	handler := api.NewArenaHandler(st, rooms, invites, presence, cards, dex, pool, repo, pveCfg)
	authHandler := api.NewAuthHandler(repo)

	go seedCreatureCache(dex, cfg.SeedCreatureIDs)
	startSweepers(invites, rooms, st, cfg.InviteTTL)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealthz, api.Healthz)
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteCreatures, handler.ListCreatures)
		apiRoutes.GET(constants.RouteCreatureID, handler.GetCreature)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayers, handler.ListPlayers)
		protected.GET(constants.RouteMatches, handler.ListMatches)
		protected.GET(constants.RouteStream, handler.Stream)

		protected.POST(constants.RouteInviteSend, handler.SendInvite)
		protected.DELETE(constants.RouteInviteCancel, handler.CancelInvite)
		protected.POST(constants.RouteInviteAccept, handler.AcceptInvite)
		protected.POST(constants.RouteInviteDecline, handler.DeclineInvite)

		protected.GET(constants.RouteRoomByID, handler.GetRoom)
		protected.POST(constants.RouteRoomCreature, handler.SetRoomCreature)
		protected.POST(constants.RouteRoomReady, handler.MarkRoomReady)
		protected.POST(constants.RouteRoomTurn, handler.TakeRoomTurn)
		protected.POST(constants.RouteRoomRematch, handler.RoomRematch)
		protected.POST(constants.RouteRoomLeave, handler.LeaveRoom)
		protected.POST(constants.RouteRoomSettings, handler.UpdateRoomSettings)
		protected.POST(constants.RouteRoomCardDeal, handler.DealCardRound)
		protected.POST(constants.RouteRoomCardStat, handler.PickCardStat)

		protected.GET(constants.RoutePvE, handler.GetPvE)
		protected.POST(constants.RoutePvEStart, handler.StartPvE)
		protected.POST(constants.RoutePvETurn, handler.TakePvETurn)
		protected.POST(constants.RoutePvEStop, handler.StopPvE)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)
	router.POST(constants.RouteAuthLogout, authHandler.Logout)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
