package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/pokedex"
	"github.com/ivan12/Pokedex/internal/pve"
	"github.com/ivan12/Pokedex/internal/service"
	"github.com/ivan12/Pokedex/internal/storage"
	"github.com/ivan12/Pokedex/internal/store"
)

// ArenaHandler bundles the services behind the HTTP surface.
type ArenaHandler struct {
	store    store.Store
	rooms    *service.RoomService
	invites  *service.InviteService
	presence *service.PresenceService
	cards    *service.CardService
	dex      *pokedex.Client
	pool     pokedex.CreaturePool
	repo     storage.Repository

	pveCfg     pve.Config
	pveMu      sync.Mutex
	pveBattles map[string]*pve.Battle
}

func NewArenaHandler(
	st store.Store,
	rooms *service.RoomService,
	invites *service.InviteService,
	presence *service.PresenceService,
	cards *service.CardService,
	dex *pokedex.Client,
	pool pokedex.CreaturePool,
	repo storage.Repository,
	pveCfg pve.Config,
) *ArenaHandler {
	return &ArenaHandler{
		store:      st,
		rooms:      rooms,
		invites:    invites,
		presence:   presence,
		cards:      cards,
		dex:        dex,
		pool:       pool,
		repo:       repo,
		pveCfg:     pveCfg,
		pveBattles: make(map[string]*pve.Battle),
	}
}

// abortServiceError maps service errors onto HTTP statuses.
func abortServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := constants.ErrFailedStoreWrite
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		status, msg = http.StatusNotFound, constants.ErrRoomNotFound
	case errors.Is(err, service.ErrInviteNotFound):
		status, msg = http.StatusNotFound, constants.ErrInviteNotFound
	case errors.Is(err, service.ErrNotInRoom):
		status, msg = http.StatusForbidden, constants.ErrNotInRoom
	case errors.Is(err, service.ErrNotAdmin):
		status, msg = http.StatusForbidden, constants.ErrNotRoomAdmin
	case errors.Is(err, service.ErrNotYourTurn):
		status, msg = http.StatusConflict, constants.ErrNotYourTurn
	case errors.Is(err, service.ErrMidMatch):
		status, msg = http.StatusConflict, constants.ErrRoomMidMatch
	case errors.Is(err, service.ErrTargetInBattle):
		status, msg = http.StatusConflict, constants.ErrTargetInBattle
	case errors.Is(err, service.ErrInvitePending):
		status, msg = http.StatusConflict, constants.ErrInvitePending
	case errors.Is(err, service.ErrInviteResolved),
		errors.Is(err, service.ErrWrongMode),
		errors.Is(err, service.ErrNotChooser),
		errors.Is(err, service.ErrRoundRevealed),
		errors.Is(err, service.ErrMatchOver):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrCreatureMissing):
		status, msg = http.StatusConflict, constants.ErrCreatureMissing
	case errors.Is(err, service.ErrInviteToSelf):
		status, msg = http.StatusBadRequest, constants.ErrInvalidRequest
	}
	c.AbortWithStatusJSON(status, gin.H{constants.JSONKeyError: msg})
}
