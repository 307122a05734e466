package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/pve"
)

type startPvERequest struct {
	CreatureID int    `json:"creatureId"`
	Name       string `json:"name"`
	OpponentID int    `json:"opponentId"`
	Region     string `json:"region"`
	StartMode  string `json:"startMode"`
}

// StartPvE opens a solo battle for the caller: their pick on the left,
// a chosen or randomly drawn opponent on the right. One battle per user;
// starting again replaces the previous one.
func (h *ArenaHandler) StartPvE(c *gin.Context) {
	ident := identityFrom(c)

	var req startPvERequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.CreatureID <= 0 && req.Name == "") {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	var (
		left *game.Creature
		err  error
	)
	if req.CreatureID > 0 {
		left, err = h.dex.ByID(c.Request.Context(), req.CreatureID)
	} else {
		left, err = h.dex.ByName(c.Request.Context(), req.Name)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCreatureMissing})
		return
	}

	var right *game.Creature
	if req.OpponentID > 0 {
		right, err = h.dex.ByID(c.Request.Context(), req.OpponentID)
	} else {
		right, err = h.pool.Random(c.Request.Context(), req.Region)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCreatureMissing})
		return
	}

	cfg := h.pveCfg
	switch game.StartMode(req.StartMode) {
	case game.StartBySpeed, game.StartLeft, game.StartRight, game.StartAtRandom:
		cfg.StartMode = game.StartMode(req.StartMode)
	}

	battle := pve.New(left, right, cfg, nil)

	h.pveMu.Lock()
	if old, ok := h.pveBattles[ident.UID]; ok {
		old.Reset()
	}
	h.pveBattles[ident.UID] = battle
	h.pveMu.Unlock()

	if err := battle.Start(); err != nil {
		abortPvEError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"battle":   battle.Snapshot(),
		"opponent": right,
	})
}

type pveTurnRequest struct {
	MoveIndex *int `json:"moveIndex"`
}

// TakePvETurn plays one move in the caller's solo battle.
func (h *ArenaHandler) TakePvETurn(c *gin.Context) {
	ident := identityFrom(c)
	battle := h.pveBattle(ident.UID)
	if battle == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}

	moveIndex := -1
	var req pveTurnRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.MoveIndex != nil {
		moveIndex = *req.MoveIndex
	}

	if err := battle.ResolveTurn(game.SideLeft, moveIndex); err != nil {
		abortPvEError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": battle.Snapshot()})
}

// GetPvE returns the caller's current solo battle.
func (h *ArenaHandler) GetPvE(c *gin.Context) {
	ident := identityFrom(c)
	battle := h.pveBattle(ident.UID)
	if battle == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": battle.Snapshot()})
}

// StopPvE cancels the caller's solo battle and its timers.
func (h *ArenaHandler) StopPvE(c *gin.Context) {
	ident := identityFrom(c)

	h.pveMu.Lock()
	battle, ok := h.pveBattles[ident.UID]
	delete(h.pveBattles, ident.UID)
	h.pveMu.Unlock()

	if ok {
		battle.Reset()
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "battle stopped"})
}

func (h *ArenaHandler) pveBattle(uid string) *pve.Battle {
	h.pveMu.Lock()
	defer h.pveMu.Unlock()
	return h.pveBattles[uid]
}

func abortPvEError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pve.ErrMissingCreature):
		status = http.StatusBadRequest
	case errors.Is(err, pve.ErrBadMove):
		status = http.StatusBadRequest
	case errors.Is(err, pve.ErrNotActive),
		errors.Is(err, pve.ErrNotYourTurn),
		errors.Is(err, pve.ErrLocked):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{constants.JSONKeyError: err.Error()})
}
