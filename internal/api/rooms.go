package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/service"
)

// GetRoom returns the room document. Seated players looking at an active
// room are flipped to battle presence so the players list reflects them.
func (h *ArenaHandler) GetRoom(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	room, err := h.rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	if _, ok := room.Players[ident.UID]; ok && room.State != game.StateEnded {
		_ = h.presence.SetRoom(c.Request.Context(), ident.UID, roomID)
	}
	c.JSON(http.StatusOK, room)
}

type setCreatureRequest struct {
	CreatureID int    `json:"creatureId"`
	Name       string `json:"name"`
}

// SetRoomCreature attaches the chosen creature to the caller's slot.
func (h *ArenaHandler) SetRoomCreature(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	var req setCreatureRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.CreatureID <= 0 && req.Name == "") {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	var (
		creature *game.Creature
		err      error
	)
	if req.CreatureID > 0 {
		creature, err = h.dex.ByID(c.Request.Context(), req.CreatureID)
	} else {
		creature, err = h.dex.ByName(c.Request.Context(), req.Name)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCreatureMissing})
		return
	}

	if err := h.rooms.SetCreature(c.Request.Context(), roomID, ident.UID, creature); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "creature set"})
}

// MarkRoomReady confirms the caller's pick; when both players confirmed
// the match starts.
func (h *ArenaHandler) MarkRoomReady(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	if err := h.rooms.MarkReady(c.Request.Context(), roomID, ident.UID); err != nil {
		abortServiceError(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type takeTurnRequest struct {
	MoveIndex *int `json:"moveIndex"`
}

// TakeRoomTurn plays one attack for the caller.
func (h *ArenaHandler) TakeRoomTurn(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	moveIndex := -1
	var req takeTurnRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.MoveIndex != nil {
		moveIndex = *req.MoveIndex
	}

	room, err := h.rooms.TakeTurn(c.Request.Context(), roomID, ident.UID, moveIndex)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type rematchRequest struct {
	Action string `json:"action" binding:"required"` // request | accept | decline
}

// RoomRematch handles the rematch request/accept/decline trio.
func (h *ArenaHandler) RoomRematch(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	var req rematchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	var err error
	switch req.Action {
	case "request":
		err = h.rooms.RequestRematch(c.Request.Context(), roomID, ident)
	case "accept":
		err = h.rooms.AcceptRematch(c.Request.Context(), roomID, ident.UID)
	case "decline":
		err = h.rooms.DeclineRematch(c.Request.Context(), roomID, ident.UID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err != nil {
		abortServiceError(c, err)
		return
	}
	// Declining also removes the decliner from the room.
	if req.Action == "decline" {
		_ = h.presence.SetRoom(c.Request.Context(), ident.UID, "")
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "rematch " + req.Action})
}

// LeaveRoom unseats the caller and returns them to online presence.
func (h *ArenaHandler) LeaveRoom(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	if err := h.rooms.Leave(c.Request.Context(), roomID, ident.UID); err != nil {
		abortServiceError(c, err)
		return
	}
	_ = h.presence.SetRoom(c.Request.Context(), ident.UID, "")
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "left room"})
}

// UpdateRoomSettings applies admin-only room settings.
func (h *ArenaHandler) UpdateRoomSettings(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	var settings service.RoomSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.rooms.UpdateSettings(c.Request.Context(), roomID, ident.UID, settings); err != nil {
		abortServiceError(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DealCardRound deals the next card round; only the room admin may deal.
func (h *ArenaHandler) DealCardRound(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")
	if err := h.cards.StartRound(c.Request.Context(), roomID, ident.UID); err != nil {
		abortServiceError(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type pickStatRequest struct {
	Stat string `json:"stat" binding:"required"`
}

// PickCardStat registers the chooser's stat pick for the round.
func (h *ArenaHandler) PickCardStat(c *gin.Context) {
	ident := identityFrom(c)
	roomID := c.Param("roomID")

	var req pickStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	stat := game.CardStatKey(req.Stat)
	switch stat {
	case game.CardStatStrength, game.CardStatAttack, game.CardStatDefense, game.CardStatAgility:
	default:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	if err := h.cards.PickStat(c.Request.Context(), roomID, ident.UID, stat); err != nil {
		abortServiceError(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}
