package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/constants"
)

// ListPlayers returns the players the caller could invite: online users
// other than the caller who are not already in a battle.
func (h *ArenaHandler) ListPlayers(c *gin.Context) {
	ident := identityFrom(c)
	players, err := h.presence.ListAvailable(c.Request.Context(), ident.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreWrite})
		return
	}
	c.JSON(http.StatusOK, players)
}

// ListLeaderboard returns the top players by wins.
func (h *ArenaHandler) ListLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	users, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListMatches returns the caller's recent match history.
func (h *ArenaHandler) ListMatches(c *gin.Context) {
	ident := identityFrom(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	matches, err := h.repo.GetMatchHistory(ident.UID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMatches})
		return
	}
	c.JSON(http.StatusOK, matches)
}
