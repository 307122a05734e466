package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/engine"
	"github.com/ivan12/Pokedex/internal/game"
)

// GetCreature serves one creature plus its derived battle data. The id
// path segment also accepts a creature name.
func (h *ArenaHandler) GetCreature(c *gin.Context) {
	idOrName := c.Param("id")

	var (
		creature *game.Creature
		err      error
	)
	if id, convErr := strconv.Atoi(idOrName); convErr == nil {
		creature, err = h.dex.ByID(c.Request.Context(), id)
	} else {
		creature, err = h.dex.ByName(c.Request.Context(), idOrName)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCreatureMissing})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"creature": creature,
		"stats":    engine.EffectiveStats(creature, game.Modifiers{}),
		"moves":    engine.DerivedMoves(creature),
	})
}

// ListCreatures lists the ids already held in the local cache, optionally
// narrowed to a region.
func (h *ArenaHandler) ListCreatures(c *gin.Context) {
	ids, err := h.repo.CachedIDs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCreatures})
		return
	}
	region := c.Query("region")
	if region != "" {
		span := game.RegionOrAll(region)
		filtered := ids[:0]
		for _, id := range ids {
			if id >= span.Start && id <= span.End {
				filtered = append(filtered, id)
			}
		}
		ids = filtered
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids, constants.JSONKeyMessage: strconv.Itoa(len(ids)) + " cached"})
}
