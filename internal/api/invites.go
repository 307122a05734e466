package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ivan12/Pokedex/internal/constants"
)

// SendInvite drops a battle invite into the target's inbox.
func (h *ArenaHandler) SendInvite(c *gin.Context) {
	ident := identityFrom(c)
	targetUID := c.Param("uid")

	inv, err := h.invites.Send(c.Request.Context(), ident, targetUID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inviteId": inv.ID, "createdAt": inv.CreatedAt})
}

// CancelInvite withdraws the caller's own pending invite.
func (h *ArenaHandler) CancelInvite(c *gin.Context) {
	ident := identityFrom(c)
	targetUID := c.Param("uid")
	inviteID := c.Param("inviteID")

	if err := h.invites.Cancel(c.Request.Context(), ident.UID, targetUID, inviteID); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "invite cancelled"})
}

// AcceptInvite accepts an incoming invite and seats both players in a
// fresh room.
func (h *ArenaHandler) AcceptInvite(c *gin.Context) {
	ident := identityFrom(c)
	inviteID := c.Param("inviteID")

	roomID, err := h.invites.Accept(c.Request.Context(), ident, inviteID)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	_ = h.presence.SetRoom(c.Request.Context(), ident.UID, roomID)
	c.JSON(http.StatusOK, gin.H{"roomId": roomID})
}

// DeclineInvite declines an incoming invite.
func (h *ArenaHandler) DeclineInvite(c *gin.Context) {
	ident := identityFrom(c)
	inviteID := c.Param("inviteID")

	if err := h.invites.Decline(c.Request.Context(), ident.UID, inviteID); err != nil {
		abortServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "invite declined"})
}
