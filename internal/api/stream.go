package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/keys"
	"github.com/ivan12/Pokedex/internal/logging"
	"github.com/ivan12/Pokedex/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The session cookie is the actual gate; the origin check would only
	// block the dev frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

type streamMessage struct {
	Type    string          `json:"type"`
	Players []game.Presence `json:"players,omitempty"`
	Invites []game.Invite   `json:"invites,omitempty"`
	Room    *game.Room      `json:"room,omitempty"`
	RoomID  string          `json:"roomId,omitempty"`
}

// Stream upgrades to a websocket and pushes live snapshots: the online
// players list, the caller's invite inbox, and any room the caller is
// seated in. Store events act as dirty markers; every push re-reads the
// current state, so dropped intermediate events cost nothing.
func (h *ArenaHandler) Stream(c *gin.Context) {
	ident := identityFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldUID: ident.UID})
		return
	}

	sessionID := uuid.NewString()
	ctx := c.Request.Context()
	if err := h.presence.Connect(ctx, sessionID, ident); err != nil {
		logging.Error("presence connect failed", err, logging.Fields{constants.LogFieldUID: ident.UID})
	}

	presenceEvents, cancelPresence := h.store.Subscribe(keys.PresencePrefix)
	inviteEvents, cancelInvites := h.store.Subscribe(keys.InviteInbox(ident.UID))
	roomEvents, cancelRooms := h.store.Subscribe(keys.RoomsPrefix)

	done := make(chan struct{})

	// Read loop: consumes pongs and client heartbeats, and signals close.
	go func() {
		defer close(done)
		conn.SetReadLimit(1024)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(data, &msg) == nil && msg.Type == "heartbeat" {
				_ = h.presence.Heartbeat(ctx, ident.UID)
			}
		}
	}()

	defer func() {
		cancelPresence()
		cancelInvites()
		cancelRooms()
		h.presence.Disconnect(sessionID)
		conn.Close()
	}()

	write := func(msg streamMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			return false
		}
		return true
	}

	// watched remembers rooms the caller was seen in, so their deletion
	// can be reported.
	watched := map[string]bool{}
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case _, ok := <-presenceEvents:
			if !ok {
				return
			}
			players, err := h.presence.List(ctx)
			if err != nil {
				continue
			}
			if !write(streamMessage{Type: "presence", Players: players}) {
				return
			}
		case _, ok := <-inviteEvents:
			if !ok {
				return
			}
			invites, err := h.invites.Inbox(ctx, ident.UID)
			if err != nil {
				continue
			}
			if !write(streamMessage{Type: "invites", Invites: invites}) {
				return
			}
		case ev, ok := <-roomEvents:
			if !ok {
				return
			}
			roomID := strings.TrimPrefix(ev.Path, keys.RoomsPrefix)
			if ev.Value == nil {
				if watched[roomID] {
					delete(watched, roomID)
					if !write(streamMessage{Type: "roomDeleted", RoomID: roomID}) {
						return
					}
				}
				continue
			}
			room, err := h.rooms.Get(ctx, roomID)
			if err != nil {
				if err == service.ErrRoomNotFound && watched[roomID] {
					delete(watched, roomID)
					if !write(streamMessage{Type: "roomDeleted", RoomID: roomID}) {
						return
					}
				}
				continue
			}
			if _, seated := room.Players[ident.UID]; seated {
				watched[roomID] = true
				if !write(streamMessage{Type: "room", Room: room}) {
					return
				}
			} else if watched[roomID] {
				// The caller was removed from the room.
				delete(watched, roomID)
				if !write(streamMessage{Type: "roomDeleted", RoomID: roomID}) {
					return
				}
			}
		}
	}
}
