package service

// JSON codecs for the documents kept in the shared store. Every service
// round-trips through these so the stored shape stays uniform.

import (
	"encoding/json"

	"github.com/ivan12/Pokedex/internal/game"
)

func decodeRoom(data []byte, roomID string) (*game.Room, error) {
	var r game.Room
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	r.ID = roomID
	return &r, nil
}

func encodeRoom(r *game.Room) ([]byte, error) {
	return json.Marshal(r)
}

func decodeInvite(data []byte, inviteID string) (*game.Invite, error) {
	var inv game.Invite
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	inv.ID = inviteID
	return &inv, nil
}

func encodeInvite(inv *game.Invite) ([]byte, error) {
	return json.Marshal(inv)
}

func decodePresence(data []byte) (*game.Presence, error) {
	var p game.Presence
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func encodePresence(p *game.Presence) ([]byte, error) {
	return json.Marshal(p)
}
