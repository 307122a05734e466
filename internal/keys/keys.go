package keys

// Package keys builds the conventional shared-store paths used by the
// presence, invite and room services. Keeping them in one place prevents
// the services and the stream handler from drifting apart on path layout.

const (
	RoomsPrefix    = "rooms/"
	InvitesPrefix  = "invites/"
	PresencePrefix = "presence/"
)

// Room returns the path of a room document.
func Room(roomID string) string {
	return RoomsPrefix + roomID
}

// Presence returns the path of a user's presence record.
func Presence(uid string) string {
	return PresencePrefix + uid
}

// InviteInbox returns the prefix under which a user's incoming invites live.
func InviteInbox(uid string) string {
	return InvitesPrefix + uid + "/"
}

// Invite returns the path of a single invite in a user's inbox.
func Invite(uid, inviteID string) string {
	return InviteInbox(uid) + inviteID
}
