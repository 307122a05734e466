package constants

// Centralized constants for env keys, headers, routes and store paths.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "POKEARENA_CONFIG"
	EnvDBPath              = "POKEARENA_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Session / Cookie names
	CookieSessionName = "pa_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"

	// PokeAPI endpoints
	PokeAPIBaseURL     = "https://pokeapi.co/api/v2"
	PokeAPIListPath    = "/pokemon"
	PokeAPIMaxCreature = 1010
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteHealthz     = "/healthz"
	RouteCreatures   = "/creatures"
	RouteCreatureID  = "/creatures/:id"
	RoutePlayers     = "/players"
	RouteLeaderboard = "/leaderboard"
	RouteMatches     = "/matches"
	RouteStream      = "/ws"

	RouteInviteSend    = "/invites/:uid"
	RouteInviteCancel  = "/invites/:uid/:inviteID"
	RouteInviteAccept  = "/invites/:inviteID/accept"
	RouteInviteDecline = "/invites/:inviteID/decline"

	RouteRoomByID     = "/rooms/:roomID"
	RouteRoomCreature = "/rooms/:roomID/creature"
	RouteRoomReady    = "/rooms/:roomID/ready"
	RouteRoomTurn     = "/rooms/:roomID/turn"
	RouteRoomRematch  = "/rooms/:roomID/rematch"
	RouteRoomLeave    = "/rooms/:roomID/leave"
	RouteRoomSettings = "/rooms/:roomID/settings"
	RouteRoomCardDeal = "/rooms/:roomID/cards/deal"
	RouteRoomCardStat = "/rooms/:roomID/cards/stat"

	RoutePvE      = "/pve"
	RoutePvEStart = "/pve/start"
	RoutePvETurn  = "/pve/turn"
	RoutePvEStop  = "/pve/stop"

	RouteVersion = "/version"

	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteAuthLogout         = "/auth/logout"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrAuthRequired     = "Authentication required"
	ErrInvalidSession   = "Invalid session"

	ErrRoomNotFound    = "Room not found"
	ErrInviteNotFound  = "Invite not found"
	ErrNotInRoom       = "You are not in this room"
	ErrNotYourTurn     = "It is not your turn"
	ErrNotRoomAdmin    = "Only the room admin can change settings"
	ErrRoomMidMatch    = "Settings cannot change during a match"
	ErrTargetInBattle  = "Player is already in a battle"
	ErrInvitePending   = "You already have a pending invite"
	ErrCreatureMissing = "Creature not found"
	ErrBattleNotFound  = "No active battle"

	ErrFailedFetchCreatures   = "Failed to fetch creatures"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchMatches     = "Failed to fetch match history"
	ErrFailedStoreWrite       = "Failed to update shared state"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"
)

// Logging field names
const (
	LogFieldRoomID   = "room_id"
	LogFieldInviteID = "invite_id"
	LogFieldUID      = "uid"
	LogFieldPath     = "path"
	LogFieldAddr     = "addr"
	LogFieldRegion   = "region"
	LogFieldCount    = "count"
	LogFieldPokeID   = "poke_id"
)
