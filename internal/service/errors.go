package service

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotInRoom       = errors.New("player is not in this room")
	ErrNotYourTurn     = errors.New("it is not this player's turn")
	ErrNotAdmin        = errors.New("only the room admin can change settings")
	ErrMidMatch        = errors.New("settings cannot change during a match")
	ErrCreatureMissing = errors.New("both players need a creature")
	ErrWrongMode       = errors.New("operation not valid for this game mode")

	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteResolved  = errors.New("invite already responded to")
	ErrInvitePending   = errors.New("sender already has a pending invite")
	ErrTargetInBattle  = errors.New("player is already in a battle")
	ErrInviteToSelf    = errors.New("cannot invite yourself")

	ErrNotChooser    = errors.New("another player chooses this round")
	ErrRoundRevealed = errors.New("round already revealed")
	ErrMatchOver     = errors.New("card match already decided")
)
