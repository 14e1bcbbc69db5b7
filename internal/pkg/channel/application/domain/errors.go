package channel

import "errors"

// Domain-level errors for channel and invitation behaviors.
var (
	ErrChannelNotFound           = errors.New("channel: channel not found")
	ErrNotAMember                = errors.New("channel: user is not a member of this channel")
	ErrAlreadyMember             = errors.New("channel: user is already a member of this channel")
	ErrInvitationNotFound        = errors.New("channel: invitation not found")
	ErrInvitationAlreadyResolved = errors.New("channel: invitation was already accepted or declined")
	ErrInvitationPending         = errors.New("channel: an invitation is already pending for this user")
)
