package channel

// InvitationStatus is the lifecycle state of an invitation.
// Transitions: pending -> accepted | declined; both are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a durable offer of membership for one (user, channel) pair.
// At most one non-declined invitation may exist per pair.
type Invitation struct {
	InvitationID int64            `db:"invitation_id"`
	UserID       int64            `db:"user_id"`
	ChannelID    int64            `db:"channel_id"`
	Status       InvitationStatus `db:"status"`
}

// Resolved reports whether the invitation reached a terminal state.
func (i Invitation) Resolved() bool {
	return i.Status != InvitationPending
}
