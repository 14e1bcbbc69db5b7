package channel

// Membership is the durable relation letting a user participate in a
// channel. It is created when an invitation is accepted or when the channel
// is created (owner auto-membership), and never expires implicitly.
type Membership struct {
	UserChannelID int64 `db:"user_channel_id"`
	UserID        int64 `db:"user_id"`
	ChannelID     int64 `db:"channel_id"`
}
