package channel

import (
	"errors"
	"strings"
	"time"
)

// Channel is a time-boxed discussion room with one owner and a set of
// members. The owner is always a member; the membership row is created
// together with the channel.
type Channel struct {
	ChannelID       int64     `db:"channel_id"`
	OwnerID         int64     `db:"user_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Date            time.Time `db:"date"`
	DurationMinutes int       `db:"duration_minutes"`
}

// NewChannel validates and normalizes the fields of a channel to create.
func NewChannel(c Channel, now time.Time) (*Channel, error) {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)

	if c.Title == "" {
		return nil, errors.New("channel title is required")
	}
	if c.Description == "" {
		return nil, errors.New("channel description is required")
	}
	if c.Date.IsZero() {
		return nil, errors.New("channel date is required")
	}
	if now.IsZero() {
		now = time.Now()
	}
	if c.Date.Before(now) {
		return nil, errors.New("channel date must be in the future")
	}
	if c.DurationMinutes <= 0 {
		return nil, errors.New("channel duration must be positive")
	}
	if c.OwnerID == 0 {
		return nil, errors.New("channel owner is required")
	}
	return &c, nil
}
