package usecase

import (
	"context"
	"fmt"
	"time"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// UpdateChannelInput carries the editable fields of a channel.
type UpdateChannelInput struct {
	ChannelID       int64
	Title           string
	Description     string
	Date            time.Time
	DurationMinutes int
}

// UpdateChannelUseCase re-validates and persists channel changes. Ownership
// does not change on update.
type UpdateChannelUseCase struct {
	Repo repository.ChannelRepository
}

func NewUpdateChannelUseCase(repo repository.ChannelRepository) *UpdateChannelUseCase {
	return &UpdateChannelUseCase{Repo: repo}
}

func (uc *UpdateChannelUseCase) Execute(ctx context.Context, in UpdateChannelInput) (*channel.Channel, error) {
	if in.ChannelID == 0 {
		return nil, fmt.Errorf("channel_id is required")
	}

	existing, err := uc.Repo.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing == nil {
		return nil, channel.ErrChannelNotFound
	}

	c, err := channel.NewChannel(channel.Channel{
		ChannelID:       in.ChannelID,
		OwnerID:         existing.OwnerID,
		Title:           in.Title,
		Description:     in.Description,
		Date:            in.Date,
		DurationMinutes: in.DurationMinutes,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateChannel(ctx, *c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return c, nil
}
