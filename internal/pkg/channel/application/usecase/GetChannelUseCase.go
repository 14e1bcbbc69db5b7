package usecase

import (
	"context"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// GetChannelInput wraps the channel identifier to fetch.
type GetChannelInput struct {
	ChannelID int64
}

// GetChannelUseCase fetches a single channel by id.
type GetChannelUseCase struct {
	Repo repository.ChannelRepository
}

func NewGetChannelUseCase(repo repository.ChannelRepository) *GetChannelUseCase {
	return &GetChannelUseCase{Repo: repo}
}

func (uc *GetChannelUseCase) Execute(ctx context.Context, in GetChannelInput) (*channel.Channel, error) {
	if in.ChannelID == 0 {
		return nil, fmt.Errorf("channel_id is required")
	}
	c, err := uc.Repo.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c == nil {
		return nil, channel.ErrChannelNotFound
	}
	return c, nil
}
