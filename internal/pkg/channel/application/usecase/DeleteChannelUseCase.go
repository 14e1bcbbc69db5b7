package usecase

import (
	"context"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// DeleteChannelInput wraps the channel identifier to delete.
type DeleteChannelInput struct {
	ChannelID int64
}

// DeleteChannelUseCase removes a channel; memberships and invitations go
// with it via schema-level cascade.
type DeleteChannelUseCase struct {
	Repo repository.ChannelRepository
}

func NewDeleteChannelUseCase(repo repository.ChannelRepository) *DeleteChannelUseCase {
	return &DeleteChannelUseCase{Repo: repo}
}

func (uc *DeleteChannelUseCase) Execute(ctx context.Context, in DeleteChannelInput) error {
	if in.ChannelID == 0 {
		return fmt.Errorf("channel_id is required")
	}
	exists, err := uc.Repo.ChannelExists(ctx, in.ChannelID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return channel.ErrChannelNotFound
	}
	if err := uc.Repo.DeleteChannel(ctx, in.ChannelID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
