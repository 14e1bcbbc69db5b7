package usecase

import (
	"context"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// ListChannelMembersInput wraps the channel identifier.
type ListChannelMembersInput struct {
	ChannelID int64
}

// ListChannelMembersUseCase returns the user ids holding a membership row
// for the channel.
type ListChannelMembersUseCase struct {
	Repo repository.ChannelRepository
}

func NewListChannelMembersUseCase(repo repository.ChannelRepository) *ListChannelMembersUseCase {
	return &ListChannelMembersUseCase{Repo: repo}
}

func (uc *ListChannelMembersUseCase) Execute(ctx context.Context, in ListChannelMembersInput) ([]int64, error) {
	if in.ChannelID == 0 {
		return nil, fmt.Errorf("channel_id is required")
	}
	exists, err := uc.Repo.ChannelExists(ctx, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return nil, channel.ErrChannelNotFound
	}
	ids, err := uc.Repo.ListMemberIDs(ctx, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ids, nil
}
