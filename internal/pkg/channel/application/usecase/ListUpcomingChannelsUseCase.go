package usecase

import (
	"context"
	"fmt"
	"time"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// ListUpcomingChannelsUseCase returns channels whose date is in the future.
type ListUpcomingChannelsUseCase struct {
	Repo repository.ChannelRepository
}

func NewListUpcomingChannelsUseCase(repo repository.ChannelRepository) *ListUpcomingChannelsUseCase {
	return &ListUpcomingChannelsUseCase{Repo: repo}
}

func (uc *ListUpcomingChannelsUseCase) Execute(ctx context.Context) ([]channel.Channel, error) {
	channels, err := uc.Repo.ListUpcomingChannels(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return channels, nil
}
