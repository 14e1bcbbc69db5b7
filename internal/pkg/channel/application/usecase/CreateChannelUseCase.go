package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	chrepo "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
	userrepo "github.com/emalsert/sr03devoir2/internal/repository/port"
)

// CreateChannelInput carries the data to open a new channel.
type CreateChannelInput struct {
	OwnerID         int64
	Title           string
	Description     string
	Date            time.Time
	DurationMinutes int
}

// CreateChannelUseCase validates and persists a new channel, then registers
// the owner as its first member.
type CreateChannelUseCase struct {
	Repo  chrepo.ChannelRepository
	Users userrepo.UserRepository
}

func NewCreateChannelUseCase(repo chrepo.ChannelRepository, users userrepo.UserRepository) *CreateChannelUseCase {
	return &CreateChannelUseCase{Repo: repo, Users: users}
}

func (uc *CreateChannelUseCase) Execute(ctx context.Context, in CreateChannelInput) (*channel.Channel, error) {
	c, err := channel.NewChannel(channel.Channel{
		OwnerID:         in.OwnerID,
		Title:           in.Title,
		Description:     in.Description,
		Date:            in.Date,
		DurationMinutes: in.DurationMinutes,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	if _, err := uc.Users.GetByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, fmt.Errorf("owner %d does not exist", in.OwnerID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	id, err := uc.Repo.CreateChannel(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	c.ChannelID = id

	// Owner auto-membership: the owner never needs an invitation.
	if err := uc.Repo.AddMember(ctx, in.OwnerID, id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return c, nil
}
