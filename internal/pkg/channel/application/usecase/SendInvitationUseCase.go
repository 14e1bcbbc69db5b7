package usecase

import (
	"context"
	"errors"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	chrepo "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
	userrepo "github.com/emalsert/sr03devoir2/internal/repository/port"
)

// SendInvitationInput identifies the invitee and target channel.
type SendInvitationInput struct {
	UserID    int64
	ChannelID int64
}

// SendInvitationOutput carries the data the caller needs to notify the
// invitee (realtime nudge, email task).
type SendInvitationOutput struct {
	Invitation   channel.Invitation
	InviteeEmail string
	ChannelTitle string
}

// SendInvitationUseCase creates a pending invitation, enforcing at most one
// non-declined invitation per (user, channel) pair: a pending one blocks a
// resend, an accepted one means the user is already a member. A previously
// declined invitation does not block a new offer.
type SendInvitationUseCase struct {
	Repo  chrepo.ChannelRepository
	Users userrepo.UserRepository
}

func NewSendInvitationUseCase(repo chrepo.ChannelRepository, users userrepo.UserRepository) *SendInvitationUseCase {
	return &SendInvitationUseCase{Repo: repo, Users: users}
}

func (uc *SendInvitationUseCase) Execute(ctx context.Context, in SendInvitationInput) (*SendInvitationOutput, error) {
	if in.UserID == 0 || in.ChannelID == 0 {
		return nil, fmt.Errorf("user_id and channel_id are required")
	}

	user, err := uc.Users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ch, err := uc.Repo.GetChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if ch == nil {
		return nil, channel.ErrChannelNotFound
	}

	existing, err := uc.Repo.FindInvitation(ctx, in.UserID, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		switch existing.Status {
		case channel.InvitationPending:
			return nil, channel.ErrInvitationPending
		case channel.InvitationAccepted:
			return nil, channel.ErrAlreadyMember
		}
	}

	inv := channel.Invitation{
		UserID:    in.UserID,
		ChannelID: in.ChannelID,
		Status:    channel.InvitationPending,
	}
	id, err := uc.Repo.CreateInvitation(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	inv.InvitationID = id

	return &SendInvitationOutput{
		Invitation:   inv,
		InviteeEmail: user.Email,
		ChannelTitle: ch.Title,
	}, nil
}
