package usecase

import (
	"context"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// AcceptInvitationInput wraps the invitation identifier.
type AcceptInvitationInput struct {
	InvitationID int64
}

// AcceptInvitationUseCase resolves a pending invitation into a membership.
// Accepting is the only path that creates a membership row besides owner
// auto-membership at channel creation.
type AcceptInvitationUseCase struct {
	Repo repository.ChannelRepository
}

func NewAcceptInvitationUseCase(repo repository.ChannelRepository) *AcceptInvitationUseCase {
	return &AcceptInvitationUseCase{Repo: repo}
}

func (uc *AcceptInvitationUseCase) Execute(ctx context.Context, in AcceptInvitationInput) (*channel.Invitation, error) {
	if in.InvitationID == 0 {
		return nil, fmt.Errorf("invitation_id is required")
	}

	inv, err := uc.Repo.GetInvitation(ctx, in.InvitationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if inv == nil {
		return nil, channel.ErrInvitationNotFound
	}
	if inv.Resolved() {
		return nil, channel.ErrInvitationAlreadyResolved
	}

	member, err := uc.Repo.IsMember(ctx, inv.UserID, inv.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if member {
		return nil, channel.ErrAlreadyMember
	}

	if err := uc.Repo.AddMember(ctx, inv.UserID, inv.ChannelID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := uc.Repo.UpdateInvitationStatus(ctx, inv.InvitationID, channel.InvitationAccepted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	inv.Status = channel.InvitationAccepted
	return inv, nil
}
