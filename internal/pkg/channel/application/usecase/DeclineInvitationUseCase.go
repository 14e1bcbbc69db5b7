package usecase

import (
	"context"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// DeclineInvitationInput wraps the invitation identifier.
type DeclineInvitationInput struct {
	InvitationID int64
}

// DeclineInvitationUseCase marks a pending invitation declined. The row is
// kept (not deleted) so the lifecycle stays auditable; a declined invitation
// no longer blocks a fresh offer.
type DeclineInvitationUseCase struct {
	Repo repository.ChannelRepository
}

func NewDeclineInvitationUseCase(repo repository.ChannelRepository) *DeclineInvitationUseCase {
	return &DeclineInvitationUseCase{Repo: repo}
}

func (uc *DeclineInvitationUseCase) Execute(ctx context.Context, in DeclineInvitationInput) error {
	if in.InvitationID == 0 {
		return fmt.Errorf("invitation_id is required")
	}

	inv, err := uc.Repo.GetInvitation(ctx, in.InvitationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if inv == nil {
		return channel.ErrInvitationNotFound
	}
	if inv.Resolved() {
		return channel.ErrInvitationAlreadyResolved
	}

	if err := uc.Repo.UpdateInvitationStatus(ctx, inv.InvitationID, channel.InvitationDeclined); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
