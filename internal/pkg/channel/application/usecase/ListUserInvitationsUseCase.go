package usecase

import (
	"context"
	"errors"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	chrepo "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
	userrepo "github.com/emalsert/sr03devoir2/internal/repository/port"
)

// ListUserInvitationsInput wraps the invitee identifier.
type ListUserInvitationsInput struct {
	UserID int64
}

// ListUserInvitationsUseCase returns the pending invitations addressed to a
// user.
type ListUserInvitationsUseCase struct {
	Repo  chrepo.ChannelRepository
	Users userrepo.UserRepository
}

func NewListUserInvitationsUseCase(repo chrepo.ChannelRepository, users userrepo.UserRepository) *ListUserInvitationsUseCase {
	return &ListUserInvitationsUseCase{Repo: repo, Users: users}
}

func (uc *ListUserInvitationsUseCase) Execute(ctx context.Context, in ListUserInvitationsInput) ([]channel.Invitation, error) {
	if in.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if _, err := uc.Users.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	invs, err := uc.Repo.ListPendingInvitations(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return invs, nil
}
