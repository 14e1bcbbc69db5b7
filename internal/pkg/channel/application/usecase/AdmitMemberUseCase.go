package usecase

import (
	"context"
	"fmt"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// AdmitMemberInput identifies the (user, channel) pair to authorize.
type AdmitMemberInput struct {
	ChannelID int64
	UserID    int64
}

// AdmitMemberUseCase decides whether a user may take part in a channel's
// live session. The same rule gates joins and sends: the caller must be the
// channel owner or hold a membership row. The decision is always re-derived
// from durable state, never from the ephemeral presence registry, so a
// restarted process cannot silently grant access.
//
// The check is pure: on success nothing is mutated; the caller then drives
// presence registration or the broadcast itself.
type AdmitMemberUseCase struct {
	Repo repository.ChannelRepository
}

func NewAdmitMemberUseCase(repo repository.ChannelRepository) *AdmitMemberUseCase {
	return &AdmitMemberUseCase{Repo: repo}
}

func (uc *AdmitMemberUseCase) Execute(ctx context.Context, in AdmitMemberInput) error {
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

	if in.UserID != 0 {
		owner, err := uc.Repo.IsOwner(ctx, in.UserID, in.ChannelID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if owner {
			return nil
		}

		member, err := uc.Repo.IsMember(ctx, in.UserID, in.ChannelID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if member {
			return nil
		}
	}

	return channel.ErrNotAMember
}
