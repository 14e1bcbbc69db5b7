package repository

import (
	"context"
	"time"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
)

// ChannelRepository defines persistence operations for channels, memberships
// and invitations. Adapters map "no rows" to (nil, nil) for Get/Find calls;
// use cases own the translation into domain errors.
type ChannelRepository interface {
	CreateChannel(ctx context.Context, c channel.Channel) (int64, error)
	GetChannel(ctx context.Context, channelID int64) (*channel.Channel, error)
	ChannelExists(ctx context.Context, channelID int64) (bool, error)
	ListUpcomingChannels(ctx context.Context, after time.Time) ([]channel.Channel, error)
	UpdateChannel(ctx context.Context, c channel.Channel) error
	DeleteChannel(ctx context.Context, channelID int64) error

	AddMember(ctx context.Context, userID, channelID int64) error
	IsMember(ctx context.Context, userID, channelID int64) (bool, error)
	IsOwner(ctx context.Context, userID, channelID int64) (bool, error)
	ListMemberIDs(ctx context.Context, channelID int64) ([]int64, error)

	CreateInvitation(ctx context.Context, inv channel.Invitation) (int64, error)
	GetInvitation(ctx context.Context, invitationID int64) (*channel.Invitation, error)
	FindInvitation(ctx context.Context, userID, channelID int64) (*channel.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, invitationID int64, status channel.InvitationStatus) error
	ListPendingInvitations(ctx context.Context, userID int64) ([]channel.Invitation, error)
}
