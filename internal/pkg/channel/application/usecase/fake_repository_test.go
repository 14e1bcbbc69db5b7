package usecase

import (
	"context"
	"time"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	userrepo "github.com/emalsert/sr03devoir2/internal/repository/port"
)

type memberKey struct {
	userID    int64
	channelID int64
}

// fakeChannelRepository is an in-memory ChannelRepository for use case
// tests. It mirrors the adapter contract: Get/Find return (nil, nil) when
// no row matches.
type fakeChannelRepository struct {
	channels    map[int64]channel.Channel
	members     map[memberKey]struct{}
	invitations map[int64]channel.Invitation

	nextChannelID    int64
	nextInvitationID int64
}

func newFakeChannelRepository() *fakeChannelRepository {
	return &fakeChannelRepository{
		channels:    make(map[int64]channel.Channel),
		members:     make(map[memberKey]struct{}),
		invitations: make(map[int64]channel.Invitation),
	}
}

func (f *fakeChannelRepository) CreateChannel(_ context.Context, c channel.Channel) (int64, error) {
	f.nextChannelID++
	c.ChannelID = f.nextChannelID
	f.channels[c.ChannelID] = c
	return c.ChannelID, nil
}

func (f *fakeChannelRepository) GetChannel(_ context.Context, channelID int64) (*channel.Channel, error) {
	c, ok := f.channels[channelID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeChannelRepository) ChannelExists(_ context.Context, channelID int64) (bool, error) {
	_, ok := f.channels[channelID]
	return ok, nil
}

func (f *fakeChannelRepository) ListUpcomingChannels(_ context.Context, after time.Time) ([]channel.Channel, error) {
	var out []channel.Channel
	for _, c := range f.channels {
		if c.Date.After(after) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepository) UpdateChannel(_ context.Context, c channel.Channel) error {
	f.channels[c.ChannelID] = c
	return nil
}

func (f *fakeChannelRepository) DeleteChannel(_ context.Context, channelID int64) error {
	delete(f.channels, channelID)
	return nil
}

func (f *fakeChannelRepository) AddMember(_ context.Context, userID, channelID int64) error {
	f.members[memberKey{userID, channelID}] = struct{}{}
	return nil
}

func (f *fakeChannelRepository) IsMember(_ context.Context, userID, channelID int64) (bool, error) {
	_, ok := f.members[memberKey{userID, channelID}]
	return ok, nil
}

func (f *fakeChannelRepository) IsOwner(_ context.Context, userID, channelID int64) (bool, error) {
	c, ok := f.channels[channelID]
	return ok && c.OwnerID == userID, nil
}

func (f *fakeChannelRepository) ListMemberIDs(_ context.Context, channelID int64) ([]int64, error) {
	var out []int64
	for key := range f.members {
		if key.channelID == channelID {
			out = append(out, key.userID)
		}
	}
	return out, nil
}

func (f *fakeChannelRepository) CreateInvitation(_ context.Context, inv channel.Invitation) (int64, error) {
	f.nextInvitationID++
	inv.InvitationID = f.nextInvitationID
	f.invitations[inv.InvitationID] = inv
	return inv.InvitationID, nil
}

func (f *fakeChannelRepository) GetInvitation(_ context.Context, invitationID int64) (*channel.Invitation, error) {
	inv, ok := f.invitations[invitationID]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (f *fakeChannelRepository) FindInvitation(_ context.Context, userID, channelID int64) (*channel.Invitation, error) {
	var declined *channel.Invitation
	for _, inv := range f.invitations {
		if inv.UserID != userID || inv.ChannelID != channelID {
			continue
		}
		if inv.Status != channel.InvitationDeclined {
			found := inv
			return &found, nil
		}
		found := inv
		declined = &found
	}
	return declined, nil
}

func (f *fakeChannelRepository) UpdateInvitationStatus(_ context.Context, invitationID int64, status channel.InvitationStatus) error {
	inv, ok := f.invitations[invitationID]
	if !ok {
		return nil
	}
	inv.Status = status
	f.invitations[invitationID] = inv
	return nil
}

func (f *fakeChannelRepository) ListPendingInvitations(_ context.Context, userID int64) ([]channel.Invitation, error) {
	var out []channel.Invitation
	for _, inv := range f.invitations {
		if inv.UserID == userID && inv.Status == channel.InvitationPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

// fakeUserRepository serves a fixed set of users keyed by id.
type fakeUserRepository struct {
	users map[int64]userrepo.User
}

func newFakeUserRepository(users ...userrepo.User) *fakeUserRepository {
	f := &fakeUserRepository{users: make(map[int64]userrepo.User)}
	for _, u := range users {
		f.users[u.UserID] = u
	}
	return f
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (*userrepo.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, userrepo.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(_ context.Context, id int64) (*userrepo.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userrepo.ErrUserNotFound
	}
	return &u, nil
}
