package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
)

func seedChannel(t *testing.T, repo *fakeChannelRepository, ownerID int64) int64 {
	t.Helper()
	id, err := repo.CreateChannel(context.Background(), channel.Channel{
		OwnerID:         ownerID,
		Title:           "weekly sync",
		Description:     "status round",
		Date:            time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("seed channel: %v", err)
	}
	if err := repo.AddMember(context.Background(), ownerID, id); err != nil {
		t.Fatalf("seed owner membership: %v", err)
	}
	return id
}

func TestAdmitMemberUseCase(t *testing.T) {
	ctx := context.Background()
	repo := newFakeChannelRepository()
	channelID := seedChannel(t, repo, 7)
	if err := repo.AddMember(ctx, 9, channelID); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	uc := NewAdmitMemberUseCase(repo)

	t.Run("owner is admitted", func(t *testing.T) {
		if err := uc.Execute(ctx, AdmitMemberInput{ChannelID: channelID, UserID: 7}); err != nil {
			t.Errorf("expected admission, got %v", err)
		}
	})

	t.Run("member is admitted", func(t *testing.T) {
		if err := uc.Execute(ctx, AdmitMemberInput{ChannelID: channelID, UserID: 9}); err != nil {
			t.Errorf("expected admission, got %v", err)
		}
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		err := uc.Execute(ctx, AdmitMemberInput{ChannelID: channelID, UserID: 11})
		if !errors.Is(err, channel.ErrNotAMember) {
			t.Errorf("expected ErrNotAMember, got %v", err)
		}
	})

	t.Run("anonymous user is rejected", func(t *testing.T) {
		err := uc.Execute(ctx, AdmitMemberInput{ChannelID: channelID, UserID: 0})
		if !errors.Is(err, channel.ErrNotAMember) {
			t.Errorf("expected ErrNotAMember, got %v", err)
		}
	})

	t.Run("unknown channel", func(t *testing.T) {
		err := uc.Execute(ctx, AdmitMemberInput{ChannelID: 404, UserID: 7})
		if !errors.Is(err, channel.ErrChannelNotFound) {
			t.Errorf("expected ErrChannelNotFound, got %v", err)
		}
	})

	t.Run("admission does not mutate state", func(t *testing.T) {
		before := len(repo.members)
		_ = uc.Execute(ctx, AdmitMemberInput{ChannelID: channelID, UserID: 9})
		_ = uc.Execute(ctx, AdmitMemberInput{ChannelID: channelID, UserID: 11})
		if len(repo.members) != before {
			t.Error("admission check must not create or remove memberships")
		}
	})
}
