package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
)

type PgChannelRepository struct {
	pool *pgxpool.Pool
}

func NewPgChannelRepository(pool *pgxpool.Pool) *PgChannelRepository {
	return &PgChannelRepository{pool: pool}
}

func (r *PgChannelRepository) CreateChannel(ctx context.Context, c channel.Channel) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChannelRepository: nil pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO channels (user_id, title, description, date, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING channel_id
	`, c.OwnerID, c.Title, c.Description, c.Date, c.DurationMinutes).Scan(&id)
	return id, err
}

func (r *PgChannelRepository) GetChannel(ctx context.Context, channelID int64) (*channel.Channel, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChannelRepository: nil pool")
	}
	var c channel.Channel
	err := r.pool.QueryRow(ctx, `
		SELECT channel_id, user_id, title, description, date, duration_minutes
		FROM channels
		WHERE channel_id = $1
	`, channelID).Scan(&c.ChannelID, &c.OwnerID, &c.Title, &c.Description, &c.Date, &c.DurationMinutes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgChannelRepository) ChannelExists(ctx context.Context, channelID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChannelRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM channels WHERE channel_id = $1)",
		channelID,
	).Scan(&exists)
	return exists, err
}

func (r *PgChannelRepository) ListUpcomingChannels(ctx context.Context, after time.Time) ([]channel.Channel, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChannelRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT channel_id, user_id, title, description, date, duration_minutes
		FROM channels
		WHERE date > $1
		ORDER BY date ASC
	`, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []channel.Channel
	for rows.Next() {
		var c channel.Channel
		if err := rows.Scan(&c.ChannelID, &c.OwnerID, &c.Title, &c.Description, &c.Date, &c.DurationMinutes); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

func (r *PgChannelRepository) UpdateChannel(ctx context.Context, c channel.Channel) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChannelRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE channels
		SET title = $2, description = $3, date = $4, duration_minutes = $5
		WHERE channel_id = $1
	`, c.ChannelID, c.Title, c.Description, c.Date, c.DurationMinutes)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgChannelRepository) DeleteChannel(ctx context.Context, channelID int64) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChannelRepository: nil pool")
	}
	// Memberships and invitations cascade at the schema level.
	_, err := r.pool.Exec(ctx, "DELETE FROM channels WHERE channel_id = $1", channelID)
	return err
}

func (r *PgChannelRepository) AddMember(ctx context.Context, userID, channelID int64) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChannelRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_channel (user_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, channel_id) DO NOTHING
	`, userID, channelID)
	return err
}

func (r *PgChannelRepository) IsMember(ctx context.Context, userID, channelID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChannelRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM user_channel WHERE user_id = $1 AND channel_id = $2)",
		userID, channelID,
	).Scan(&exists)
	return exists, err
}

func (r *PgChannelRepository) IsOwner(ctx context.Context, userID, channelID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChannelRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM channels WHERE channel_id = $1 AND user_id = $2)",
		channelID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *PgChannelRepository) ListMemberIDs(ctx context.Context, channelID int64) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChannelRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx,
		"SELECT user_id FROM user_channel WHERE channel_id = $1 ORDER BY user_id",
		channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgChannelRepository) CreateInvitation(ctx context.Context, inv channel.Invitation) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChannelRepository: nil pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invitations (user_id, channel_id, status)
		VALUES ($1, $2, $3)
		RETURNING invitation_id
	`, inv.UserID, inv.ChannelID, inv.Status).Scan(&id)
	return id, err
}

func (r *PgChannelRepository) GetInvitation(ctx context.Context, invitationID int64) (*channel.Invitation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChannelRepository: nil pool")
	}
	var inv channel.Invitation
	err := r.pool.QueryRow(ctx, `
		SELECT invitation_id, user_id, channel_id, status
		FROM invitations
		WHERE invitation_id = $1
	`, invitationID).Scan(&inv.InvitationID, &inv.UserID, &inv.ChannelID, &inv.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindInvitation returns the invitation that governs the (user, channel)
// pair: a non-declined one when present, otherwise the most recent declined
// one, otherwise nil.
func (r *PgChannelRepository) FindInvitation(ctx context.Context, userID, channelID int64) (*channel.Invitation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChannelRepository: nil pool")
	}
	var inv channel.Invitation
	err := r.pool.QueryRow(ctx, `
		SELECT invitation_id, user_id, channel_id, status
		FROM invitations
		WHERE user_id = $1 AND channel_id = $2
		ORDER BY (status = 'declined'), invitation_id DESC
		LIMIT 1
	`, userID, channelID).Scan(&inv.InvitationID, &inv.UserID, &inv.ChannelID, &inv.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgChannelRepository) UpdateInvitationStatus(ctx context.Context, invitationID int64, status channel.InvitationStatus) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChannelRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx,
		"UPDATE invitations SET status = $2 WHERE invitation_id = $1",
		invitationID, status,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgChannelRepository) ListPendingInvitations(ctx context.Context, userID int64) ([]channel.Invitation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChannelRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT invitation_id, user_id, channel_id, status
		FROM invitations
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY invitation_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []channel.Invitation
	for rows.Next() {
		var inv channel.Invitation
		if err := rows.Scan(&inv.InvitationID, &inv.UserID, &inv.ChannelID, &inv.Status); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
