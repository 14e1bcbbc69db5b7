package task

import (
	"context"
	"encoding/json"
	"log/slog"

	qport "github.com/emalsert/sr03devoir2/internal/infrastructure/queue/port"
)

// InvitationEmailTaskType is the queue task name for invitation email
// notifications.
const InvitationEmailTaskType = "invitation:email"

// InvitationEmailTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid coupling queue wire format to
// entity JSON tags.
type InvitationEmailTaskPayload struct {
	InvitationID int64  `json:"invitationId"`
	InviteeEmail string `json:"inviteeEmail"`
	ChannelTitle string `json:"channelTitle"`
	InviterName  string `json:"inviterName"`
}

// RegisterInvitationEmailTask binds the email task handler to the worker
// server. Actual SMTP delivery belongs to the mail service; this handler
// records the delivery intent so the queue contract stays exercised
// end to end.
func RegisterInvitationEmailTask(srv qport.Server, logger *slog.Logger) {
	srv.Register(InvitationEmailTaskType, func(ctx context.Context, t qport.Task) error {
		var p InvitationEmailTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload: retrying cannot help.
			return err
		}
		logger.Info("sending invitation email",
			slog.Int64("invitation_id", p.InvitationID),
			slog.String("to", p.InviteeEmail),
			slog.String("channel", p.ChannelTitle),
			slog.String("inviter", p.InviterName),
		)
		return nil
	})
}
