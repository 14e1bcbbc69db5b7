package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	queueport "github.com/emalsert/sr03devoir2/internal/infrastructure/queue/port"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/realtime"
	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/task"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
	useradapter "github.com/emalsert/sr03devoir2/internal/repository/adapter"
	userrepo "github.com/emalsert/sr03devoir2/internal/repository/port"
)

// SendInvitationController creates a pending invitation, queues the email
// notification and nudges the invitee over their live socket if connected.
type SendInvitationController struct {
	UC     *usecase.SendInvitationUseCase
	Users  userrepo.UserRepository
	Q      queueport.Client
	hub    *realtime.Hub
	logger *slog.Logger
}

func NewSendInvitationController(pool *pgxpool.Pool, client queueport.Client, hub *realtime.Hub, logger *slog.Logger) *SendInvitationController {
	repo := adapter.NewPgChannelRepository(pool)
	users := useradapter.NewPgUserRepository(pool)
	return &SendInvitationController{
		UC:     usecase.NewSendInvitationUseCase(repo, users),
		Users:  users,
		Q:      client,
		hub:    hub,
		logger: logger,
	}
}

type sendInvitationRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	ChannelID int64 `json:"channel_id" binding:"required"`
	InviterID int64 `json:"inviter_id" binding:"required"`
}

type invitationNotice struct {
	Type         string `json:"type"`
	InvitationID int64  `json:"invitationId"`
	ChannelID    int64  `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
}

func (h *SendInvitationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendInvitationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.SendInvitationInput{UserID: req.UserID, ChannelID: req.ChannelID})
		if err != nil {
			switch {
			case errors.Is(err, channel.ErrChannelNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			case errors.Is(err, userrepo.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case errors.Is(err, channel.ErrInvitationPending):
				c.JSON(http.StatusConflict, gin.H{"error": "an invitation is already pending"})
			case errors.Is(err, channel.ErrAlreadyMember):
				c.JSON(http.StatusConflict, gin.H{"error": "user already accepted an invitation"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		h.enqueueEmail(ctx, out, req.InviterID)
		h.notifyInvitee(out)

		c.JSON(http.StatusCreated, gin.H{
			"invitation_id": out.Invitation.InvitationID,
			"user_id":       out.Invitation.UserID,
			"channel_id":    out.Invitation.ChannelID,
			"status":        out.Invitation.Status,
		})
	}
}

// enqueueEmail is best-effort: a queue outage must not fail the invitation,
// the pending row is already durable.
func (h *SendInvitationController) enqueueEmail(ctx context.Context, out *usecase.SendInvitationOutput, inviterID int64) {
	inviterName := ""
	if inviter, err := h.Users.GetByID(ctx, inviterID); err == nil {
		inviterName = inviter.FirstName + " " + inviter.LastName
	}

	payload, err := json.Marshal(task.InvitationEmailTaskPayload{
		InvitationID: out.Invitation.InvitationID,
		InviteeEmail: out.InviteeEmail,
		ChannelTitle: out.ChannelTitle,
		InviterName:  inviterName,
	})
	if err != nil {
		return
	}
	opts := queueport.EnqueueOption{Queue: "email", MaxRetry: 10}
	if _, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.InvitationEmailTaskType, Payload: payload}, opts); err != nil {
		h.logger.Warn("failed to enqueue invitation email", slog.Any("error", err))
	}
}

// notifyInvitee pushes a realtime notice to the invitee's active socket, if
// any, so the pending invitation shows up without a refresh.
func (h *SendInvitationController) notifyInvitee(out *usecase.SendInvitationOutput) {
	payload, err := json.Marshal(invitationNotice{
		Type:         "INVITATION",
		InvitationID: out.Invitation.InvitationID,
		ChannelID:    out.Invitation.ChannelID,
		ChannelTitle: out.ChannelTitle,
	})
	if err != nil {
		return
	}
	h.hub.NotifyUser(out.Invitation.UserID, payload)
}
