package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emalsert/sr03devoir2/internal/infrastructure/auth"
	qport "github.com/emalsert/sr03devoir2/internal/infrastructure/queue/port"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/realtime"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/presentation/controller"
)

// Deps groups the shared infrastructure the channel endpoints need.
type Deps struct {
	Pool        *pgxpool.Pool
	Queue       qport.Client
	Hub         *realtime.Hub
	Presence    *realtime.Presence
	Broadcaster *realtime.Broadcaster
	Verifier    auth.Verifier
	Logger      *slog.Logger
	MaxFileSize int64
}

// RegisterRoutes registers channel-related HTTP endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	createCtl := controller.NewCreateChannelController(deps.Pool)
	getCtl := controller.NewGetChannelController(deps.Pool)
	listCtl := controller.NewListChannelsController(deps.Pool)
	updateCtl := controller.NewUpdateChannelController(deps.Pool)
	deleteCtl := controller.NewDeleteChannelController(deps.Pool)
	membersCtl := controller.NewListChannelMembersController(deps.Pool, deps.Presence)

	sendInvCtl := controller.NewSendInvitationController(deps.Pool, deps.Queue, deps.Hub, deps.Logger)
	acceptInvCtl := controller.NewAcceptInvitationController(deps.Pool)
	declineInvCtl := controller.NewDeclineInvitationController(deps.Pool)
	listInvCtl := controller.NewListInvitationsController(deps.Pool)

	sendFileCtl := controller.NewSendFileController(deps.Pool, deps.Verifier, deps.Broadcaster, deps.MaxFileSize)
	socketCtl := controller.NewChannelSocketController(
		adapter.NewPgChannelRepository(deps.Pool),
		deps.Verifier,
		deps.Hub,
		deps.Presence,
		deps.Broadcaster,
		deps.Logger,
	)

	// Channel CRUD
	g.POST("/channels", createCtl.Handle())
	g.GET("/channels", listCtl.Handle())
	g.GET("/channels/:channelId", getCtl.Handle())
	g.PUT("/channels/:channelId", updateCtl.Handle())
	g.DELETE("/channels/:channelId", deleteCtl.Handle())
	g.GET("/channels/:channelId/members", membersCtl.Handle())

	// Invitations
	g.POST("/invitations/invite", sendInvCtl.Handle())
	g.POST("/invitations/:invitationId/accept", acceptInvCtl.Handle())
	g.POST("/invitations/:invitationId/decline", declineInvCtl.Handle())
	g.GET("/invitations/user/:userId", listInvCtl.Handle())

	// File upload into a channel, fanned out to subscribers
	g.POST("/channels/:channelId/files", sendFileCtl.Handle())

	// GET /api/v1/channels/ws -> websocket endpoint for realtime chat
	g.GET("/channels/ws", socketCtl.Handle())
}
