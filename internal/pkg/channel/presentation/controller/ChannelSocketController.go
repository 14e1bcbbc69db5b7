package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/emalsert/sr03devoir2/internal/infrastructure/auth"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/realtime"
	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	repository "github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/port"
)

// ChannelSocketController handles the websocket endpoint for realtime chat
// traffic. It drives the whole connection lifecycle: identity resolution on
// upgrade, admission-checked joins and sends, and presence cleanup on any
// disconnect, including abrupt ones.
type ChannelSocketController struct {
	hub             *realtime.Hub
	presence        *realtime.Presence
	broadcaster     *realtime.Broadcaster
	verifier        auth.Verifier
	admitUC         *usecase.AdmitMemberUseCase
	logger          *slog.Logger
	inflightTimeout time.Duration
}

// NewChannelSocketController wires the socket controller. It takes the
// repository port rather than a pool so realtime flows can be exercised
// against fakes.
func NewChannelSocketController(
	repo repository.ChannelRepository,
	verifier auth.Verifier,
	hub *realtime.Hub,
	presence *realtime.Presence,
	broadcaster *realtime.Broadcaster,
	logger *slog.Logger,
) *ChannelSocketController {
	return &ChannelSocketController{
		hub:             hub,
		presence:        presence,
		broadcaster:     broadcaster,
		verifier:        verifier,
		admitUC:         usecase.NewAdmitMemberUseCase(repo),
		logger:          logger,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The frontend is served from a different origin; access control
		// happens per action through the admission check.
		return true
	},
}

// inboundFrame mirrors the STOMP addressing the frontend already speaks:
// the destination string selects the action and carries the channel id.
type inboundFrame struct {
	Destination string `json:"destination"`
	Body        string `json:"body,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type      string `json:"type"`
	ChannelID int64  `json:"channel_id,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects.
func (ctl *ChannelSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := ctl.resolveIdentity(c)

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(identity.UserID, ws)
		// A reconnecting user replaces their previous session; that session's
		// presence entries are released here because its own handler can no
		// longer see them once the hub has swapped it out.
		ctl.releasePresence(conn.UserID, ctl.hub.Attach(conn))
		defer func() {
			ctl.cleanup(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB frame cap; files go over HTTP
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch {
			case ctl.dispatchJoin(c, conn, frame):
			case ctl.dispatchSend(c, conn, frame):
			case ctl.dispatchLeave(conn, frame):
			default:
				ctl.replyError(conn, "unsupported_destination", "unknown destination")
			}
		}
	}
}

// resolveIdentity reads the bearer credential from the Authorization header
// or the token query parameter. Resolution failures leave the connection
// anonymous: the socket stays open but every membership-gated action will
// be rejected by the admission check.
func (ctl *ChannelSocketController) resolveIdentity(c *gin.Context) auth.Identity {
	credential := c.Query("token")
	if credential == "" {
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			credential = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if credential == "" {
		return auth.Anonymous
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	identity, err := ctl.verifier.Resolve(ctx, credential)
	if err != nil {
		ctl.logger.Debug("websocket identity resolution failed, continuing anonymous", slog.Any("error", err))
		return auth.Anonymous
	}
	return identity
}

func (ctl *ChannelSocketController) dispatchJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) bool {
	channelID, userID, ok := realtime.ParseJoinDestination(frame.Destination)
	if !ok {
		return false
	}

	// The destination carries a user id for frontend compatibility, but the
	// authenticated identity is authoritative: a mismatch is an
	// impersonation attempt, not a join.
	if userID != conn.UserID {
		ctl.replyError(conn, "forbidden", "join user does not match authenticated user")
		return true
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.admitUC.Execute(ctx, usecase.AdmitMemberInput{ChannelID: channelID, UserID: conn.UserID}); err != nil {
		ctl.replyAdmissionError(conn, err)
		return true
	}

	members := ctl.presence.Join(channelID, conn.UserID)
	ctl.hub.Subscribe(realtime.ChannelTopic(channelID), conn)

	if payload, err := json.Marshal(ackFrame{Type: "joined", ChannelID: channelID}); err == nil {
		_ = conn.Send(payload)
	}
	ctl.broadcaster.PublishPresenceChanged(channelID, conn.UserID, realtime.PresenceJoined, members)
	return true
}

func (ctl *ChannelSocketController) dispatchSend(c *gin.Context, conn *realtime.Connection, frame inboundFrame) bool {
	channelID, ok := realtime.ParseSendDestination(frame.Destination)
	if !ok {
		return false
	}

	body := strings.TrimSpace(frame.Body)
	if body == "" {
		ctl.replyError(conn, "bad_request", "message body is required")
		return true
	}

	// Sends are admission-checked against durable membership, independent
	// of presence: a member whose presence entry has not caught up (e.g.
	// right after a reconnect) may still post.
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.admitUC.Execute(ctx, usecase.AdmitMemberInput{ChannelID: channelID, UserID: conn.UserID}); err != nil {
		ctl.replyAdmissionError(conn, err)
		return true
	}

	ctl.broadcaster.PublishText(channelID, conn.UserID, body)
	return true
}

func (ctl *ChannelSocketController) dispatchLeave(conn *realtime.Connection, frame inboundFrame) bool {
	channelID, ok := realtime.ParseLeaveDestination(frame.Destination)
	if !ok {
		return false
	}

	topic := realtime.ChannelTopic(channelID)
	if !ctl.hub.Subscribed(topic, conn) {
		// Leaving a channel that was never joined is a no-op.
		if payload, err := json.Marshal(ackFrame{Type: "left", ChannelID: channelID}); err == nil {
			_ = conn.Send(payload)
		}
		return true
	}

	ctl.hub.Unsubscribe(topic, conn)
	members := ctl.presence.Leave(channelID, conn.UserID)

	if payload, err := json.Marshal(ackFrame{Type: "left", ChannelID: channelID}); err == nil {
		_ = conn.Send(payload)
	}
	ctl.broadcaster.PublishPresenceChanged(channelID, conn.UserID, realtime.PresenceLeft, members)
	return true
}

// cleanup releases every presence entry owned by the connection. It runs on
// every disconnect path (explicit close, timeout, network drop) and is
// idempotent: topics already left explicitly are no longer tracked by the
// hub and are skipped.
func (ctl *ChannelSocketController) cleanup(conn *realtime.Connection) {
	ctl.releasePresence(conn.UserID, ctl.hub.Detach(conn))
}

func (ctl *ChannelSocketController) releasePresence(userID int64, topics []string) {
	for _, topic := range topics {
		channelID, ok := realtime.ChannelIDFromTopic(topic)
		if !ok {
			continue
		}
		members := ctl.presence.Leave(channelID, userID)
		ctl.broadcaster.PublishPresenceChanged(channelID, userID, realtime.PresenceLeft, members)
	}
}

func (ctl *ChannelSocketController) replyAdmissionError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, channel.ErrChannelNotFound):
		ctl.replyError(conn, "channel_not_found", "channel does not exist")
	case errors.Is(err, channel.ErrNotAMember):
		ctl.replyError(conn, "forbidden", "user has not been invited to this channel")
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChannelSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
