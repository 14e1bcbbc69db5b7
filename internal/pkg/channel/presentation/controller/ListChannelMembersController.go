package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emalsert/sr03devoir2/internal/infrastructure/realtime"
	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
)

// ListChannelMembersController returns the durable member ids of a channel
// together with the ephemeral presence snapshot.
type ListChannelMembersController struct {
	UC       *usecase.ListChannelMembersUseCase
	presence *realtime.Presence
}

func NewListChannelMembersController(pool *pgxpool.Pool, presence *realtime.Presence) *ListChannelMembersController {
	repo := adapter.NewPgChannelRepository(pool)
	return &ListChannelMembersController{
		UC:       usecase.NewListChannelMembersUseCase(repo),
		presence: presence,
	}
}

func (h *ListChannelMembersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
		if err != nil || channelID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channelId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		members, err := h.UC.Execute(ctx, usecase.ListChannelMembersInput{ChannelID: channelID})
		if err != nil {
			switch {
			case errors.Is(err, channel.ErrChannelNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		if members == nil {
			members = []int64{}
		}

		c.JSON(http.StatusOK, gin.H{
			"channel_id": channelID,
			"members":    members,
			"connected":  h.presence.Snapshot(channelID),
		})
	}
}
