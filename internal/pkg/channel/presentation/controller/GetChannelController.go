package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
)

// GetChannelController handles fetching one channel by id.
type GetChannelController struct {
	UC *usecase.GetChannelUseCase
}

func NewGetChannelController(pool *pgxpool.Pool) *GetChannelController {
	repo := adapter.NewPgChannelRepository(pool)
	return &GetChannelController{UC: usecase.NewGetChannelUseCase(repo)}
}

func (h *GetChannelController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
		if err != nil || channelID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channelId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		ch, err := h.UC.Execute(ctx, usecase.GetChannelInput{ChannelID: channelID})
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

		c.JSON(http.StatusOK, gin.H{
			"channel_id":  ch.ChannelID,
			"owner_id":    ch.OwnerID,
			"title":       ch.Title,
			"description": ch.Description,
			"date":        ch.Date,
			"duration":    ch.DurationMinutes,
		})
	}
}
