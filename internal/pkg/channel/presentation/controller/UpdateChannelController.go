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

// UpdateChannelController handles editing a channel's details.
type UpdateChannelController struct {
	UC *usecase.UpdateChannelUseCase
}

func NewUpdateChannelController(pool *pgxpool.Pool) *UpdateChannelController {
	repo := adapter.NewPgChannelRepository(pool)
	return &UpdateChannelController{UC: usecase.NewUpdateChannelUseCase(repo)}
}

type updateChannelRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description" binding:"required"`
	Date            time.Time `json:"date" binding:"required"`
	DurationMinutes int       `json:"duration" binding:"required"`
}

func (h *UpdateChannelController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
		if err != nil || channelID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channelId must be a positive integer"})
			return
		}

		var req updateChannelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.UpdateChannelInput{
			ChannelID:       channelID,
			Title:           req.Title,
			Description:     req.Description,
			Date:            req.Date,
			DurationMinutes: req.DurationMinutes,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		ch, err := h.UC.Execute(ctx, in)
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
