package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
)

// ListChannelsController handles listing upcoming channels.
type ListChannelsController struct {
	UC *usecase.ListUpcomingChannelsUseCase
}

func NewListChannelsController(pool *pgxpool.Pool) *ListChannelsController {
	repo := adapter.NewPgChannelRepository(pool)
	return &ListChannelsController{UC: usecase.NewListUpcomingChannelsUseCase(repo)}
}

func (h *ListChannelsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		channels, err := h.UC.Execute(ctx)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(channels))
		for _, ch := range channels {
			out = append(out, gin.H{
				"channel_id":  ch.ChannelID,
				"owner_id":    ch.OwnerID,
				"title":       ch.Title,
				"description": ch.Description,
				"date":        ch.Date,
				"duration":    ch.DurationMinutes,
			})
		}
		c.JSON(http.StatusOK, gin.H{"channels": out, "count": len(out)})
	}
}
