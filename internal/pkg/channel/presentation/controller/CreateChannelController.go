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
	useradapter "github.com/emalsert/sr03devoir2/internal/repository/adapter"
)

// CreateChannelController handles channel creation (one controller per endpoint).
type CreateChannelController struct {
	UC *usecase.CreateChannelUseCase
}

func NewCreateChannelController(pool *pgxpool.Pool) *CreateChannelController {
	repo := adapter.NewPgChannelRepository(pool)
	users := useradapter.NewPgUserRepository(pool)
	return &CreateChannelController{UC: usecase.NewCreateChannelUseCase(repo, users)}
}

type createChannelRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description" binding:"required"`
	Date            time.Time `json:"date" binding:"required"`
	DurationMinutes int       `json:"duration" binding:"required"`
	OwnerID         int64     `json:"owner_id" binding:"required"`
}

func (h *CreateChannelController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createChannelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.CreateChannelInput{
			OwnerID:         req.OwnerID,
			Title:           req.Title,
			Description:     req.Description,
			Date:            req.Date,
			DurationMinutes: req.DurationMinutes,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		ch, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"channel_id":  ch.ChannelID,
			"owner_id":    ch.OwnerID,
			"title":       ch.Title,
			"description": ch.Description,
			"date":        ch.Date,
			"duration":    ch.DurationMinutes,
		})
	}
}
