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

// DeclineInvitationController marks a pending invitation declined.
type DeclineInvitationController struct {
	UC *usecase.DeclineInvitationUseCase
}

func NewDeclineInvitationController(pool *pgxpool.Pool) *DeclineInvitationController {
	repo := adapter.NewPgChannelRepository(pool)
	return &DeclineInvitationController{UC: usecase.NewDeclineInvitationUseCase(repo)}
}

func (h *DeclineInvitationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		invitationID, err := strconv.ParseInt(c.Param("invitationId"), 10, 64)
		if err != nil || invitationID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invitationId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.DeclineInvitationInput{InvitationID: invitationID}); err != nil {
			switch {
			case errors.Is(err, channel.ErrInvitationNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
			case errors.Is(err, channel.ErrInvitationAlreadyResolved):
				c.JSON(http.StatusConflict, gin.H{"error": "invitation was already resolved"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.Status(http.StatusNoContent)
	}
}
