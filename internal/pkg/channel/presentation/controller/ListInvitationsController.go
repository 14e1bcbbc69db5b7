package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
	useradapter "github.com/emalsert/sr03devoir2/internal/repository/adapter"
	userrepo "github.com/emalsert/sr03devoir2/internal/repository/port"
)

// ListInvitationsController returns a user's pending invitations.
type ListInvitationsController struct {
	UC *usecase.ListUserInvitationsUseCase
}

func NewListInvitationsController(pool *pgxpool.Pool) *ListInvitationsController {
	repo := adapter.NewPgChannelRepository(pool)
	users := useradapter.NewPgUserRepository(pool)
	return &ListInvitationsController{UC: usecase.NewListUserInvitationsUseCase(repo, users)}
}

func (h *ListInvitationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId must be a positive integer"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		invs, err := h.UC.Execute(ctx, usecase.ListUserInvitationsInput{UserID: userID})
		if err != nil {
			switch {
			case errors.Is(err, userrepo.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		out := make([]gin.H, 0, len(invs))
		for _, inv := range invs {
			out = append(out, gin.H{
				"invitation_id": inv.InvitationID,
				"user_id":       inv.UserID,
				"channel_id":    inv.ChannelID,
				"status":        inv.Status,
			})
		}
		c.JSON(http.StatusOK, gin.H{"invitations": out, "count": len(out)})
	}
}
