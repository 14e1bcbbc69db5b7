package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emalsert/sr03devoir2/internal/infrastructure/auth"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/realtime"
	channel "github.com/emalsert/sr03devoir2/internal/pkg/channel/application/domain"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/usecase"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/persistence/repository/adapter"
)

// SendFileController handles the multipart file-message endpoint. Files ride
// over HTTP rather than the websocket so the socket read limit stays small.
type SendFileController struct {
	admitUC     *usecase.AdmitMemberUseCase
	verifier    auth.Verifier
	broadcaster *realtime.Broadcaster
	maxBytes    int64
}

func NewSendFileController(pool *pgxpool.Pool, verifier auth.Verifier, broadcaster *realtime.Broadcaster, maxFileSize int64) *SendFileController {
	if maxFileSize <= 0 {
		maxFileSize = realtime.DefaultMaxFileSize
	}
	repo := adapter.NewPgChannelRepository(pool)
	return &SendFileController{
		admitUC:     usecase.NewAdmitMemberUseCase(repo),
		verifier:    verifier,
		broadcaster: broadcaster,
		maxBytes:    maxFileSize,
	}
}

func (h *SendFileController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
		if err != nil || channelID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channelId must be a positive integer"})
			return
		}

		identity, err := h.resolveIdentity(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "a valid bearer token is required"})
			return
		}

		// Bound the request body before touching the multipart reader; the
		// broadcaster still enforces the exact payload limit.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.admitUC.Execute(ctx, usecase.AdmitMemberInput{ChannelID: channelID, UserID: identity.UserID}); err != nil {
			switch {
			case errors.Is(err, channel.ErrChannelNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "channel does not exist"})
			case errors.Is(err, channel.ErrNotAMember):
				c.JSON(http.StatusForbidden, gin.H{"error": "user has not been invited to this channel"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected persistence error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		if err := h.broadcaster.PublishFile(channelID, identity.UserID, fileHeader.Filename, mimeType, payload); err != nil {
			switch {
			case errors.Is(err, realtime.ErrUnsupportedFileType):
				c.JSON(http.StatusBadRequest, gin.H{"error": "file type is not allowed"})
			case errors.Is(err, realtime.ErrFileTooLarge):
				c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the maximum allowed size"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish file"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"channel_id": channelID,
			"file_name":  fileHeader.Filename,
			"file_size":  len(payload),
		})
	}
}

// resolveIdentity requires an authenticated caller; files are never accepted
// from anonymous sessions.
func (h *SendFileController) resolveIdentity(c *gin.Context) (auth.Identity, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.Anonymous, errors.New("missing bearer token")
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	return h.verifier.Resolve(ctx, strings.TrimPrefix(header, "Bearer "))
}
