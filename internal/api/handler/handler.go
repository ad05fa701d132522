// Package handler is the HTTP surface over the core services. Handlers do
// binding, auth and status mapping only; all rules live in the services.
package handler

import (
	"errors"
	"net/http"

	"campusmentor/backend/internal/chat"
	"campusmentor/backend/internal/chathub"
	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/models"
	"campusmentor/backend/internal/ranking"
	"campusmentor/backend/internal/report"
	"campusmentor/backend/internal/request"
	"campusmentor/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Store    storage.Storage
	Profiles *ranking.ProfileCache
	Ranker   *ranking.Ranker
	Requests *request.Lifecycle
	Chat     *chat.Service
	Reports  *report.Service
	Hub      *chathub.Hub

	JWTSecret []byte
	Log       *zap.Logger
}

func NewHandler(store storage.Storage, profiles *ranking.ProfileCache, ranker *ranking.Ranker,
	requests *request.Lifecycle, chatSvc *chat.Service, reports *report.Service,
	hub *chathub.Hub, jwtSecret string, log *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		Profiles:  profiles,
		Ranker:    ranker,
		Requests:  requests,
		Chat:      chatSvc,
		Reports:   reports,
		Hub:       hub,
		JWTSecret: []byte(jwtSecret),
		Log:       log,
	}
}

// RegisterRoutes mounts the public and authorized route groups.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/token", h.IssueToken)

	api := r.Group("/api", h.AuthMiddleware())
	{
		api.GET("/profiles/:id", h.GetProfile)
		api.PUT("/profile", h.PutProfile)

		api.GET("/mentors/search", h.SearchMentors)

		api.POST("/requests", h.CreateRequest)
		api.POST("/requests/:id/respond", h.RespondRequest)

		api.GET("/channels/:id/messages", h.ListMessages)
		api.POST("/channels/:id/messages", h.SendMessage)
		api.GET("/channels/:id/ws", h.ServeChannelWS)
		api.POST("/channels/:id/report", h.CaptureReport)

		api.PATCH("/reports/:id", h.AdvanceReport)
	}
}

// writeError maps a service error to an HTTP status. Unexpected errors are
// logged with their cause and returned as an opaque 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsContentRejected(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, errs.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		h.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// channelForParticipant loads a channel and checks the caller is in it.
func (h *Handler) channelForParticipant(c *gin.Context, channelID, userID string) (*models.Channel, bool) {
	channel, err := h.Chat.Channel(c.Request.Context(), channelID)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	if !channel.HasParticipant(userID) {
		h.writeError(c, errs.ErrPermissionDenied)
		return nil, false
	}
	return channel, true
}
