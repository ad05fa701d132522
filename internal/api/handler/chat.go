package handler

import (
	"net/http"

	"campusmentor/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SendMessage appends a message to the channel's log.
func (h *Handler) SendMessage(c *gin.Context) {
	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	msg, err := h.Chat.Send(c.Request.Context(), c.Param("id"), callerID(c), body.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListMessages returns the channel's full ordered message list. Participants
// only.
func (h *Handler) ListMessages(c *gin.Context) {
	channelID := c.Param("id")
	if _, ok := h.channelForParticipant(c, channelID, callerID(c)); !ok {
		return
	}

	messages, err := h.Chat.List(c.Request.Context(), channelID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"channel_id": channelID, "messages": messages})
}
