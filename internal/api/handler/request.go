package handler

import (
	"net/http"

	"campusmentor/backend/internal/errs"

	"github.com/gin-gonic/gin"
)

// CreateRequest opens a pending mentorship request from the caller.
func (h *Handler) CreateRequest(c *gin.Context) {
	var body struct {
		ReceiverID string `json:"receiver_id" binding:"required"`
		Message    string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver_id is required"})
		return
	}

	req, err := h.Requests.Create(c.Request.Context(), callerID(c), body.ReceiverID, body.Message)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// RespondRequest lets the receiver accept or reject a pending request.
// Accepting returns the provisioned channel id alongside the request.
func (h *Handler) RespondRequest(c *gin.Context) {
	var body struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accept is required"})
		return
	}

	requestID := c.Param("id")

	// Only the receiver may respond.
	req, err := h.Store.GetRequestByID(c.Request.Context(), requestID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if req.ReceiverID != callerID(c) {
		h.writeError(c, errs.ErrPermissionDenied)
		return
	}

	updated, channelID, err := h.Requests.Respond(c.Request.Context(), requestID, *body.Accept)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{"request": updated}
	if channelID != "" {
		resp["channel_id"] = channelID
	}
	c.JSON(http.StatusOK, resp)
}
