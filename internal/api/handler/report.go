package handler

import (
	"net/http"

	"campusmentor/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CaptureReport freezes the channel into a new pending report. The reporter
// must be a participant; the report service enforces that.
func (h *Handler) CaptureReport(c *gin.Context) {
	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
		return
	}

	rep, err := h.Reports.Capture(c.Request.Context(), c.Param("id"), callerID(c), body.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rep)
}

// AdvanceReport moves a report one step along the reviewer workflow.
func (h *Handler) AdvanceReport(c *gin.Context) {
	var body struct {
		Status      string `json:"status" binding:"required"`
		AdminNotes  string `json:"admin_notes"`
		ActionTaken string `json:"action_taken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	rep, err := h.Reports.Advance(c.Request.Context(), c.Param("id"),
		models.ReportStatus(body.Status), callerID(c), body.AdminNotes, body.ActionTaken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
