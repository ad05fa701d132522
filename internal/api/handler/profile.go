package handler

import (
	"net/http"
	"time"

	"campusmentor/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// GetProfile reads a profile through the cache.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.Profiles.GetProfileByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PutProfile upserts the caller's own profile and busts its cache entries.
func (h *Handler) PutProfile(c *gin.Context) {
	var body struct {
		SkillsHave    []string `json:"skills_have"`
		SkillsToLearn []string `json:"skills_to_learn"`
		Bio           string   `json:"bio"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := callerID(c)
	now := time.Now().UTC()

	profile := &models.Profile{
		ID:            userID,
		SkillsHave:    body.SkillsHave,
		SkillsToLearn: body.SkillsToLearn,
		Bio:           body.Bio,
		UpdatedAt:     now,
	}
	if existing, err := h.Store.GetProfileByID(c.Request.Context(), userID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}

	if err := h.Store.SaveProfile(c.Request.Context(), profile); err != nil {
		h.writeError(c, err)
		return
	}
	h.Profiles.Bust(c.Request.Context(), userID)

	c.JSON(http.StatusOK, profile)
}
