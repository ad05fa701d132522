package handler

import (
	"errors"
	"net/http"

	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/ranking"

	"github.com/gin-gonic/gin"
)

// SearchMentors ranks mentor candidates for the caller. The q parameter is a
// comma or semicolon separated skill list; when absent, the caller's profile
// skills_to_learn drive the search.
func (h *Handler) SearchMentors(c *gin.Context) {
	userID := callerID(c)
	query := c.Query("q")

	var profileSkills []string
	profile, err := h.Profiles.GetProfileByID(c.Request.Context(), userID)
	switch {
	case err == nil:
		profileSkills = profile.SkillsToLearn
	case errors.Is(err, errs.ErrNotFound):
		// A caller without a profile can still search with an explicit query.
	default:
		h.writeError(c, err)
		return
	}

	results, err := h.Ranker.Search(c.Request.Context(), userID, query, profileSkills)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if results == nil {
		results = []ranking.RankedMentor{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
