package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"placementhub/internal/middleware"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

func (h HandlerSet) ListExperiences(c *gin.Context) {
	viewerID := int64(0)
	if profile, ok := middleware.CurrentProfile(c); ok {
		viewerID = profile.ID
	}

	page, pageSize := pageParams(c)
	filter := repository.ExperienceFilter{
		Position: c.Query("position"),
		Result:   c.Query("result"),
		ViewerID: viewerID,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	if raw := c.Query("company"); raw != "" {
		filter.CompanyID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := c.Query("posted_by"); raw != "" {
		filter.PostedBy, _ = strconv.ParseInt(raw, 10, 64)
	}

	experiences, total, err := h.experiences.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list experiences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, paginate(c, experiences, total, page, pageSize))
}

func (h HandlerSet) GetExperience(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	viewerID := int64(0)
	if profile, ok := middleware.CurrentProfile(c); ok {
		viewerID = profile.ID
	}

	exp, err := h.experiences.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "experience_not_found"})
			return
		}
		h.log.Error().Err(err).Int64("experience_id", id).Msg("get experience")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h HandlerSet) CreateExperience(c *gin.Context) {
	profile, _ := middleware.CurrentProfile(c)

	var body models.NewInterviewExperience
	if err := c.ShouldBindJSON(&body); err != nil || !validExperience(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	exp, err := h.experiences.Create(c.Request.Context(), profile.ID, body)
	if err != nil {
		h.log.Error().Err(err).Int64("company_id", body.Company).Msg("create experience")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h HandlerSet) UpdateExperience(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	var patch models.InterviewExperiencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	exp, err := h.experiences.Update(c.Request.Context(), id, profile.ID, patch)
	if err != nil {
		h.writeContentError(c, err, id, "update experience")
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h HandlerSet) DeleteExperience(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	if err := h.experiences.Delete(c.Request.Context(), id, profile.ID); err != nil {
		h.writeContentError(c, err, id, "delete experience")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) VoteExperience(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	var body struct {
		IsUpvote bool `json:"is_upvote"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !body.IsUpvote {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only_upvotes_allowed"})
		return
	}

	result, err := h.votes.VoteExperience(c.Request.Context(), id, profile.ID)
	if err != nil {
		h.writeContentError(c, err, id, "vote experience")
		return
	}
	c.JSON(http.StatusOK, result)
}

func validExperience(e models.NewInterviewExperience) bool {
	if e.Company < 1 || e.Position == "" || e.Rounds == "" || e.Questions == "" {
		return false
	}
	if e.DifficultyLevel < models.DifficultyEasy || e.DifficultyLevel > models.DifficultyHard {
		return false
	}
	if _, err := time.Parse("2006-01-02", e.InterviewDate); err != nil {
		return false
	}
	switch e.Result {
	case models.ExperiencePending, models.ExperienceSelected, models.ExperienceRejected:
		return true
	}
	return false
}
