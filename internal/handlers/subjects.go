package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"placementhub/internal/middleware"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

func (h HandlerSet) ListSubjects(c *gin.Context) {
	filter := repository.SubjectFilter{
		Name:   c.Query("name"),
		Branch: c.Query("branch"),
	}
	if raw, ok := c.GetQuery("is_common"); ok {
		if val, err := strconv.ParseBool(raw); err == nil {
			filter.IsCommon = &val
		}
	}

	subjects, err := h.subjects.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list subjects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h HandlerSet) GetSubject(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	subject, err := h.subjects.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subject_not_found"})
			return
		}
		h.log.Error().Err(err).Int64("subject_id", id).Msg("get subject")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, subject)
}

func (h HandlerSet) CreateSubject(c *gin.Context) {
	var body models.NewSubject
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	subject, err := h.subjects.Create(c.Request.Context(), body)
	if err != nil {
		h.log.Error().Err(err).Str("name", body.Name).Msg("create subject")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func (h HandlerSet) ListSubjectPosts(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	viewerID := int64(0)
	if profile, ok := middleware.CurrentProfile(c); ok {
		viewerID = profile.ID
	}

	page, pageSize := pageParams(c)
	posts, total, err := h.posts.List(c.Request.Context(), repository.PostFilter{
		SubjectID: id,
		ViewerID:  viewerID,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Int64("subject_id", id).Msg("list subject posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, paginate(c, posts, total, page, pageSize))
}

// pathID parses the :id path segment, writing the 400 itself on failure.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, errors.New("invalid id")
	}
	return id, nil
}
