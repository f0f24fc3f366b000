package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"placementhub/internal/middleware"
	"placementhub/internal/models"
	"placementhub/internal/repository"
	"placementhub/internal/service"
)

func (h HandlerSet) ListPosts(c *gin.Context) {
	viewerID := int64(0)
	if profile, ok := middleware.CurrentProfile(c); ok {
		viewerID = profile.ID
	}

	page, pageSize := pageParams(c)
	filter := repository.PostFilter{
		Search:   c.Query("search"),
		ViewerID: viewerID,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	if raw := c.Query("subject"); raw != "" {
		filter.SubjectID, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw := c.Query("posted_by"); raw != "" {
		filter.PostedBy, _ = strconv.ParseInt(raw, 10, 64)
	}

	posts, total, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, paginate(c, posts, total, page, pageSize))
}

func (h HandlerSet) GetPost(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	viewerID := int64(0)
	if profile, ok := middleware.CurrentProfile(c); ok {
		viewerID = profile.ID
	}

	post, err := h.posts.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post_not_found"})
			return
		}
		h.log.Error().Err(err).Int64("post_id", id).Msg("get post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h HandlerSet) CreatePost(c *gin.Context) {
	profile, _ := middleware.CurrentProfile(c)

	var body models.NewPost
	if err := c.ShouldBindJSON(&body); err != nil || body.Subject < 1 || body.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), profile.ID, body)
	if err != nil {
		h.log.Error().Err(err).Int64("subject_id", body.Subject).Msg("create post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h HandlerSet) UpdatePost(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	var patch models.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), id, profile.ID, patch)
	if err != nil {
		h.writeContentError(c, err, id, "update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h HandlerSet) DeletePost(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	if err := h.posts.Delete(c.Request.Context(), id, profile.ID); err != nil {
		h.writeContentError(c, err, id, "delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) VotePost(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	var body struct {
		Vote int `json:"vote"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	result, err := h.votes.VotePost(c.Request.Context(), id, profile.ID, body.Vote)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVote) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_vote"})
			return
		}
		h.writeContentError(c, err, id, "vote post")
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeContentError maps shared post/experience failure modes to responses.
func (h HandlerSet) writeContentError(c *gin.Context, err error, id int64, op string) {
	switch {
	case errors.Is(err, repository.ErrPostNotFound), errors.Is(err, repository.ErrExperienceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		h.log.Error().Err(err).Int64("id", id).Msg(op)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
