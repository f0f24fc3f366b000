package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"placementhub/internal/middleware"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

func (h HandlerSet) ListBranches(c *gin.Context) {
	branches, err := h.branches.ListActive(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list branches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, branches)
}

// CreateProfile accepts the first-sign-in profile document. The middleware
// already provisions on a fresh token, so an existing row is returned as-is
// rather than treated as a conflict.
func (h HandlerSet) CreateProfile(c *gin.Context) {
	current, _ := middleware.CurrentProfile(c)

	var body models.NewUserProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}
	if body.SupabaseUID != current.SupabaseUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "uid_mismatch"})
		return
	}

	existing, err := h.profiles.GetBySupabaseUID(c.Request.Context(), body.SupabaseUID)
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		h.log.Error().Err(err).Msg("lookup profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	created, err := h.profiles.Create(c.Request.Context(), body)
	if err != nil {
		h.log.Error().Err(err).Str("supabase_uid", body.SupabaseUID).Msg("create profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h HandlerSet) CurrentProfile(c *gin.Context) {
	profile, _ := middleware.CurrentProfile(c)
	c.JSON(http.StatusOK, profile)
}

func (h HandlerSet) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetBySupabaseUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("get profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	current, _ := middleware.CurrentProfile(c)
	uid := c.Param("uid")
	if uid != current.SupabaseUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var patch models.UserProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), uid, patch)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
			return
		}
		h.log.Error().Err(err).Str("supabase_uid", uid).Msg("update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) Leaderboard(c *gin.Context) {
	users, err := h.leaderboard.Top(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, users)
}
