package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"placementhub/internal/middleware"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

func (h HandlerSet) ListCompanies(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.CompanyFilter{
		Search: c.Query("search"),
		Tier:   c.Query("tier"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	companies, total, err := h.companies.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list companies")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, paginate(c, companies, total, page, pageSize))
}

func (h HandlerSet) GetCompany(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company_not_found"})
			return
		}
		h.log.Error().Err(err).Int64("company_id", id).Msg("get company")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h HandlerSet) CreateCompany(c *gin.Context) {
	var body models.NewCompany
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	company, err := h.companies.Create(c.Request.Context(), body)
	if err != nil {
		h.log.Error().Err(err).Str("name", body.Name).Msg("create company")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h HandlerSet) ListCompanyExperiences(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	viewerID := int64(0)
	if profile, ok := middleware.CurrentProfile(c); ok {
		viewerID = profile.ID
	}

	page, pageSize := pageParams(c)
	experiences, total, err := h.experiences.List(c.Request.Context(), repository.ExperienceFilter{
		CompanyID: id,
		ViewerID:  viewerID,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Int64("company_id", id).Msg("list company experiences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, paginate(c, experiences, total, page, pageSize))
}

func (h HandlerSet) UploadCompanyLogo(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo_required"})
		return
	}
	defer file.Close()

	url, err := h.companies.UploadLogo(c.Request.Context(), id, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company_not_found"})
			return
		}
		h.log.Error().Err(err).Int64("company_id", id).Msg("upload logo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
