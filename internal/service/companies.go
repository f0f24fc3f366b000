package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"placementhub/internal/models"
	"placementhub/internal/repository"
	"placementhub/internal/storage"
)

type CompanyService struct {
	companies *repository.CompanyRepository
	store     *storage.ObjectStore
	log       zerolog.Logger
}

func NewCompanyService(companies *repository.CompanyRepository, store *storage.ObjectStore, logger zerolog.Logger) *CompanyService {
	return &CompanyService{
		companies: companies,
		store:     store,
		log:       logger.With().Str("service", "companies").Logger(),
	}
}

func (s *CompanyService) List(ctx context.Context, filter repository.CompanyFilter) ([]models.Company, int, error) {
	return s.companies.List(ctx, filter)
}

func (s *CompanyService) Get(ctx context.Context, id int64) (models.Company, error) {
	return s.companies.Get(ctx, id)
}

func (s *CompanyService) Create(ctx context.Context, company models.NewCompany) (models.Company, error) {
	return s.companies.Create(ctx, company)
}

// UploadLogo stores the logo object then records its public URL on the
// company row.
func (s *CompanyService) UploadLogo(ctx context.Context, companyID int64, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.companies.Get(ctx, companyID); err != nil {
		return "", err
	}

	url, err := s.store.PutLogo(ctx, companyID, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.companies.SetLogoURL(ctx, companyID, url); err != nil {
		return "", err
	}

	s.log.Info().Int64("company_id", companyID).Str("url", url).Msg("logo uploaded")
	return url, nil
}
