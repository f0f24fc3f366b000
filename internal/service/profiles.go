package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"placementhub/internal/models"
	"placementhub/internal/repository"
)

type ProfileService struct {
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewProfileService(users *repository.UserRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		users: users,
		log:   logger.With().Str("service", "profiles").Logger(),
	}
}

func (s *ProfileService) Create(ctx context.Context, profile models.NewUserProfile) (models.UserProfile, error) {
	return s.users.Create(ctx, profile)
}

func (s *ProfileService) GetBySupabaseUID(ctx context.Context, uid string) (models.UserProfile, error) {
	return s.users.GetBySupabaseUID(ctx, uid)
}

// GetOrProvision resolves the profile for a verified token, creating a bare
// one on first sight so sign-in never strands a valid user without a row.
func (s *ProfileService) GetOrProvision(ctx context.Context, uid, email, fullName string) (models.UserProfile, error) {
	profile, err := s.users.GetBySupabaseUID(ctx, uid)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return models.UserProfile{}, err
	}

	created, err := s.users.Create(ctx, models.NewUserProfile{
		SupabaseUID: uid,
		Email:       email,
		FullName:    fullName,
		Branch:      "",
		Year:        1,
	})
	if err != nil {
		// Lost a race with a concurrent first request; the row exists now.
		if existing, getErr := s.users.GetBySupabaseUID(ctx, uid); getErr == nil {
			return existing, nil
		}
		return models.UserProfile{}, err
	}

	s.log.Info().Str("supabase_uid", uid).Str("email", email).Msg("provisioned new profile")
	return created, nil
}

func (s *ProfileService) Update(ctx context.Context, uid string, patch models.UserProfilePatch) (models.UserProfile, error) {
	return s.users.Patch(ctx, uid, patch)
}
