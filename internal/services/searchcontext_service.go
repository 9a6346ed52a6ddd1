package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JuggernautLabs/ContractStream/internal/models"
)

// SearchContextService owns the keyword contexts the scraper searches
// with.
type SearchContextService struct {
	DB *gorm.DB
}

func NewSearchContextService(db *gorm.DB) *SearchContextService {
	return &SearchContextService{DB: db}
}

// Add creates a search context for the user, optionally anchored to one of
// their resumes.
func (s *SearchContextService) Add(ctx context.Context, identity VerifiedIdentity, keywords []string, resumeID *uint) (models.SearchContext, error) {
	if resumeID != nil {
		// reject contexts pointing at someone else's (or a deleted) resume
		var count int64
		err := s.DB.WithContext(ctx).Model(&models.Resume{}).
			Where("id = ? AND user_id = ?", *resumeID, identity.UserID()).
			Count(&count).Error
		if err != nil {
			return models.SearchContext{}, fmt.Errorf("check resume: %w", err)
		}
		if count == 0 {
			return models.SearchContext{}, ErrNotFound
		}
	}

	sc := models.SearchContext{
		UserID:   identity.UserID(),
		ResumeID: resumeID,
		Keywords: keywords,
	}
	if err := s.DB.WithContext(ctx).Create(&sc).Error; err != nil {
		return models.SearchContext{}, fmt.Errorf("create search context: %w", err)
	}
	sc.Hydrate()
	return sc, nil
}

// Remove soft-deletes a context owned by the user.
func (s *SearchContextService) Remove(ctx context.Context, identity VerifiedIdentity, contextID uint) error {
	res := s.DB.WithContext(ctx).
		Where("user_id = ?", identity.UserID()).
		Delete(&models.SearchContext{}, contextID)
	if res.Error != nil {
		return fmt.Errorf("remove search context: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ForUser lists the user's live contexts, refs hydrated but unresolved.
func (s *SearchContextService) ForUser(ctx context.Context, identity VerifiedIdentity) ([]models.SearchContext, error) {
	var contexts []models.SearchContext
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", identity.UserID()).
		Order("created_at").
		Find(&contexts).Error
	if err != nil {
		return nil, fmt.Errorf("fetch search contexts: %w", err)
	}
	for i := range contexts {
		contexts[i].Hydrate()
	}
	return contexts, nil
}

// ByID is the ref.Loader for search contexts.
func (s *SearchContextService) ByID(ctx context.Context, id uint) (models.SearchContext, error) {
	var sc models.SearchContext
	err := s.DB.WithContext(ctx).First(&sc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SearchContext{}, ErrNotFound
	}
	if err != nil {
		return models.SearchContext{}, fmt.Errorf("fetch search context %d: %w", id, err)
	}
	sc.Hydrate()
	return sc, nil
}
