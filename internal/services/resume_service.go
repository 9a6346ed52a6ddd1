package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JuggernautLabs/ContractStream/internal/models"
)

// ResumeService owns resume rows. Deletes are soft so that refs held by
// search contexts resolve to a clean not-found instead of stale text.
type ResumeService struct {
	DB *gorm.DB
}

func NewResumeService(db *gorm.DB) *ResumeService {
	return &ResumeService{DB: db}
}

// Save stores extracted resume text for a user.
func (s *ResumeService) Save(ctx context.Context, identity VerifiedIdentity, text string) (models.Resume, error) {
	resume := models.Resume{
		UserID:     identity.UserID(),
		ResumeText: text,
	}
	if err := s.DB.WithContext(ctx).Create(&resume).Error; err != nil {
		return models.Resume{}, fmt.Errorf("save resume: %w", err)
	}
	resume.Hydrate()
	return resume, nil
}

// Remove soft-deletes a resume owned by the user.
func (s *ResumeService) Remove(ctx context.Context, identity VerifiedIdentity, resumeID uint) error {
	res := s.DB.WithContext(ctx).
		Where("user_id = ?", identity.UserID()).
		Delete(&models.Resume{}, resumeID)
	if res.Error != nil {
		return fmt.Errorf("remove resume: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ByID is the ref.Loader for resumes. Soft-deleted rows are invisible
// here, so a ref to a removed resume fails as not-found.
func (s *ResumeService) ByID(ctx context.Context, id uint) (models.Resume, error) {
	var resume models.Resume
	err := s.DB.WithContext(ctx).First(&resume, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Resume{}, ErrNotFound
	}
	if err != nil {
		return models.Resume{}, fmt.Errorf("fetch resume %d: %w", id, err)
	}
	resume.Hydrate()
	return resume, nil
}
