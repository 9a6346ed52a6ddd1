package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JuggernautLabs/ContractStream/internal/models"
	"github.com/JuggernautLabs/ContractStream/internal/ref"
)

// ProposalService owns proposal rows and their pending-queue entries.
type ProposalService struct {
	DB *gorm.DB
}

func NewProposalService(db *gorm.DB) *ProposalService {
	return &ProposalService{DB: db}
}

// Submit stores a proposal and enqueues the job for the user's decision,
// transactionally. Re-submitting for the same (job, user) repoints the
// queue entry at the newest proposal.
func (s *ProposalService) Submit(ctx context.Context, identity VerifiedIdentity, jobID uint, text string) (models.Proposal, error) {
	proposal := models.Proposal{
		UserID: identity.UserID(),
		JobID:  jobID,
		Text:   text,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&proposal).Error; err != nil {
			return fmt.Errorf("create proposal: %w", err)
		}
		pending := models.PendingJob{
			JobID:      jobID,
			UserID:     identity.UserID(),
			ProposalID: proposal.ID,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proposal_id"}),
		}).Create(&pending).Error
		if err != nil {
			return fmt.Errorf("enqueue pending job: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Proposal{}, err
	}

	// the submitting user is already verified and in hand
	proposal.User = ref.FromEntity[uint](identity.User())
	proposal.Job = ref.FromID[uint, models.Job](jobID)
	return proposal, nil
}

// ByID is the ref.Loader for proposals.
func (s *ProposalService) ByID(ctx context.Context, id uint) (models.Proposal, error) {
	var proposal models.Proposal
	err := s.DB.WithContext(ctx).First(&proposal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Proposal{}, ErrNotFound
	}
	if err != nil {
		return models.Proposal{}, fmt.Errorf("fetch proposal %d: %w", id, err)
	}
	proposal.Hydrate()
	return proposal, nil
}
