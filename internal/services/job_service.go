package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JuggernautLabs/ContractStream/internal/models"
	"github.com/JuggernautLabs/ContractStream/internal/ref"
)

// JobService owns job rows and the pending/decided queues.
type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{DB: db}
}

// ByID is the ref.Loader for jobs.
func (s *JobService) ByID(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Job{}, ErrNotFound
	}
	if err != nil {
		return models.Job{}, fmt.Errorf("fetch job %d: %w", id, err)
	}
	return job, nil
}

// AddIfNotExists upserts a scraped job keyed on post_url and returns a
// lazy reference to whichever row won. Only the id comes back from the
// query, so the ref starts unresolved; most callers never need more.
func (s *JobService) AddIfNotExists(ctx context.Context, job models.Job) (ref.Ref[uint, models.Job], error) {
	var row struct{ ID uint }
	res := s.DB.WithContext(ctx).Raw(
		`WITH new_job AS (
			INSERT INTO jobs (title, website, description, budget, hourly, post_url, summary, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, now(), now())
			ON CONFLICT (post_url) DO NOTHING
			RETURNING id
		)
		SELECT id FROM new_job
		UNION ALL
		SELECT id FROM jobs WHERE post_url = ?
		LIMIT 1`,
		job.Title, job.Website, job.Description, job.Budget, job.Hourly, job.PostURL, job.Summary,
		job.PostURL,
	).Scan(&row)
	if res.Error != nil {
		return ref.Ref[uint, models.Job]{}, fmt.Errorf("upsert job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ref.Ref[uint, models.Job]{}, fmt.Errorf("upsert job: no id returned")
	}
	return ref.FromID[uint, models.Job](row.ID), nil
}

// PendingQueue returns the user's pending rows, refs hydrated but
// unresolved. Callers resolve only the jobs they actually look at, which
// is what keeps the classify loop cheap.
func (s *JobService) PendingQueue(ctx context.Context, identity VerifiedIdentity) ([]models.PendingJob, error) {
	var pending []models.PendingJob
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", identity.UserID()).
		Order("created_at").
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("fetch pending queue: %w", err)
	}
	for i := range pending {
		pending[i].Hydrate()
	}
	return pending, nil
}

// JobsPendingFor returns the full job rows pending for a user in a single
// join, for the listing endpoint where every row is rendered anyway.
func (s *JobService) JobsPendingFor(ctx context.Context, identity VerifiedIdentity) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.WithContext(ctx).Raw(
		`SELECT j.*
		 FROM jobs j
		 JOIN pending_jobs p ON j.id = p.job_id
		 JOIN users u ON p.user_id = u.id
		 WHERE u.username = ?`,
		identity.Username(),
	).Scan(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("fetch pending jobs: %w", err)
	}
	return jobs, nil
}

// Decide records the user's verdict on a pending job and removes it from
// the queue, as one transaction. A job that is not pending for this user
// yields ErrNotFound.
func (s *JobService) Decide(ctx context.Context, identity VerifiedIdentity, jobID uint, accepted bool) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending models.PendingJob
		err := tx.Where("job_id = ? AND user_id = ?", jobID, identity.UserID()).First(&pending).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("fetch pending job: %w", err)
		}

		decided := models.DecidedJob{
			JobID:      pending.JobID,
			UserID:     pending.UserID,
			ProposalID: pending.ProposalID,
			Accepted:   accepted,
		}
		if err := tx.Create(&decided).Error; err != nil {
			return fmt.Errorf("record decision: %w", err)
		}
		if err := tx.Delete(&models.PendingJob{}, pending.ID).Error; err != nil {
			return fmt.Errorf("dequeue pending job: %w", err)
		}
		return nil
	})
}

// JobWithProposal pairs a decided job with the proposal that was submitted
// for it.
type JobWithProposal struct {
	Job      models.Job      `json:"job"`
	Proposal models.Proposal `json:"proposal"`
}

type decidedRow struct {
	JobID       uint
	Title       string
	Website     string
	Description string
	Budget      *float64
	Hourly      *float64
	PostURL     string
	Summary     *string
	ProposalID  uint
	PUserID     uint
	PJobID      uint
	Proposal    string
}

// DecidedWithProposals returns the user's accepted or denied jobs joined
// with their proposals.
func (s *JobService) DecidedWithProposals(ctx context.Context, identity VerifiedIdentity, accepted bool) ([]JobWithProposal, error) {
	var rows []decidedRow
	err := s.DB.WithContext(ctx).Raw(
		`SELECT j.id AS job_id, j.title, j.website, j.description, j.budget, j.hourly,
		        j.post_url, j.summary,
		        p.id AS proposal_id, p.user_id AS p_user_id, p.job_id AS p_job_id, p.proposal
		 FROM jobs j
		 JOIN decided_jobs d ON j.id = d.job_id
		 JOIN proposals p ON d.proposal_id = p.id
		 JOIN users u ON d.user_id = u.id
		 WHERE u.username = ? AND d.accepted = ?`,
		identity.Username(), accepted,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch decided jobs: %w", err)
	}

	out := make([]JobWithProposal, 0, len(rows))
	for _, row := range rows {
		job := models.Job{
			ID:          row.JobID,
			Title:       row.Title,
			Website:     row.Website,
			Description: row.Description,
			Budget:      row.Budget,
			Hourly:      row.Hourly,
			PostURL:     row.PostURL,
			Summary:     row.Summary,
		}
		proposal := models.Proposal{
			ID:     row.ProposalID,
			UserID: row.PUserID,
			JobID:  row.PJobID,
			Text:   row.Proposal,
			User:   ref.FromID[uint, models.User](row.PUserID),
			// the join already materialized the job, no second trip needed
			Job: ref.FromEntity[uint](job),
		}
		out = append(out, JobWithProposal{Job: job, Proposal: proposal})
	}
	return out, nil
}

// DecidedFor returns the bare decision history for a user.
func (s *JobService) DecidedFor(ctx context.Context, identity VerifiedIdentity) ([]models.DecidedJob, error) {
	var decided []models.DecidedJob
	err := s.DB.WithContext(ctx).Where("user_id = ?", identity.UserID()).Find(&decided).Error
	if err != nil {
		return nil, fmt.Errorf("fetch decided jobs: %w", err)
	}
	for i := range decided {
		decided[i].Hydrate()
	}
	return decided, nil
}
