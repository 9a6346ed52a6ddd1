package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/JuggernautLabs/ContractStream/internal/ref"
)

// User is an account row. The password digest column exists in the table
// but is intentionally absent here: hashing and comparison happen inside
// Postgres (pgcrypto), and no password material is ever carried in memory
// after verification.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
}

func (u User) Key() uint { return u.ID }

// Job is a scraped posting. PostURL is the dedup key for upserts.
type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string   `gorm:"not null" json:"title"`
	Website     string   `json:"website"`
	Description string   `gorm:"type:text" json:"description"`
	Budget      *float64 `json:"budget"`
	Hourly      *float64 `json:"hourly"`
	PostURL     string   `gorm:"uniqueIndex;not null" json:"post_url"`
	Summary     *string  `gorm:"type:text" json:"summary"`
}

func (j Job) Key() uint { return j.ID }

// Proposal is a user's proposal text for a job. JSON carries the foreign
// keys; the Ref fields are resolved on demand by whoever needs the rows.
type Proposal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint   `gorm:"not null;index" json:"user_id"`
	JobID  uint   `gorm:"not null;index" json:"job_id"`
	Text   string `gorm:"column:proposal;type:text" json:"proposal"`

	User ref.Ref[uint, User] `gorm:"-" json:"-"`
	Job  ref.Ref[uint, Job]  `gorm:"-" json:"-"`
}

func (p Proposal) Key() uint { return p.ID }

// Hydrate rebuilds the lazy references from the scalar foreign-key
// columns, called after a row is scanned.
func (p *Proposal) Hydrate() {
	p.User = ref.FromID[uint, User](p.UserID)
	p.Job = ref.FromID[uint, Job](p.JobID)
}

// Resume stores extracted resume text. Rows are soft-deleted so search
// contexts pointing at a removed resume fail resolution as not-found
// instead of silently reading stale text.
type Resume struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID     uint   `gorm:"not null;index" json:"user_id"`
	ResumeText string `gorm:"type:text" json:"resume_text"`

	User ref.Ref[uint, User] `gorm:"-" json:"-"`
}

func (r Resume) Key() uint { return r.ID }

func (r *Resume) Hydrate() {
	r.User = ref.FromID[uint, User](r.UserID)
}

// SearchContext is a keyword set the scraper searches with, optionally
// anchored to a resume.
type SearchContext struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint           `gorm:"not null;index" json:"user_id"`
	ResumeID *uint          `json:"resume_id"`
	Keywords pq.StringArray `gorm:"type:text[]" json:"keywords"`

	User   ref.Ref[uint, User]    `gorm:"-" json:"-"`
	Resume *ref.Ref[uint, Resume] `gorm:"-" json:"-"`
}

func (c SearchContext) Key() uint { return c.ID }

func (c *SearchContext) Hydrate() {
	c.User = ref.FromID[uint, User](c.UserID)
	c.Resume = nil
	if c.ResumeID != nil {
		r := ref.FromID[uint, Resume](*c.ResumeID)
		c.Resume = &r
	}
}

// PendingJob queues a scraped job plus its generated proposal for a user's
// accept/reject decision. One row per (job, user).
type PendingJob struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	JobID      uint `gorm:"not null;uniqueIndex:idx_pending_job_user" json:"job_id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_pending_job_user" json:"user_id"`
	ProposalID uint `gorm:"not null" json:"proposal_id"`

	Job      ref.Ref[uint, Job]      `gorm:"-" json:"-"`
	User     ref.Ref[uint, User]     `gorm:"-" json:"-"`
	Proposal ref.Ref[uint, Proposal] `gorm:"-" json:"-"`
}

func (p *PendingJob) Hydrate() {
	p.Job = ref.FromID[uint, Job](p.JobID)
	p.User = ref.FromID[uint, User](p.UserID)
	p.Proposal = ref.FromID[uint, Proposal](p.ProposalID)
}

// Decision is the outcome recorded for a decided job.
type Decision string

const (
	Accepted Decision = "accepted"
	Denied   Decision = "denied"
)

// DecidedJob records a user's verdict on a pending job.
type DecidedJob struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	JobID      uint `gorm:"not null;index" json:"job_id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`
	ProposalID uint `json:"proposal_id"`
	Accepted   bool `json:"accepted"`

	Job ref.Ref[uint, Job] `gorm:"-" json:"-"`
}

func (d *DecidedJob) Hydrate() {
	d.Job = ref.FromID[uint, Job](d.JobID)
}

// Decision folds the accepted column into the two-valued outcome.
func (d DecidedJob) Decision() Decision {
	if d.Accepted {
		return Accepted
	}
	return Denied
}
