package dtos

// JobSubmission is the agent-facing payload for scraped postings.
type JobSubmission struct {
	Title       string   `json:"title" binding:"required"`
	Website     string   `json:"website"`
	Description string   `json:"description" binding:"required"`
	Budget      *float64 `json:"budget"`
	Hourly      *float64 `json:"hourly"`
	PostURL     string   `json:"post_url" binding:"required"`
	Summary     *string  `json:"summary"`
}

type JobRefResponse struct {
	JobID uint `json:"job_id"`
}

type ProposalSubmission struct {
	JobID uint   `json:"job_id" binding:"required"`
	Text  string `json:"proposal" binding:"required"`
}

type GeneratedProposalResponse struct {
	JobID    uint   `json:"job_id"`
	Proposal string `json:"proposal"`
}
