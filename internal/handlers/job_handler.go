package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JuggernautLabs/ContractStream/internal/agent"
	"github.com/JuggernautLabs/ContractStream/internal/dtos"
	"github.com/JuggernautLabs/ContractStream/internal/models"
	"github.com/JuggernautLabs/ContractStream/internal/ref"
	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

type JobHandler struct {
	Jobs      *services.JobService
	Proposals *services.ProposalService
	Agent     *agent.Client
	Sessions  *session.Store
}

func NewJobHandler(jobs *services.JobService, proposals *services.ProposalService, agentClient *agent.Client, sessions *session.Store) *JobHandler {
	return &JobHandler{Jobs: jobs, Proposals: proposals, Agent: agentClient, Sessions: sessions}
}

// CreateJob is POST /jobs, the agent-facing upsert for scraped postings.
// Duplicate post_urls collapse onto the existing row.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	jobRef, err := h.Jobs.AddIfNotExists(c.Request.Context(), models.Job{
		Title:       req.Title,
		Website:     req.Website,
		Description: req.Description,
		Budget:      req.Budget,
		Hourly:      req.Hourly,
		PostURL:     req.PostURL,
		Summary:     req.Summary,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.JobRefResponse{JobID: jobRef.ID()})
}

// PendingJobs is GET /pending_jobs: every job awaiting the user's
// decision, in one join since all of them get rendered.
func (h *JobHandler) PendingJobs(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	jobs, err := h.Jobs.JobsPendingFor(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// NextPendingJob is GET /next_pending_job: walk the pending queue asking
// the agent for a verdict, and materialize only the first job it
// classifies. Classification needs just the ids, so unclassified rows
// never cost a job fetch.
func (h *JobHandler) NextPendingJob(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	queue, err := h.Jobs.PendingQueue(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, pending := range queue {
		classification, err := h.Agent.ClassifyJob(ctx, pending.JobID, identity.UserID())
		if err != nil {
			respondError(c, err)
			return
		}
		if classification == 0 {
			continue
		}

		jobRef, err := pending.Job.Resolve(ctx, h.Jobs.ByID)
		if err != nil {
			respondError(c, err)
			return
		}
		job, _ := jobRef.Entity()
		c.JSON(http.StatusOK, job)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "no pending jobs"})
}

// AcceptJob is POST /accept_job?job_id=N.
func (h *JobHandler) AcceptJob(c *gin.Context) {
	h.decideJob(c, true)
}

// RejectJob is POST /reject_job?job_id=N.
func (h *JobHandler) RejectJob(c *gin.Context) {
	h.decideJob(c, false)
}

func (h *JobHandler) decideJob(c *gin.Context, accepted bool) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// resolve first so a bogus id reads as 404, not as "nothing pending"
	jobRef, err := ref.FromID[uint, models.Job](jobID).Resolve(ctx, h.Jobs.ByID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Jobs.Decide(ctx, identity, jobRef.ID(), accepted); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": jobRef.ID(), "accepted": accepted})
}

// GenerateProposal is GET /generate_proposal?job_id=N: ask the agent to
// draft proposal text for a job the user is looking at.
func (h *JobHandler) GenerateProposal(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	jobRef, err := ref.FromID[uint, models.Job](jobID).Resolve(ctx, h.Jobs.ByID)
	if err != nil {
		respondError(c, err)
		return
	}

	text, err := h.Agent.GenerateProposal(ctx, jobRef.ID(), identity.UserID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.GeneratedProposalResponse{JobID: jobRef.ID(), Proposal: text})
}

// SubmitProposal is POST /proposals: store the (possibly edited) proposal
// text and put the job in the user's pending queue.
func (h *JobHandler) SubmitProposal(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	var req dtos.ProposalSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	if _, err := ref.FromID[uint, models.Job](req.JobID).Resolve(ctx, h.Jobs.ByID); err != nil {
		respondError(c, err)
		return
	}

	proposal, err := h.Proposals.Submit(ctx, identity, req.JobID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

// ScrapeForUser is POST /scrape_for_user: forward the request to the
// companion agent, which reads the user's search contexts on its own.
func (h *JobHandler) ScrapeForUser(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	if err := h.Agent.ScrapeForUser(c.Request.Context(), identity.UserID()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "scrape started"})
}

// AcceptedJobs is GET /accepted_jobs.
func (h *JobHandler) AcceptedJobs(c *gin.Context) {
	h.decidedJobs(c, true)
}

// DeniedJobs is GET /denied_jobs.
func (h *JobHandler) DeniedJobs(c *gin.Context) {
	h.decidedJobs(c, false)
}

func (h *JobHandler) decidedJobs(c *gin.Context, accepted bool) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	decided, err := h.Jobs.DecidedWithProposals(c.Request.Context(), identity, accepted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decided)
}

func jobIDParam(c *gin.Context) (uint, bool) {
	raw := c.Query("job_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No field 'job_id' in query"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be numeric"})
		return 0, false
	}
	return uint(id), true
}
