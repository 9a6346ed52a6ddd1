package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/JuggernautLabs/ContractStream/internal/dtos"
	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

type ContextHandler struct {
	Contexts *services.SearchContextService
	Resumes  *services.ResumeService
	Sessions *session.Store
}

func NewContextHandler(contexts *services.SearchContextService, resumes *services.ResumeService, sessions *session.Store) *ContextHandler {
	return &ContextHandler{Contexts: contexts, Resumes: resumes, Sessions: sessions}
}

// ListContexts is GET /search_context. With ?include=resume the attached
// resumes are resolved too, one fetch per distinct context, concurrently.
func (h *ContextHandler) ListContexts(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	contexts, err := h.Contexts.ForUser(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dtos.SearchContextResponse, len(contexts))
	for i, sc := range contexts {
		out[i] = dtos.SearchContextResponse{
			ContextID: sc.ID,
			Keywords:  sc.Keywords,
			ResumeID:  sc.ResumeID,
		}
	}

	if c.Query("include") == "resume" {
		g, gctx := errgroup.WithContext(ctx)
		for i := range contexts {
			if contexts[i].Resume == nil {
				continue
			}
			g.Go(func() error {
				resolved, err := contexts[i].Resume.Resolve(gctx, h.Resumes.ByID)
				if err != nil {
					return err
				}
				resume, _ := resolved.Entity()
				out[i].ResumeText = &resume.ResumeText
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, out)
}

// AddContext is POST /search_context.
func (h *ContextHandler) AddContext(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	var req dtos.SearchContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	sc, err := h.Contexts.Add(c.Request.Context(), identity, req.Keywords, req.ResumeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.SearchContextResponse{
		ContextID: sc.ID,
		Keywords:  sc.Keywords,
		ResumeID:  sc.ResumeID,
	})
}

// DeleteContext is DELETE /search_context.
func (h *ContextHandler) DeleteContext(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	var req dtos.DeleteContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	if err := h.Contexts.Remove(c.Request.Context(), identity, req.ContextID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"context_id": req.ContextID, "deleted": true})
}
