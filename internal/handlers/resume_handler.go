package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/JuggernautLabs/ContractStream/internal/dtos"
	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

// TextExtractor turns an uploaded resume file into plain text for storage.
type TextExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

// PlainTextExtractor handles .txt and .md uploads. Binary formats need
// their own extractor wired in here.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", "":
	default:
		return "", fmt.Errorf("unsupported resume format %q", filepath.Ext(filename))
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("resume file is not valid UTF-8 text")
	}
	return string(data), nil
}

type ResumeHandler struct {
	Resumes   *services.ResumeService
	Sessions  *session.Store
	Extractor TextExtractor
	MaxSize   int64
}

func NewResumeHandler(resumes *services.ResumeService, sessions *session.Store, extractor TextExtractor, maxSize int64) *ResumeHandler {
	return &ResumeHandler{Resumes: resumes, Sessions: sessions, Extractor: extractor, MaxSize: maxSize}
}

// UploadResume is POST /upload_resume: multipart form with a "resume"
// file field.
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	identity, ok := currentIdentity(c, h.Sessions)
	if !ok {
		return
	}

	header, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file 'resume' in form"})
		return
	}
	if header.Size > h.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxSize+1))
	if err != nil {
		respondError(c, err)
		return
	}
	if int64(len(data)) > h.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file too large"})
		return
	}

	text, err := h.Extractor.Extract(header.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resume, err := h.Resumes.Save(c.Request.Context(), identity, text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.ResumeResponse{ResumeID: resume.ID, UserID: resume.UserID})
}
