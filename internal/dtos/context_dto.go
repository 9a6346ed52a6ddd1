package dtos

type SearchContextRequest struct {
	Keywords []string `json:"keywords" binding:"required,min=1"`
	ResumeID *uint    `json:"resume_id"`
}

type SearchContextResponse struct {
	ContextID uint     `json:"context_id"`
	Keywords  []string `json:"keywords"`
	ResumeID  *uint    `json:"resume_id,omitempty"`
	// ResumeText is only populated when the caller asks for resumes to be
	// resolved alongside the contexts.
	ResumeText *string `json:"resume_text,omitempty"`
}

type DeleteContextRequest struct {
	ContextID uint `json:"context_id" binding:"required"`
}

type ResumeResponse struct {
	ResumeID uint `json:"resume_id"`
	UserID   uint `json:"user_id"`
}
