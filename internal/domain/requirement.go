package domain

import (
	"strings"
	"time"
)

// Requirement is an append-only record of raw specification text captured
// for a project before it was turned into tasks.
type Requirement struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRequirement creates a requirement record for the given project.
func NewRequirement(projectID int64, content string) (*Requirement, error) {
	req := &Requirement{
		ProjectID: projectID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks if the Requirement has valid data.
func (r *Requirement) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyRequirementContent
	}
	return nil
}
