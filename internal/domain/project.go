package domain

import (
	"strings"
	"time"
)

// Project is a named container for tasks. Names are unique across all
// projects; uniqueness is enforced by the store.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProject creates a new Project with the given name.
// The ID is assigned by the store on creation.
// Returns an error if validation fails.
func NewProject(name string) (*Project, error) {
	project := &Project{
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProjectName
	}
	return nil
}
