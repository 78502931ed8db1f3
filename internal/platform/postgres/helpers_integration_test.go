//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taipo/kanban-api/internal/domain"
)

// seedProject inserts a project with a unique name into the transaction.
func seedProject(t *testing.T, tx *sql.Tx) *domain.Project {
	t.Helper()

	project, err := domain.NewProject("it-" + uuid.NewString())
	require.NoError(t, err, "Failed to build project")

	projects := NewPostgresProjectStore(tx, nil)
	require.NoError(t, projects.Create(context.Background(), project),
		"Failed to seed project")
	return project
}

// seedTask inserts a task for the given project and stage.
func seedTask(t *testing.T, tx *sql.Tx, projectID int64, status string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(projectID, "Seed task",
		"A seeded task used as test fixture", status)
	require.NoError(t, err, "Failed to build task")

	tasks := NewPostgresTaskStore(tx, nil)
	require.NoError(t, tasks.Create(context.Background(), task),
		"Failed to seed task")
	return task
}
