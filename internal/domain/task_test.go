package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask(7, "  Login  ", "  As a user, I want to log in.  ", StageSprintBacklog)
	require.NoError(t, err)

	assert.Equal(t, int64(7), task.ProjectID)
	assert.Equal(t, "Login", task.Title)
	assert.Equal(t, "As a user, I want to log in.", task.Description)
	assert.Equal(t, StageSprintBacklog, task.Status)
	assert.Zero(t, task.Position)
	assert.False(t, task.Important)
	assert.False(t, task.Subtask)
	assert.Nil(t, task.ParentTaskID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	_, err := NewTask(1, "Title", "   ", StageSprintBacklog)
	assert.ErrorIs(t, err, ErrEmptyTaskDescription)

	_, err = NewTask(1, "Title", "A description", "")
	assert.ErrorIs(t, err, ErrUnknownStage)

	task := &Task{Description: "A description", Status: StageDone, Position: -1}
	assert.ErrorIs(t, task.Validate(), ErrNegativePosition)
}

func TestTaskAppendPOComment(t *testing.T) {
	t.Parallel()

	task := &Task{Description: "d", Status: StageDone}

	task.AppendPOComment("  first note  ")
	assert.Equal(t, "first note", task.POComments)

	task.AppendPOComment("second note")
	assert.Equal(t, "first note\nsecond note", task.POComments)

	task.AppendPOComment("   ")
	assert.Equal(t, "first note\nsecond note", task.POComments, "blank notes are ignored")
}

func TestTaskDraftImportant(t *testing.T) {
	t.Parallel()

	assert.False(t, TaskDraft{Priority: 0}.Important())
	assert.False(t, TaskDraft{Priority: 1}.Important())
	assert.True(t, TaskDraft{Priority: 2}.Important())
	assert.True(t, TaskDraft{Priority: 3}.Important())
}
