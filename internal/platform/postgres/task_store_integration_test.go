//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/store"
	"github.com/taipo/kanban-api/internal/testdb"
)

func TestTaskStoreCreateAssignsNextPosition(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		project := seedProject(t, tx)

		first := seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		second := seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		other := seedTask(t, tx, project.ID, domain.StageDone)

		assert.Equal(t, 1, first.Position, "First task should land at position 1")
		assert.Equal(t, 2, second.Position, "Second task should land below the first")
		assert.Equal(t, 1, other.Position,
			"Positions are assigned per stage, not per project")
	})
}

func TestTaskStoreCreateKeepsExplicitPosition(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		task, err := domain.NewTask(project.ID, "Placed task",
			"A task with a caller-chosen position", domain.StageSprintBacklog)
		require.NoError(t, err)
		task.Position = 7

		require.NoError(t, tasks.Create(context.Background(), task))
		assert.Equal(t, 7, task.Position)
	})
}

func TestTaskStoreCreateUnknownProject(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		tasks := NewPostgresTaskStore(tx, nil)

		task, err := domain.NewTask(999999999, "Orphan",
			"A task pointing at a missing project", domain.StageSprintBacklog)
		require.NoError(t, err)

		err = tasks.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity,
			"Foreign key violation should map to ErrInvalidEntity")
	})
}

func TestTaskStoreCreateMultiple(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		batch := make([]*domain.Task, 0, 3)
		for _, title := range []string{"First", "Second", "Third"} {
			task, err := domain.NewTask(project.ID, title,
				"A batch-created task for "+title, domain.StageSprintBacklog)
			require.NoError(t, err)
			batch = append(batch, task)
		}

		require.NoError(t, tasks.CreateMultiple(ctx, batch))
		for i, task := range batch {
			assert.NotZero(t, task.ID, "Batch create should assign IDs")
			assert.Equal(t, i, task.Position,
				"Batch create should assign list index as position")
		}

		listed, err := tasks.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "First", listed[0].Title)
		assert.Equal(t, "Third", listed[2].Title)
	})
}

func TestTaskStoreGetByIDRoundTrip(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		parent := seedTask(t, tx, project.ID, domain.StageImplementation)

		child, err := domain.NewTask(project.ID, "Subtask",
			"A decomposed piece of the parent task", domain.StageSprintBacklog)
		require.NoError(t, err)
		child.Subtask = true
		child.ParentTaskID = &parent.ID
		child.Important = true
		require.NoError(t, tasks.Create(ctx, child))

		got, err := tasks.GetByID(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ProjectID)
		assert.Equal(t, "Subtask", got.Title)
		assert.True(t, got.Subtask)
		assert.True(t, got.Important)
		require.NotNil(t, got.ParentTaskID)
		assert.Equal(t, parent.ID, *got.ParentTaskID)

		gotParent, err := tasks.GetByID(ctx, parent.ID)
		require.NoError(t, err)
		assert.Nil(t, gotParent.ParentTaskID)

		_, err = tasks.GetByID(ctx, 999999999)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreListByProjectOrdering(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		back := seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		front := seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		require.NoError(t, tasks.UpdatePlacement(ctx, back.ID, domain.StageSprintBacklog, 5))
		require.NoError(t, tasks.UpdatePlacement(ctx, front.ID, domain.StageSprintBacklog, 1))

		listed, err := tasks.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, front.ID, listed[0].ID, "Lower position should come first")
		assert.Equal(t, back.ID, listed[1].ID)
	})
}

func TestTaskStoreCountByStatus(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		seedTask(t, tx, project.ID, domain.StageTesting)
		seedTask(t, tx, project.ID, domain.StageTesting)
		seedTask(t, tx, project.ID, domain.StageDone)

		count, err := tasks.CountByStatus(ctx, project.ID, domain.StageTesting)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		count, err = tasks.CountByStatus(ctx, project.ID, domain.StageReview)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestTaskStoreMutations(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)
		task := seedTask(t, tx, project.ID, domain.StageSprintBacklog)

		require.NoError(t, tasks.UpdateStatus(ctx, task.ID, domain.StageImplementation))
		require.NoError(t, tasks.UpdateContent(ctx, task.ID, "New title", "New description text"))
		require.NoError(t, tasks.SetImportant(ctx, task.ID, true))
		require.NoError(t, tasks.SetGeneratedCode(ctx, task.ID, "package main"))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageImplementation, got.Status)
		assert.Equal(t, "New title", got.Title)
		assert.Equal(t, "New description text", got.Description)
		assert.True(t, got.Important)
		assert.Equal(t, "package main", got.GeneratedCode)
	})
}

func TestTaskStoreMutationsOnMissingTask(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := NewPostgresTaskStore(tx, nil)
		const missing = int64(999999999)

		mutations := map[string]func() error{
			"UpdateStatus": func() error {
				return tasks.UpdateStatus(ctx, missing, domain.StageDone)
			},
			"UpdatePlacement": func() error {
				return tasks.UpdatePlacement(ctx, missing, domain.StageDone, 0)
			},
			"UpdateContent": func() error {
				return tasks.UpdateContent(ctx, missing, "t", "d")
			},
			"SetImportant": func() error {
				return tasks.SetImportant(ctx, missing, true)
			},
			"SetGeneratedCode": func() error {
				return tasks.SetGeneratedCode(ctx, missing, "code")
			},
			"AppendPOComment": func() error {
				return tasks.AppendPOComment(ctx, missing, "note")
			},
			"Delete": func() error {
				return tasks.Delete(ctx, missing)
			},
		}

		for name, mutate := range mutations {
			assert.ErrorIs(t, mutate(), store.ErrTaskNotFound,
				"%s on a missing task should report not found", name)
		}
	})
}

func TestTaskStoreAppendPOComment(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)
		task := seedTask(t, tx, project.ID, domain.StageSprintBacklog)

		require.NoError(t, tasks.AppendPOComment(ctx, task.ID, "First note"))
		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "First note", got.POComments,
			"First append should not add a leading newline")

		require.NoError(t, tasks.AppendPOComment(ctx, task.ID, "Second note"))
		got, err = tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "First note\nSecond note", got.POComments,
			"Later appends should join with a newline")
	})
}

func TestTaskStoreDelete(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)
		task := seedTask(t, tx, project.ID, domain.StageSprintBacklog)

		require.NoError(t, tasks.Delete(ctx, task.ID))

		_, err := tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreDeleteByProject(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		other := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		seedTask(t, tx, project.ID, domain.StageDone)
		kept := seedTask(t, tx, other.ID, domain.StageSprintBacklog)

		count, err := tasks.DeleteByProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		_, err = tasks.GetByID(ctx, kept.ID)
		assert.NoError(t, err, "Tasks of other projects should be untouched")

		count, err = tasks.DeleteByProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count, "An empty board deletes zero tasks")
	})
}

func TestTaskStoreFilterIDsByProject(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		other := seedProject(t, tx)
		tasks := NewPostgresTaskStore(tx, nil)

		first := seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		second := seedTask(t, tx, project.ID, domain.StageSprintBacklog)
		foreign := seedTask(t, tx, other.ID, domain.StageSprintBacklog)

		filtered, err := tasks.FilterIDsByProject(ctx, project.ID,
			[]int64{foreign.ID, second.ID, 424242, first.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID, first.ID}, filtered,
			"Filter should keep input order and drop foreign and unknown ids")

		filtered, err = tasks.FilterIDsByProject(ctx, project.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})
}
