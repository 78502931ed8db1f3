//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/store"
	"github.com/taipo/kanban-api/internal/testdb"
)

func TestRequirementStoreCreate(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		reqs := NewPostgresRequirementStore(tx, nil)

		req, err := domain.NewRequirement(project.ID, "The system must support exports.")
		require.NoError(t, err)
		require.NoError(t, reqs.Create(ctx, req))
		assert.NotZero(t, req.ID, "Create should assign a generated ID")
		assert.False(t, req.CreatedAt.IsZero())
	})
}

func TestRequirementStoreCreateUnknownProject(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		reqs := NewPostgresRequirementStore(tx, nil)

		req, err := domain.NewRequirement(999999999, "Orphan requirement text.")
		require.NoError(t, err)

		err = reqs.Create(context.Background(), req)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestRequirementStoreListNewestFirst(t *testing.T) {
	t.Parallel()
	db := testdb.Get(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		project := seedProject(t, tx)
		reqs := NewPostgresRequirementStore(tx, nil)

		base := time.Now().UTC().Add(-time.Hour)
		for i, content := range []string{"oldest", "middle", "newest"} {
			req, err := domain.NewRequirement(project.ID, content)
			require.NoError(t, err)
			req.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, reqs.Create(ctx, req))
		}

		listed, err := reqs.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "newest", listed[0].Content)
		assert.Equal(t, "middle", listed[1].Content)
		assert.Equal(t, "oldest", listed[2].Content)

		empty, err := reqs.ListByProject(ctx, 999999999)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
