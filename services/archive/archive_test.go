package archive

import (
	"context"
	"testing"
	"time"

	"mtleg-backend/lib/testutil"
	"mtleg-backend/services/archive/db"
	"mtleg-backend/services/reconcile"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/archive",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	actions := []reconcile.Action{
		{Id: "HB23-0001", Bill: "HB 23", Date: "01/02/2025", Description: "Introduced", Key: "Introduced"},
		{Id: "HB23-0002", Bill: "HB 23", Date: "01/05/2025", Description: "Referred to Committee", Key: "Referred to Committee"},
	}

	{
		_, err := store.LatestActions(ctx, "2", "HB 23")
		require.ErrorIs(t, err, ErrNotArchived)

		changed, err := store.ChangedBill(ctx, "2", "HB 23", actions)
		require.NoError(t, err)
		require.True(t, changed)
	}
	{
		runId, err := store.BeginRun(ctx, "2")
		require.NoError(t, err)

		err = store.RecordBill(ctx, runId, "HB 23", actions)
		require.NoError(t, err)

		// an unfinished run is invisible to readers
		_, err = store.LatestActions(ctx, "2", "HB 23")
		require.ErrorIs(t, err, ErrNotArchived)

		err = store.FinishRun(ctx, runId)
		require.NoError(t, err)
	}
	{
		archived, err := store.LatestActions(ctx, "2", "HB 23")
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(actions, archived))

		changed, err := store.ChangedBill(ctx, "2", "HB 23", actions)
		require.NoError(t, err)
		require.False(t, changed)
	}
	{
		// a later run with a new action supersedes the first
		runId, err := store.BeginRun(ctx, "2")
		require.NoError(t, err)

		grown := append(actions, reconcile.Action{
			Id: "HB23-0003", Bill: "HB 23", Date: "01/20/2025",
			Description: "2nd Reading Passed", Key: "2nd Reading Passed",
		})
		err = store.RecordBill(ctx, runId, "HB 23", grown)
		require.NoError(t, err)
		err = store.FinishRun(ctx, runId)
		require.NoError(t, err)

		archived, err := store.LatestActions(ctx, "2", "HB 23")
		require.NoError(t, err)
		require.Len(t, archived, 3)

		changed, err := store.ChangedBill(ctx, "2", "HB 23", actions)
		require.NoError(t, err)
		require.True(t, changed)
	}
}
