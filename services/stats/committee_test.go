package stats

import (
	"os"
	"path/filepath"
	"testing"

	"mtleg-backend/services/reconcile"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func committeePtr(name string) *string {
	return &name
}

func referredActions(committee string, outcome ...string) []reconcile.Action {
	actions := []reconcile.Action{{
		Key:         "Referred to Committee",
		Description: "Referred to Committee",
		Committee:   committeePtr(committee),
	}}
	for _, description := range outcome {
		actions = append(actions, reconcile.Action{
			Key:         description,
			Description: description,
		})
	}
	return actions
}

func TestCanonicalizer(t *testing.T) {
	canon := NewCanonicalizer([]string{"House Judiciary", "Senate Finance"})

	require.Equal(t, "House Judiciary", canon.Canonical("House Judiciary"))
	// near-identical spellings fold onto the known name
	require.Equal(t, "House Judiciary", canon.Canonical("House Judiciary "))
	// genuinely different names are learned as-is
	require.Equal(t, "House Agriculture", canon.Canonical("House Agriculture"))
	require.Equal(t, "House Agriculture", canon.Canonical("House Agriculture"))
}

func TestComputeCommitteeStats(t *testing.T) {
	actionsByBill := map[string][]reconcile.Action{
		"HB 1": referredActions("House Judiciary", "Signed by Governor"),
		"HB 2": referredActions("House Judiciary", "Tabled in Committee"),
		"HB 3": referredActions("House Judiciary", "Transmitted to Governor"),
		"SB 1": referredActions("Senate Finance", "Transmitted to Governor", "Vetoed by Governor"),
		// never referred anywhere, excluded
		"SB 2": {{Key: "Introduced", Description: "Introduced"}},
	}

	canon := NewCanonicalizer(nil)
	stats := ComputeCommitteeStats(actionsByBill, canon)

	require.Len(t, stats, 2)

	judiciary := stats[0]
	require.Equal(t, "House Judiciary", judiciary.Committee)
	require.Equal(t, 3, judiciary.BillTotal)
	require.Equal(t, 2, judiciary.PassedTotal)
	require.Equal(t, 1, judiciary.FailedTotal)
	require.Equal(t, 66.67, judiciary.PassPercentage)
	require.Empty(t, cmp.Diff([]string{"HB 1", "HB 2", "HB 3"}, judiciary.Bills))
	require.Empty(t, cmp.Diff([]string{"HB 1", "HB 3"}, judiciary.PassedBills))
	require.Empty(t, cmp.Diff([]string{"HB 2"}, judiciary.FailedBills))

	finance := stats[1]
	require.Equal(t, "Senate Finance", finance.Committee)
	require.Equal(t, 1, finance.BillTotal)
	require.Equal(t, 0, finance.PassedTotal)
	require.Equal(t, 0.0, finance.PassPercentage)
}

func TestLoadActionsDir(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "HB-23-actions.json"),
		[]byte(`[{"id":"HB23-0001","bill":"HB 23","description":"Introduced"}]`),
		0666,
	)
	require.NoError(t, err)
	// unrelated files are ignored
	err = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0666)
	require.NoError(t, err)

	actionsByBill, err := LoadActionsDir(dir)
	require.NoError(t, err)

	require.Len(t, actionsByBill, 1)
	actions, ok := actionsByBill["HB 23"]
	require.True(t, ok)
	require.Len(t, actions, 1)
	require.Equal(t, "HB23-0001", actions[0].Id)
}
