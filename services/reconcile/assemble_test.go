package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, path string, value any) {
	t.Helper()
	contents, err := json.Marshal(value)
	require.NoError(t, err)
	err = os.MkdirAll(filepath.Dir(path), 0777)
	require.NoError(t, err)
	err = os.WriteFile(path, contents, 0666)
	require.NoError(t, err)
}

func fixtureBill() RawBill {
	var bill RawBill
	bill.Id = 1
	bill.BillNumber = 23
	bill.Draft.BillStatuses = []RawBillStatus{
		{
			Id:        502,
			TimeStamp: "2025-01-20T00:00:00Z",
			BillStatusCode: &RawBillStatusCode{
				Name:    "(H) 2nd Reading Passed",
				Chamber: "HOUSE",
			},
		},
		{
			Id:             501,
			TimeStamp:      "2025-01-05T00:00:00Z",
			BillStatusCode: &RawBillStatusCode{Name: "(H) Referred to Committee", StandingCommitteeId: statusId(10)},
		},
		{
			Id:             500,
			TimeStamp:      "2025-01-02T00:00:00Z",
			BillStatusCode: &RawBillStatusCode{Name: "(H) Introduced"},
		},
		// same date and description as 501: a duplicate to collapse
		{
			Id:             503,
			TimeStamp:      "2025-01-05T06:00:00Z",
			BillStatusCode: &RawBillStatusCode{Name: "(H) Referred to Committee", StandingCommitteeId: statusId(10)},
		},
		{
			Id:             504,
			BillStatusCode: &RawBillStatusCode{Name: "Draft Request Received"},
		},
	}
	return bill
}

func fixtureVotes() []RawVote {
	return []RawVote{{
		Id:           1,
		BillStatusId: statusId(502),
		Motion:       "Do Pass",
		SystemId: &struct {
			Chamber  string `json:"chamber"`
			Sequence int    `json:"sequence"`
		}{Chamber: "HOUSE", Sequence: 41},
		LegislatorVotes: []RawLegislatorVote{
			{LegislatorId: 1, VoteType: "Yes"},
			{LegislatorId: 2, VoteType: "No"},
		},
	}}
}

func fixtureAssembler(t *testing.T) (Assembler, BillKey) {
	t.Helper()
	dir := t.TempDir()
	sources := SessionSources(dir, "2")
	key := BillKey{Type: "HB", Number: 23}

	writeFixture(t, filepath.Join(sources.BillsDir, "HB-23-raw-bill.json"), fixtureBill())
	writeFixture(t, filepath.Join(sources.VotesDir, "HB-23-raw-votes.json"), fixtureVotes())

	return Assembler{
		Sources:   sources,
		Lookups:   testLookups(),
		OutputDir: filepath.Join(dir, "actions-2"),
		Today:     testToday(),
	}, key
}

func TestAssembleBill(t *testing.T) {
	assembler, key := fixtureAssembler(t)

	actions, err := assembler.AssembleBill(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, actions, 4)

	// the empty timestamp sorts first and degrades to "undefined"
	require.Equal(t, "HB23-0001", actions[0].Id)
	require.Equal(t, UndefinedDate, actions[0].Date)
	require.Equal(t, "Draft Request Received", actions[0].Description)
	require.Equal(t, "other", actions[0].Possession)

	require.Equal(t, "HB23-0002", actions[1].Id)
	require.Equal(t, "01/02/2025", actions[1].Date)
	require.Equal(t, "Introduced", actions[1].Description)
	require.Equal(t, "house", actions[1].Possession)
	require.Nil(t, actions[1].Vote)

	// the two referral events collapsed into one
	require.Equal(t, "HB23-0003", actions[2].Id)
	require.Equal(t, "Referred to Committee", actions[2].Description)
	require.Equal(t, "Referred to Committee", actions[2].Key)
	require.NotNil(t, actions[2].Committee)
	require.Equal(t, "House Judiciary", *actions[2].Committee)

	require.Equal(t, "HB23-0004", actions[3].Id)
	require.Equal(t, "2nd Reading Passed", actions[3].Description)
	require.NotNil(t, actions[3].Vote)
	require.Equal(t, "HB23-0004", actions[3].Vote.Action)
	require.Equal(t, "HB 23", actions[3].Vote.Bill)
	require.Equal(t, "01/20/2025", actions[3].Vote.Date)
	require.Equal(t, VoteTypeFloor, actions[3].Vote.Type)
	require.Equal(t, "H41", actions[3].Vote.SeqNumber)
	require.Equal(t, VoteCount{Y: 1, N: 1}, actions[3].Vote.Count)
}

func TestAssembleBillMissingRawBill(t *testing.T) {
	assembler, _ := fixtureAssembler(t)

	_, err := assembler.AssembleBill(context.Background(), BillKey{Type: "SB", Number: 99})
	require.ErrorIs(t, err, ErrMissingSource)
}

func TestAssembleBillMissingVotes(t *testing.T) {
	assembler, key := fixtureAssembler(t)
	err := os.Remove(filepath.Join(assembler.Sources.VotesDir, "HB-23-raw-votes.json"))
	require.NoError(t, err)

	_, err = assembler.AssembleBill(context.Background(), key)
	require.ErrorIs(t, err, ErrMissingSource)
}

func TestRunSkipsBillsWithMissingSources(t *testing.T) {
	assembler, key := fixtureAssembler(t)

	bills := []BillListEntry{
		{BillType: key.Type, BillNumber: key.Number},
		{BillType: "SB", BillNumber: 99},
	}
	report, err := assembler.Run(context.Background(), bills)
	require.NoError(t, err)
	require.Equal(t, RunReport{Processed: 1, Skipped: 1}, report)

	_, err = os.Stat(filepath.Join(assembler.OutputDir, "HB-23-actions.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(assembler.OutputDir, "SB-99-actions.json"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunIsIdempotent(t *testing.T) {
	assembler, key := fixtureAssembler(t)
	bills := []BillListEntry{{BillType: key.Type, BillNumber: key.Number}}

	_, err := assembler.Run(context.Background(), bills)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(assembler.OutputDir, "HB-23-actions.json"))
	require.NoError(t, err)

	_, err = assembler.Run(context.Background(), bills)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(assembler.OutputDir, "HB-23-actions.json"))
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}
