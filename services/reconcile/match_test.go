package reconcile

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testLegislator(id int64, first, last, party, chamber string) Legislator {
	l := Legislator{
		Id:        id,
		FirstName: first,
		LastName:  last,
		Chamber:   chamber,
	}
	l.PoliticalParty.Code = party
	return l
}

func testLookups() *Lookups {
	return NewLookups(
		[]Legislator{
			testLegislator(1, "Alice", "Anderson", "R", "HOUSE"),
			testLegislator(2, "Bob", "Brown", "D", "HOUSE"),
			testLegislator(3, "Carol", "Clark", "R", "SENATE"),
		},
		[]Committee{
			{Id: 10, Name: "(H) Judiciary"},
			{Id: 11, Name: "(S) Finance"},
		},
	)
}

func statusId(id int64) *int64 {
	return &id
}

func TestMatchFloorVote(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500, TimeStamp: "2025-01-20T00:00:00Z"}

	vote := RawVote{
		Id:           1,
		BillStatusId: statusId(500),
		Motion:       "Do Pass",
		SystemId: &struct {
			Chamber  string `json:"chamber"`
			Sequence int    `json:"sequence"`
		}{Chamber: "HOUSE", Sequence: 93},
		LegislatorVotes: []RawLegislatorVote{
			{LegislatorId: 1, VoteType: "Yes"},
			{LegislatorId: 2, VoteType: "No"},
		},
	}

	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, []RawVote{vote}, nil)

	require.NotNil(t, result.Vote)
	require.Equal(t, "Do Pass", result.Vote.Motion)
	require.Equal(t, VoteTypeFloor, result.Vote.Type)
	require.Equal(t, "house", result.Vote.VoteChamber)
	require.Equal(t, "H93", result.Vote.SeqNumber)
	require.Equal(t, VoteCount{Y: 1, N: 1}, result.Vote.Count)
	require.Equal(t, PartyCount{Y: 1}, result.Vote.GopCount)
	require.Equal(t, PartyCount{N: 1}, result.Vote.DemCount)
	require.False(t, result.Vote.MotionPassed)
	require.True(t, result.Vote.GopSupported)
	require.False(t, result.Vote.DemSupported)

	expected := []LegislatorVote{
		{Option: "Y", Name: "Alice Anderson", LastName: "Anderson", Party: "R"},
		{Option: "N", Name: "Bob Brown", LastName: "Brown", Party: "D"},
	}
	require.Empty(t, cmp.Diff(expected, result.Vote.Votes))
}

func TestMatchNoReferencingRecords(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	vote := RawVote{BillStatusId: statusId(999), Motion: "Do Pass"}
	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, []RawVote{vote}, nil)

	require.Nil(t, result.Vote)
	require.Nil(t, result.CommitteeId)
}

func TestMatchExcludesIndefinitelyPostpone(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	votes := []RawVote{
		{BillStatusId: statusId(500), Motion: "Motion to Indefinitely Postpone HB 23"},
		{BillStatusId: statusId(500), Motion: "INDEFINITELY POSTPONE"},
	}
	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, votes, nil)
	require.Nil(t, result.Vote)

	actions := []RawExecutiveAction{
		{BillStatusId: statusId(500), Motion: "indefinitely postpone"},
	}
	result = matcher.Match(context.Background(), BillKey{"HB", 23}, event, nil, actions)
	require.Nil(t, result.Vote)
}

func TestMatchPrefersEmbeddedBillStatusId(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	// the flat key disagrees with the embedded object; the embedded
	// object wins
	vote := RawVote{
		BillStatusId: statusId(999),
		BillStatus: &struct {
			Id                  int64  `json:"id"`
			StandingCommitteeId *int64 `json:"standingCommitteeId"`
		}{Id: 500, StandingCommitteeId: statusId(10)},
		Motion: "Do Pass",
	}
	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, []RawVote{vote}, nil)

	require.NotNil(t, result.Vote)
	require.NotNil(t, result.CommitteeId)
	require.Equal(t, int64(10), *result.CommitteeId)
}

func TestMatchDedupsRepeatedBallots(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	vote := RawVote{
		BillStatusId: statusId(500),
		Motion:       "Do Pass",
		LegislatorVotes: []RawLegislatorVote{
			{LegislatorId: 1, VoteType: "Yes"},
			{LegislatorId: 1, VoteType: "Yes"},
			{LegislatorId: 1, VoteType: "Y"},
		},
	}
	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, []RawVote{vote}, nil)

	require.NotNil(t, result.Vote)
	require.Equal(t, VoteCount{Y: 1}, result.Vote.Count)
	require.Len(t, result.Vote.Votes, 1)
}

func TestMatchSkipsUnknownLegislators(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	vote := RawVote{
		BillStatusId: statusId(500),
		Motion:       "Do Pass",
		LegislatorVotes: []RawLegislatorVote{
			{LegislatorId: 9999, VoteType: "Yes"},
			{LegislatorId: 1, VoteType: "Yes"},
		},
	}
	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, []RawVote{vote}, nil)

	require.NotNil(t, result.Vote)
	require.Equal(t, VoteCount{Y: 1}, result.Vote.Count)
	require.Len(t, result.Vote.Votes, 1)
}

func TestMatchCombinesFloorAndExecutiveRecords(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	votes := []RawVote{{
		BillStatusId: statusId(500),
		Motion:       "Do Pass",
		LegislatorVotes: []RawLegislatorVote{
			{LegislatorId: 1, VoteType: "Yes"},
		},
	}}
	actions := []RawExecutiveAction{{
		BillStatusId: statusId(500),
		Motion:       "Do Pass as Amended",
		StandingCommittee: &struct {
			Id int64 `json:"id"`
		}{Id: 11},
		LegislatorVotes: []RawCommitteeVote{
			{Membership: struct {
				LegislatorId int64 `json:"legislatorId"`
			}{LegislatorId: 3}, CommitteeVote: "Nay"},
		},
	}}

	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, votes, actions)

	require.NotNil(t, result.Vote)
	// the first matching record's motion wins
	require.Equal(t, "Do Pass", result.Vote.Motion)
	require.Equal(t, VoteCount{Y: 1, N: 1}, result.Vote.Count)
	require.Equal(t, PartyCount{Y: 1, N: 1}, result.Vote.GopCount)
	require.NotNil(t, result.CommitteeId)
	require.Equal(t, int64(11), *result.CommitteeId)
}

func TestMatchVoteOptionCodes(t *testing.T) {
	matcher := NewMatcher(testLookups())
	event := RawBillStatus{Id: 500}

	vote := RawVote{
		BillStatusId: statusId(500),
		Motion:       "Do Pass",
		LegislatorVotes: []RawLegislatorVote{
			{LegislatorId: 1, VoteType: "Absent"},
			{LegislatorId: 3, VoteType: "Excused"},
		},
	}
	result := matcher.Match(context.Background(), BillKey{"HB", 23}, event, []RawVote{vote}, nil)

	require.NotNil(t, result.Vote)
	// absences and excusals never reach the yes/no count
	require.Equal(t, VoteCount{}, result.Vote.Count)
	require.Equal(t, PartyCount{A: 1, E: 1}, result.Vote.GopCount)
	require.False(t, result.Vote.MotionPassed)
}
