package reconcile

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Matcher joins status-change events to the vote records referencing
// them and computes the tallies the output Vote carries.
type Matcher struct {
	lookups *Lookups
}

func NewMatcher(lookups *Lookups) Matcher {
	return Matcher{lookups: lookups}
}

// MatchResult is the matcher's verdict for one status-change event.
// Vote is nil when nothing referenced the event, which is the common
// case. CommitteeId carries the committee referenced by whichever vote
// record matched, when any did.
type MatchResult struct {
	Vote        *Vote
	CommitteeId *int64
}

// motions that "indefinitely postpone" a bill show up in the source
// attached to status changes they do not describe, so they are excluded
// from matching wholesale. An empirically-discovered quirk of the
// upstream data, preserved as policy.
func excludedMotion(motion string) bool {
	return strings.Contains(strings.ToLower(motion), "indefinitely postpone")
}

// Match scans the bill's roll call votes and then its executive actions
// for records referencing the event's status id. Both passes accumulate
// into the same tally, so an event referenced from both sources yields
// one combined Vote. Legislator ballots that cannot be resolved against
// the lookup table are skipped individually; duplicate (name, option)
// pairs are recorded once.
func (m Matcher) Match(
	ctx context.Context,
	bill BillKey,
	event RawBillStatus,
	votes []RawVote,
	execActions []RawExecutiveAction,
) MatchResult {
	t := newTally()
	var committeeId *int64

	for _, vote := range votes {
		statusId, ok := vote.StatusId()
		if !ok || statusId != event.Id {
			continue
		}
		if excludedMotion(vote.Motion) {
			continue
		}

		t.matched = true
		if t.motion == "" {
			t.motion = vote.Motion
		}
		if vote.SystemId != nil && vote.SystemId.Chamber != "" {
			t.voteChamber = strings.ToLower(vote.SystemId.Chamber)
			t.seqNumber = seqLabel(vote.SystemId.Chamber, vote.SystemId.Sequence)
		}
		if vote.BillStatus != nil && vote.BillStatus.StandingCommitteeId != nil {
			committeeId = vote.BillStatus.StandingCommitteeId
		}

		for _, ballot := range vote.LegislatorVotes {
			m.addBallot(ctx, &t, bill, ballot.LegislatorId, ballot.VoteType)
		}
	}

	for _, action := range execActions {
		if action.BillStatusId == nil || *action.BillStatusId != event.Id {
			continue
		}
		if excludedMotion(action.Motion) {
			continue
		}

		t.matched = true
		if t.motion == "" {
			t.motion = action.Motion
		}
		if action.StandingCommittee != nil {
			committeeId = &action.StandingCommittee.Id
		}

		for _, ballot := range action.LegislatorVotes {
			m.addBallot(ctx, &t, bill, ballot.Membership.LegislatorId, ballot.CommitteeVote)
		}
	}

	return MatchResult{
		Vote:        t.vote(),
		CommitteeId: committeeId,
	}
}

// seqLabel derives the human vote-sequence label, e.g. "H93" for the
// 93rd house floor vote.
func seqLabel(chamber string, sequence int) string {
	if chamber == "" {
		return ""
	}
	return strings.ToUpper(chamber[:1]) + strconv.Itoa(sequence)
}

func (m Matcher) addBallot(ctx context.Context, t *tally, bill BillKey, legislatorId int64, voteType string) {
	if voteType == "" {
		return
	}
	// the first character of the vote-type string is the canonical
	// code: Y, N, A (absent), E (excused), O (other)
	option := strings.ToUpper(voteType[:1])

	legislator, ok := m.lookups.Legislator(legislatorId)
	if !ok {
		slog.WarnContext(
			ctx, "skipping vote by unknown legislator",
			"bill", bill.String(),
			"legislator_id", legislatorId,
		)
		return
	}

	name := legislator.FullName()
	seenKey := name + "|" + option
	if _, dup := t.seen[seenKey]; dup {
		return
	}
	t.seen[seenKey] = struct{}{}

	switch option {
	case "Y":
		t.count.Y++
	case "N":
		t.count.N++
	}

	switch legislator.PoliticalParty.Code {
	case "R":
		addPartyBallot(&t.gop, option)
	case "D":
		addPartyBallot(&t.dem, option)
	}

	t.votes = append(t.votes, LegislatorVote{
		Option:   option,
		Name:     name,
		LastName: legislator.LastName,
		Party:    legislator.PoliticalParty.Code,
		Locale:   legislator.City,
		District: legislator.DistrictName(),
	})
}

func addPartyBallot(count *PartyCount, option string) {
	switch option {
	case "Y":
		count.Y++
	case "N":
		count.N++
	case "A":
		count.A++
	case "E":
		count.E++
	case "O":
		count.O++
	}
}

type tally struct {
	count       VoteCount
	gop, dem    PartyCount
	votes       []LegislatorVote
	seen        map[string]struct{}
	voteChamber string
	seqNumber   string
	motion      string
	matched     bool
}

func newTally() tally {
	return tally{seen: map[string]struct{}{}}
}

// vote finalizes the accumulated tally into an output Vote, or nil when
// no record matched. Type, VoteChamber for committee votes, and the
// action/bill/date envelope are the assembler's job; everything the
// tally knows is filled here.
func (t tally) vote() *Vote {
	if !t.matched {
		return nil
	}
	return &Vote{
		Type:              VoteTypeFloor,
		SeqNumber:         t.seqNumber,
		VoteChamber:       t.voteChamber,
		Motion:            t.motion,
		ThresholdRequired: "simple",
		Count:             t.count,
		GopCount:          t.gop,
		DemCount:          t.dem,
		MotionPassed:      t.count.Y > t.count.N,
		GopSupported:      t.gop.Y > t.gop.N,
		DemSupported:      t.dem.Y > t.dem.N,
		Votes:             t.votes,
	}
}
