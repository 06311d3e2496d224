package reconcile

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Enricher attaches committee and scheduled-hearing metadata to a
// status-change event.
type Enricher struct {
	lookups *Lookups
	// "today" for the nearest-future hearing fallback, pinned once per
	// run so concurrent workers agree on it
	today time.Time
}

func NewEnricher(lookups *Lookups, today time.Time) Enricher {
	return Enricher{lookups: lookups, today: today}
}

// Enrichment is what the enricher could resolve for one event. Either
// field may be nil; absence of hearing or committee data is normal.
type Enrichment struct {
	Committee *string
	// chamber implied by the committee's name prefix, "" when unknown
	CommitteeChamber string
	HearingTime      *string
}

// Enrich resolves the event's committee display name and hearing time.
// The committee id comes from whichever vote record matched the event,
// falling back to the status code's own standing committee reference.
// An id missing from the lookup table drops just the committee
// attachment, logged, never the event.
func (e Enricher) Enrich(ctx context.Context, bill BillKey, event RawBillStatus, match MatchResult, hearings []RawHearing) Enrichment {
	committeeId := match.CommitteeId
	if committeeId == nil && event.BillStatusCode != nil {
		committeeId = event.BillStatusCode.StandingCommitteeId
	}
	if committeeId == nil {
		return Enrichment{}
	}

	var enrichment Enrichment
	committee, ok := e.lookups.Committee(*committeeId)
	if !ok {
		slog.WarnContext(
			ctx, "skipping unknown committee reference",
			"bill", bill.String(),
			"committee_id", *committeeId,
		)
	} else {
		name := CommitteeDisplayName(committee.Name)
		enrichment.Committee = &name
		enrichment.CommitteeChamber = CommitteeChamber(committee.Name)
	}

	enrichment.HearingTime = e.hearingTime(hearings, *committeeId, event)
	return enrichment
}

// descriptions eligible for the nearest-future fallback when no hearing
// shares the event's date. Hearing data is fetched independently and is
// often not timestamp-aligned with the status event it belongs to.
func hearingFallbackEligible(description string) bool {
	return strings.Contains(description, "Hearing") ||
		strings.Contains(description, "Referred to Committee")
}

func (e Enricher) hearingTime(hearings []RawHearing, committeeId int64, event RawBillStatus) *string {
	eventDate, haveEventDate := parseSourceDate(event.TimeStamp)

	var nearestFuture time.Time
	for _, hearing := range hearings {
		meeting := hearing.StandingCommitteeMeeting
		if meeting == nil || meeting.StandingCommitteeId != committeeId {
			continue
		}
		meetingDate, ok := parseSourceDate(meeting.MeetingTime)
		if !ok {
			continue
		}

		if haveEventDate && meetingDate.Equal(eventDate) {
			formatted := meetingDate.Format(outputDateLayout)
			return &formatted
		}
		if meetingDate.Before(e.today) {
			continue
		}
		if nearestFuture.IsZero() || meetingDate.Before(nearestFuture) {
			nearestFuture = meetingDate
		}
	}

	if nearestFuture.IsZero() {
		return nil
	}
	_, description := SplitPossession(event.Name())
	if !hearingFallbackEligible(description) {
		return nil
	}
	formatted := nearestFuture.Format(outputDateLayout)
	return &formatted
}
