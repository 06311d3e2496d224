// Package reconcile joins a bill's status-change timeline with its
// separately-fetched roll call votes and committee executive actions,
// producing one enriched, chronologically ordered action list per bill.
package reconcile

import "fmt"

// BillKey identifies a bill within a session, e.g. ("HB", 23).
type BillKey struct {
	Type   string
	Number int
}

// String renders the human form, "HB 23".
func (k BillKey) String() string {
	return fmt.Sprintf("%s %d", k.Type, k.Number)
}

// Slug renders the filename form, "HB-23".
func (k BillKey) Slug() string {
	return fmt.Sprintf("%s-%d", k.Type, k.Number)
}

// BillListEntry is one row of list-bills-{session}.json.
type BillListEntry struct {
	Lc         string `json:"lc"`
	Id         int64  `json:"id"`
	BillType   string `json:"billType"`
	BillNumber int    `json:"billNumber"`
}

func (e BillListEntry) Key() BillKey {
	return BillKey{Type: e.BillType, Number: e.BillNumber}
}

// RawBill mirrors the shape of a {TYPE}-{NUM}-raw-bill.json file. Only
// the fields the pipeline reads are declared; the API returns far more.
type RawBill struct {
	Id             int64  `json:"id"`
	BillNumber     int    `json:"billNumber"`
	SponsorId      *int64 `json:"sponsorId"`
	DeadlineCodeId *int64 `json:"deadlineCodeId"`
	BillType       *struct {
		Code string `json:"code"`
	} `json:"billType"`
	Draft struct {
		DraftNumber  string          `json:"draftNumber"`
		ShortTitle   string          `json:"shortTitle"`
		BillStatuses []RawBillStatus `json:"billStatuses"`
	} `json:"draft"`
}

// RawBillStatus is one row of a bill's status history. Its id is the
// join key to votes and executive actions.
type RawBillStatus struct {
	Id             int64              `json:"id"`
	TimeStamp      string             `json:"timeStamp"`
	BillStatusCode *RawBillStatusCode `json:"billStatusCode"`
}

func (s RawBillStatus) Name() string {
	if s.BillStatusCode == nil {
		return ""
	}
	return s.BillStatusCode.Name
}

type RawBillStatusCode struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	Chamber             string `json:"chamber"`
	StandingCommitteeId *int64 `json:"standingCommitteeId"`
	ProgressCategory    *struct {
		Description string `json:"description"`
	} `json:"progressCategory"`
}

// ProgressDescription safely navigates the nullable progress category.
func (c *RawBillStatusCode) ProgressDescription() string {
	if c == nil || c.ProgressCategory == nil {
		return ""
	}
	return c.ProgressCategory.Description
}

// RawVote is one roll call vote record. Depending on the endpoint
// vintage the status join key arrives either as a flat billStatusId or
// as an embedded billStatus object.
type RawVote struct {
	Id           int64  `json:"id"`
	BillStatusId *int64 `json:"billStatusId"`
	BillStatus   *struct {
		Id                  int64  `json:"id"`
		StandingCommitteeId *int64 `json:"standingCommitteeId"`
	} `json:"billStatus"`
	SystemId *struct {
		Chamber  string `json:"chamber"`
		Sequence int    `json:"sequence"`
	} `json:"systemId"`
	Motion          string              `json:"motion"`
	LegislatorVotes []RawLegislatorVote `json:"legislatorVotes"`
}

// StatusId returns the status-change id this vote references,
// preferring the embedded billStatus object over the flat key.
func (v RawVote) StatusId() (int64, bool) {
	if v.BillStatus != nil {
		return v.BillStatus.Id, true
	}
	if v.BillStatusId != nil {
		return *v.BillStatusId, true
	}
	return 0, false
}

type RawLegislatorVote struct {
	LegislatorId int64  `json:"legislatorId"`
	VoteType     string `json:"voteType"`
}

// RawExecutiveAction is a committee-level vote. Same semantics as a
// floor vote but with a different legislator-vote shape and a nested
// standing committee.
type RawExecutiveAction struct {
	Id                int64  `json:"id"`
	BillStatusId      *int64 `json:"billStatusId"`
	Motion            string `json:"motion"`
	StandingCommittee *struct {
		Id int64 `json:"id"`
	} `json:"standingCommittee"`
	LegislatorVotes []RawCommitteeVote `json:"legislatorVotes"`
}

type RawCommitteeVote struct {
	Membership struct {
		LegislatorId int64 `json:"legislatorId"`
	} `json:"membership"`
	CommitteeVote string `json:"committeeVote"`
}

// RawHearing is one scheduled committee meeting for a bill.
type RawHearing struct {
	StandingCommitteeMeeting *struct {
		StandingCommitteeId int64  `json:"standingCommitteeId"`
		MeetingTime         string `json:"meetingTime"`
	} `json:"standingCommitteeMeeting"`
}

type Legislator struct {
	Id             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	City           string `json:"city"`
	Chamber        string `json:"chamber"`
	PoliticalParty struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"politicalParty"`
	District struct {
		Chamber string `json:"chamber"`
		Number  int    `json:"number"`
		Name    string `json:"name"`
	} `json:"district"`
}

// FullName renders "First Last", tolerating records missing either part.
func (l Legislator) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// DistrictName prefers the API's display name over a synthesized one.
func (l Legislator) DistrictName() string {
	if l.District.Name != "" {
		return l.District.Name
	}
	if l.District.Number == 0 {
		return ""
	}
	return fmt.Sprint(l.District.Number)
}

type Committee struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

// Action is the enriched, assembled output unit, one per status change.
type Action struct {
	Id                   string  `json:"id"`
	Bill                 string  `json:"bill"`
	Date                 string  `json:"date"`
	Description          string  `json:"description"`
	Possession           string  `json:"possession"`
	Committee            *string `json:"committee"`
	CommitteeHearingTime *string `json:"committeeHearingTime"`
	Key                  string  `json:"key"`
	Vote                 *Vote   `json:"vote"`
}

type VoteCount struct {
	Y int `json:"Y"`
	N int `json:"N"`
}

type PartyCount struct {
	Y int `json:"Y"`
	N int `json:"N"`
	A int `json:"A"`
	E int `json:"E"`
	O int `json:"O"`
}

type Vote struct {
	Action            string           `json:"action"`
	Bill              string           `json:"bill"`
	Date              string           `json:"date"`
	Type              string           `json:"type"`
	SeqNumber         string           `json:"seqNumber"`
	VoteChamber       string           `json:"voteChamber"`
	Motion            string           `json:"motion"`
	ThresholdRequired string           `json:"thresholdRequired"`
	Count             VoteCount        `json:"count"`
	GopCount          PartyCount       `json:"gopCount"`
	DemCount          PartyCount       `json:"demCount"`
	MotionPassed      bool             `json:"motionPassed"`
	GopSupported      bool             `json:"gopSupported"`
	DemSupported      bool             `json:"demSupported"`
	Votes             []LegislatorVote `json:"votes"`
}

const (
	VoteTypeCommittee = "committee"
	VoteTypeFloor     = "floor"
)

type LegislatorVote struct {
	Option   string `json:"option"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Party    string `json:"party"`
	Locale   string `json:"locale"`
	District string `json:"district"`
}
