// Package stats computes post-session aggregate statistics (pass rates
// by sponsor, party, and committee) from the fetched raw bills and the
// assembled action files.
package stats

import (
	"math"
	"sort"
	"strings"

	"mtleg-backend/services/reconcile"
)

type SponsorStat struct {
	SponsorId      int64   `json:"sponsorId"`
	Sponsor        string  `json:"sponsor"`
	Party          string  `json:"party"`
	Chamber        string  `json:"chamber"`
	District       string  `json:"district"`
	BillsSponsored int     `json:"billsSponsored"`
	BillsPassed    int     `json:"billsPassed"`
	BillsFailed    int     `json:"billsFailed"`
	PassPercentage float64 `json:"passPercentage"`
}

type PartyStat struct {
	Category       string  `json:"category"`
	BillsSponsored int     `json:"billsSponsored"`
	BillsPassed    int     `json:"billsPassed"`
	BillsFailed    int     `json:"billsFailed"`
	PassPercentage float64 `json:"passPercentage"`
}

type GroupStat struct {
	Group string `json:"group"`
	// mean of the group's individual sponsor pass rates
	AveragePassPercentage float64 `json:"averagePassPercentage"`
	MemberCount           int     `json:"memberCount"`
	BillsSponsored        int     `json:"billsSponsored"`
	BillsPassed           int     `json:"billsPassed"`
	// pass rate over the group's bills, not the mean of member rates
	OverallPassRate float64 `json:"overallPassRate"`
}

type SponsorReport struct {
	Sponsors []SponsorStat `json:"sponsors"`
	Parties  []PartyStat   `json:"parties"`
	Groups   []GroupStat   `json:"groups"`
}

// BillPassed decides whether a bill ultimately passed from its raw
// status history. A bill passes when it became law outright, or was
// transmitted to the governor and never vetoed.
func BillPassed(bill reconcile.RawBill) bool {
	transmitted := false
	vetoed := false
	for _, status := range bill.Draft.BillStatuses {
		name := status.Name()
		progress := status.BillStatusCode.ProgressDescription()

		if strings.Contains(progress, "Became Law") ||
			strings.Contains(name, "Signed by Governor") ||
			strings.Contains(name, "Chapter Number Assigned") {
			return true
		}
		if strings.Contains(name, "Transmitted to Governor") {
			transmitted = true
		}
		if strings.Contains(name, "Vetoed by Governor") {
			vetoed = true
		}
	}
	return transmitted && !vetoed
}

var partyCategories = []string{
	"House Democrats",
	"House Republicans",
	"Senate Democrats",
	"Senate Republicans",
	"Democrats",
	"Republicans",
}

var groupNames = []string{
	"all",
	"republicans",
	"democrats",
	"house",
	"senate",
	"houseRepublicans",
	"houseDemocrats",
	"senateRepublicans",
	"senateDemocrats",
}

type groupAccum struct {
	rates     []float64
	members   map[int64]struct{}
	sponsored int
	passed    int
}

// ComputeSponsorStats tallies pass rates per sponsor plus the party and
// chamber rollups. Bills without a resolvable legislator sponsor
// (agency and committee requests) are excluded, as in the upstream
// reporting.
func ComputeSponsorStats(bills []reconcile.RawBill, legislators []reconcile.Legislator) SponsorReport {
	legislatorById := make(map[int64]reconcile.Legislator, len(legislators))
	for _, l := range legislators {
		legislatorById[l.Id] = l
	}

	sponsors := map[int64]*SponsorStat{}
	parties := map[string]*PartyStat{}
	for _, category := range partyCategories {
		parties[category] = &PartyStat{Category: category}
	}
	groups := map[string]*groupAccum{}
	for _, name := range groupNames {
		groups[name] = &groupAccum{members: map[int64]struct{}{}}
	}

	for _, bill := range bills {
		if bill.SponsorId == nil {
			continue
		}
		sponsor, ok := legislatorById[*bill.SponsorId]
		if !ok {
			continue
		}

		stat, ok := sponsors[sponsor.Id]
		if !ok {
			stat = &SponsorStat{
				SponsorId: sponsor.Id,
				Sponsor:   sponsor.FullName(),
				Party:     sponsor.PoliticalParty.Code,
				Chamber:   sponsorChamber(sponsor),
				District:  sponsor.DistrictName(),
			}
			sponsors[sponsor.Id] = stat
		}

		passed := BillPassed(bill)
		stat.BillsSponsored++
		if passed {
			stat.BillsPassed++
		} else {
			stat.BillsFailed++
		}

		for _, category := range billPartyCategories(stat.Party, stat.Chamber) {
			p := parties[category]
			p.BillsSponsored++
			if passed {
				p.BillsPassed++
			} else {
				p.BillsFailed++
			}
		}
		for _, name := range billGroups(stat.Party, stat.Chamber) {
			g := groups[name]
			g.sponsored++
			g.members[sponsor.Id] = struct{}{}
			if passed {
				g.passed++
			}
		}
	}

	report := SponsorReport{}
	for _, stat := range sponsors {
		stat.PassPercentage = percentage(stat.BillsPassed, stat.BillsSponsored)
		for _, name := range billGroups(stat.Party, stat.Chamber) {
			groups[name].rates = append(groups[name].rates, stat.PassPercentage)
		}
		report.Sponsors = append(report.Sponsors, *stat)
	}
	sort.Slice(report.Sponsors, func(i, j int) bool {
		a, b := report.Sponsors[i], report.Sponsors[j]
		if a.BillsSponsored != b.BillsSponsored {
			return a.BillsSponsored > b.BillsSponsored
		}
		return a.Sponsor < b.Sponsor
	})

	for _, category := range partyCategories {
		p := parties[category]
		p.PassPercentage = percentage(p.BillsPassed, p.BillsSponsored)
		report.Parties = append(report.Parties, *p)
	}

	for _, name := range groupNames {
		g := groups[name]
		report.Groups = append(report.Groups, GroupStat{
			Group:                 name,
			AveragePassPercentage: mean(g.rates),
			MemberCount:           len(g.members),
			BillsSponsored:        g.sponsored,
			BillsPassed:           g.passed,
			OverallPassRate:       percentage(g.passed, g.sponsored),
		})
	}

	return report
}

func sponsorChamber(l reconcile.Legislator) string {
	if l.Chamber != "" {
		return strings.ToUpper(l.Chamber)
	}
	return strings.ToUpper(l.District.Chamber)
}

func billPartyCategories(party, chamber string) []string {
	switch party {
	case "D":
		switch chamber {
		case "HOUSE":
			return []string{"Democrats", "House Democrats"}
		case "SENATE":
			return []string{"Democrats", "Senate Democrats"}
		}
		return []string{"Democrats"}
	case "R":
		switch chamber {
		case "HOUSE":
			return []string{"Republicans", "House Republicans"}
		case "SENATE":
			return []string{"Republicans", "Senate Republicans"}
		}
		return []string{"Republicans"}
	}
	return nil
}

func billGroups(party, chamber string) []string {
	groups := []string{"all"}
	switch party {
	case "R":
		groups = append(groups, "republicans")
		switch chamber {
		case "HOUSE":
			groups = append(groups, "houseRepublicans")
		case "SENATE":
			groups = append(groups, "senateRepublicans")
		}
	case "D":
		groups = append(groups, "democrats")
		switch chamber {
		case "HOUSE":
			groups = append(groups, "houseDemocrats")
		case "SENATE":
			groups = append(groups, "senateDemocrats")
		}
	}
	switch chamber {
	case "HOUSE":
		groups = append(groups, "house")
	case "SENATE":
		groups = append(groups, "senate")
	}
	return groups
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return round2(sum / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
