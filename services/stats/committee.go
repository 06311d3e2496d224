package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mtleg-backend/services/reconcile"

	"github.com/antzucaro/matchr"
)

type CommitteeStat struct {
	Committee      string   `json:"committee"`
	BillTotal      int      `json:"billTotal"`
	PassedTotal    int      `json:"passedTotal"`
	FailedTotal    int      `json:"failedTotal"`
	PassPercentage float64  `json:"passPercentage"`
	Bills          []string `json:"billList"`
	PassedBills    []string `json:"passedBills"`
	FailedBills    []string `json:"failedBills"`
}

// Canonicalizer folds near-identical committee names onto one spelling.
// Committee strings in assembled actions drift across sessions
// (punctuation, chamber prefixes already normalized but typos remain),
// so grouping uses an exact match first and a Jaro-Winkler fallback.
type Canonicalizer struct {
	names []string
}

// similarity at or above this folds a name onto an existing one
const canonicalSimilarity = 0.95

func NewCanonicalizer(known []string) *Canonicalizer {
	return &Canonicalizer{names: append([]string{}, known...)}
}

func (c *Canonicalizer) Canonical(name string) string {
	for _, known := range c.names {
		if known == name {
			return known
		}
	}

	best := ""
	bestSimilarity := 0.0
	for _, known := range c.names {
		similarity := matchr.JaroWinkler(name, known, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = known
		}
	}
	if bestSimilarity >= canonicalSimilarity {
		return best
	}

	c.names = append(c.names, name)
	return name
}

// actionsPassed mirrors BillPassed but reads the assembled action
// descriptions, since the committee report runs from the output files
// rather than the raw bills.
func actionsPassed(actions []reconcile.Action) bool {
	transmitted := false
	vetoed := false
	for _, action := range actions {
		text := action.Description
		if strings.Contains(text, "Became Law") ||
			strings.Contains(text, "Signed by Governor") ||
			strings.Contains(text, "Chapter Number Assigned") {
			return true
		}
		if strings.Contains(text, "Transmitted to Governor") {
			transmitted = true
		}
		if strings.Contains(text, "Vetoed by Governor") {
			vetoed = true
		}
	}
	return transmitted && !vetoed
}

// firstCommittee finds the committee a bill was first referred to, or
// "" when it never reached one.
func firstCommittee(actions []reconcile.Action) string {
	for _, action := range actions {
		if action.Key == "Referred to Committee" && action.Committee != nil {
			return *action.Committee
		}
	}
	return ""
}

// ComputeCommitteeStats groups bills by first-referral committee and
// tallies pass rates. `actionsByBill` maps bill names ("HB 23") to
// their assembled action lists.
func ComputeCommitteeStats(actionsByBill map[string][]reconcile.Action, canon *Canonicalizer) []CommitteeStat {
	billNames := make([]string, 0, len(actionsByBill))
	for name := range actionsByBill {
		billNames = append(billNames, name)
	}
	sort.Strings(billNames)

	byCommittee := map[string]*CommitteeStat{}
	for _, bill := range billNames {
		actions := actionsByBill[bill]
		committee := firstCommittee(actions)
		if committee == "" {
			continue
		}
		committee = canon.Canonical(committee)

		stat, ok := byCommittee[committee]
		if !ok {
			stat = &CommitteeStat{Committee: committee}
			byCommittee[committee] = stat
		}
		stat.BillTotal++
		stat.Bills = append(stat.Bills, bill)
		if actionsPassed(actions) {
			stat.PassedTotal++
			stat.PassedBills = append(stat.PassedBills, bill)
		} else {
			stat.FailedTotal++
			stat.FailedBills = append(stat.FailedBills, bill)
		}
	}

	stats := make([]CommitteeStat, 0, len(byCommittee))
	for _, stat := range byCommittee {
		stat.PassPercentage = percentage(stat.PassedTotal, stat.BillTotal)
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].BillTotal != stats[j].BillTotal {
			return stats[i].BillTotal > stats[j].BillTotal
		}
		return stats[i].Committee < stats[j].Committee
	})
	return stats
}

// LoadActionsDir reads every {TYPE}-{NUM}-actions.json file in an
// assembled output directory, keyed by bill name.
func LoadActionsDir(dir string) (map[string][]reconcile.Action, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*-actions.json"))
	if err != nil {
		return nil, err
	}

	out := make(map[string][]reconcile.Action, len(paths))
	for _, path := range paths {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var actions []reconcile.Action
		err = json.Unmarshal(contents, &actions)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		base := strings.TrimSuffix(filepath.Base(path), "-actions.json")
		bill := strings.Replace(base, "-", " ", 1)
		out[bill] = actions
	}
	return out, nil
}
