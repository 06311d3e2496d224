package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Lookups holds the read-only reference tables shared by every bill in
// a run. They are loaded once and never mutated, so concurrent bill
// workers may share a single instance.
type Lookups struct {
	legislators map[int64]Legislator
	committees  map[int64]Committee
}

func NewLookups(legislators []Legislator, committees []Committee) *Lookups {
	l := &Lookups{
		legislators: make(map[int64]Legislator, len(legislators)),
		committees:  make(map[int64]Committee, len(committees)),
	}
	for _, leg := range legislators {
		l.legislators[leg.Id] = leg
	}
	for _, c := range committees {
		l.committees[c.Id] = c
	}
	return l
}

// LoadLookups reads legislators.json and committees-{session}.json. A
// missing or corrupt legislator file is fatal to the run; the caller
// decides what to do about a missing committee file by passing an empty
// path, which yields an empty committee table.
func LoadLookups(legislatorPath, committeePath string) (*Lookups, error) {
	var legislators []Legislator
	err := readJsonFile(legislatorPath, &legislators)
	if err != nil {
		return nil, fmt.Errorf("load legislator lookup: %w", err)
	}

	var committees []Committee
	if committeePath != "" {
		err = readJsonFile(committeePath, &committees)
		if err != nil {
			return nil, fmt.Errorf("load committee lookup: %w", err)
		}
	}

	return NewLookups(legislators, committees), nil
}

func (l *Lookups) Legislator(id int64) (Legislator, bool) {
	leg, ok := l.legislators[id]
	return leg, ok
}

func (l *Lookups) Committee(id int64) (Committee, bool) {
	c, ok := l.committees[id]
	return c, ok
}

// CommitteeNames returns every display name in the table, for fuzzy
// canonicalization by downstream reporting.
func (l *Lookups) CommitteeNames() []string {
	names := make([]string, 0, len(l.committees))
	for _, c := range l.committees {
		names = append(names, CommitteeDisplayName(c.Name))
	}
	return names
}

// CommitteeDisplayName normalizes the chamber prefix the source embeds
// in committee names: "(H) Judiciary" becomes "House Judiciary" and
// "(S) Finance" becomes "Senate Finance". Names without a prefix pass
// through untouched.
func CommitteeDisplayName(raw string) string {
	switch {
	case strings.HasPrefix(raw, "(H)"):
		return "House " + strings.TrimSpace(strings.TrimPrefix(raw, "(H)"))
	case strings.HasPrefix(raw, "(S)"):
		return "Senate " + strings.TrimSpace(strings.TrimPrefix(raw, "(S)"))
	}
	return raw
}

// CommitteeChamber derives the chamber from the raw name prefix, or ""
// when the name carries no prefix.
func CommitteeChamber(raw string) string {
	switch {
	case strings.HasPrefix(raw, "(H)"):
		return string(PossessionHouse)
	case strings.HasPrefix(raw, "(S)"):
		return string(PossessionSenate)
	}
	return ""
}

func readJsonFile(path string, out any) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(contents, out)
}
