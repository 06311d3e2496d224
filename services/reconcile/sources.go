package reconcile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingSource marks a per-bill input file that is absent on disk.
// It is a recoverable condition: the assembler skips the bill and moves
// on rather than failing the run.
var ErrMissingSource = errors.New("missing source file")

// Sources locates the per-bill input files a session's fetchers left on
// disk, one JSON file per bill per source.
type Sources struct {
	BillsDir            string
	VotesDir            string
	ExecutiveActionsDir string
	HearingsDir         string
}

// SessionSources derives the conventional directory layout for a
// session under a base data directory.
func SessionSources(dataDir, session string) Sources {
	return Sources{
		BillsDir:            filepath.Join(dataDir, fmt.Sprintf("raw-%s-bills", session)),
		VotesDir:            filepath.Join(dataDir, fmt.Sprintf("raw-%s-votes", session)),
		ExecutiveActionsDir: filepath.Join(dataDir, fmt.Sprintf("raw-%s-executive-actions", session)),
		HearingsDir:         filepath.Join(dataDir, fmt.Sprintf("committee-%s-hearings", session)),
	}
}

// RawBill loads a bill's raw record. Absence is ErrMissingSource.
func (s Sources) RawBill(key BillKey) (RawBill, error) {
	var bill RawBill
	path := filepath.Join(s.BillsDir, key.Slug()+"-raw-bill.json")
	err := readSourceFile(path, &bill)
	return bill, err
}

// Votes loads a bill's roll call votes. Absence is ErrMissingSource:
// per policy a bill without a vote file is skipped entirely.
func (s Sources) Votes(key BillKey) ([]RawVote, error) {
	var votes []RawVote
	path := filepath.Join(s.VotesDir, key.Slug()+"-raw-votes.json")
	err := readSourceFile(path, &votes)
	return votes, err
}

// ExecutiveActions loads a bill's committee vote records. Unlike votes,
// an absent file just means no executive actions were recorded.
func (s Sources) ExecutiveActions(key BillKey) ([]RawExecutiveAction, error) {
	var actions []RawExecutiveAction
	path := filepath.Join(s.ExecutiveActionsDir, key.Slug()+"-executive-actions.json")
	err := readSourceFile(path, &actions)
	if errors.Is(err, ErrMissingSource) {
		return nil, nil
	}
	return actions, err
}

// Hearings loads a bill's scheduled committee meetings. An absent file
// means no hearings; the enrichment it feeds is optional.
func (s Sources) Hearings(key BillKey) ([]RawHearing, error) {
	var hearings []RawHearing
	path := filepath.Join(s.HearingsDir, key.Slug()+"-committee-hearings.json")
	err := readSourceFile(path, &hearings)
	if errors.Is(err, ErrMissingSource) {
		return nil, nil
	}
	return hearings, err
}

func readSourceFile(path string, out any) error {
	err := readJsonFile(path, out)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrMissingSource, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// LoadBillList reads list-bills-{session}.json, the roster of bills a
// run iterates. Failure here is fatal to the whole run.
func LoadBillList(path string) ([]BillListEntry, error) {
	var bills []BillListEntry
	err := readJsonFile(path, &bills)
	if err != nil {
		return nil, fmt.Errorf("load bill list: %w", err)
	}
	return bills, nil
}
