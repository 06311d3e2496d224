package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"mtleg-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/reconcile")

// Assembler orchestrates the per-bill pipeline: extract the status
// timeline, match votes, enrich, assign ids, and write the bill's
// output file. Bills are independent of one another, so a small worker
// pool processes them concurrently; the only shared state is the
// read-only lookup tables.
type Assembler struct {
	Sources   Sources
	Lookups   *Lookups
	OutputDir string
	// number of concurrent bill workers, defaults to 4
	Workers int
	// "today" for the hearing fallback; zero means timezone.Now()
	Today time.Time
}

// RunReport summarizes a completed run. Skips are recoverable per-bill
// conditions (usually a missing source file), never run failures.
type RunReport struct {
	Processed int
	Skipped   int
}

// Run assembles every bill in the list. Per-bill failures are logged
// and counted but never abort the run; outputs are idempotent given
// identical inputs, so an interrupted run is simply re-run.
func (a Assembler) Run(ctx context.Context, bills []BillListEntry) (RunReport, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.Int("bill_count", len(bills)))

	err := os.MkdirAll(a.OutputDir, 0777)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RunReport{}, fmt.Errorf("create output directory: %w", err)
	}

	workers := a.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(bills) && len(bills) > 0 {
		workers = len(bills)
	}

	var processed, skipped atomic.Int64
	jobs := make(chan BillListEntry)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				key := entry.Key()
				actions, err := a.AssembleBill(ctx, key)
				if err != nil {
					slog.WarnContext(
						ctx, "skipping bill",
						"bill", key.String(),
						"err", err,
					)
					skipped.Add(1)
					continue
				}
				err = a.writeActions(key, actions)
				if err != nil {
					slog.WarnContext(
						ctx, "failed to write actions",
						"bill", key.String(),
						"err", err,
					)
					skipped.Add(1)
					continue
				}
				processed.Add(1)
			}
		}()
	}

	for _, entry := range bills {
		jobs <- entry
	}
	close(jobs)
	wg.Wait()

	report := RunReport{
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
	}
	slog.InfoContext(
		ctx, "run complete",
		"processed", report.Processed,
		"skipped", report.Skipped,
	)
	return report, nil
}

// AssembleBill computes the full enriched action list for one bill. A
// missing raw-bill or votes file returns an error wrapping
// ErrMissingSource, which the caller treats as a skip.
func (a Assembler) AssembleBill(ctx context.Context, key BillKey) ([]Action, error) {
	ctx, span := tracer.Start(ctx, "AssembleBill")
	defer span.End()
	span.SetAttributes(attribute.String("bill", key.String()))

	bill, err := a.Sources.RawBill(key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	votes, err := a.Sources.Votes(key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	execActions, err := a.Sources.ExecutiveActions(key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	hearings, err := a.Sources.Hearings(key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	today := a.Today
	if today.IsZero() {
		today = timezone.StartOfDay(timezone.Now())
	}
	matcher := NewMatcher(a.Lookups)
	enricher := NewEnricher(a.Lookups, today)

	timeline := ExtractTimeline(bill)
	actions := make([]Action, 0, len(timeline))
	for _, event := range timeline {
		match := matcher.Match(ctx, key, event, votes, execActions)
		enrichment := enricher.Enrich(ctx, key, event, match, hearings)

		possession, description := SplitPossession(event.Name())
		action := Action{
			Bill:                 key.String(),
			Date:                 FormatDate(event.TimeStamp),
			Description:          description,
			Possession:           string(possession),
			Committee:            enrichment.Committee,
			CommitteeHearingTime: enrichment.HearingTime,
			Key:                  description,
			Vote:                 match.Vote,
		}
		if action.Vote != nil {
			action.Vote.Bill = action.Bill
			action.Vote.Date = action.Date
			if enrichment.Committee != nil {
				action.Vote.Type = VoteTypeCommittee
				if action.Vote.VoteChamber == "" {
					action.Vote.VoteChamber = enrichment.CommitteeChamber
				}
			}
		}
		actions = append(actions, action)
	}

	actions = dedupActions(actions)

	// ids are assigned after dedup so the suffixes stay contiguous
	for i := range actions {
		actions[i].Id = fmt.Sprintf("%s%d-%04d", key.Type, key.Number, i+1)
		if actions[i].Vote != nil {
			actions[i].Vote.Action = actions[i].Id
		}
	}

	return actions, nil
}

// dedupActions drops repeats of the same logical action, keyed by
// (bill, date, description). The same event can surface twice when a
// roll call vote and an executive action independently reference it.
func dedupActions(actions []Action) []Action {
	seen := make(map[string]struct{}, len(actions))
	out := actions[:0]
	for _, action := range actions {
		key := action.Bill + "|" + action.Date + "|" + action.Description
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, action)
	}
	return out
}

// writeActions overwrites the bill's output file with the assembled
// list. Struct field order gives stable key ordering, keeping output
// diffable across runs.
func (a Assembler) writeActions(key BillKey, actions []Action) error {
	contents, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return err
	}
	contents = append(contents, '\n')
	path := filepath.Join(a.OutputDir, key.Slug()+"-actions.json")
	return os.WriteFile(path, contents, 0666)
}
