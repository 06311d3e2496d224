// Package fetcher downloads a session's raw inputs from api.legmt.gov
// and lays them out on disk in the per-bill file layout the
// reconciliation pipeline reads.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"mtleg-backend/lib/legmt"
	"mtleg-backend/services/reconcile"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/fetcher")

type Fetcher struct {
	Client  legmt.Client
	DataDir string
	// concurrent per-bill downloads, defaults to 3
	Workers int
}

// searchPayload is the envelope of the bills search endpoint. Each bill
// stays a RawMessage so the per-bill files are written byte-for-byte as
// the API sent them.
type searchPayload struct {
	Content []json.RawMessage `json:"content"`
}

// billIdentity is the handful of fields needed to name a bill's files.
type billIdentity struct {
	Id         int64 `json:"id"`
	BillNumber int   `json:"billNumber"`
	BillType   *struct {
		Code string `json:"code"`
	} `json:"billType"`
	Draft struct {
		DraftNumber string `json:"draftNumber"`
	} `json:"draft"`
}

// FetchSession downloads everything a session run needs: the bill
// roster, the legislator and committee lookup tables, and the per-bill
// votes, executive actions, and hearings.
func (f Fetcher) FetchSession(ctx context.Context, sessionId int) error {
	ctx, span := tracer.Start(ctx, "FetchSession")
	defer span.End()
	span.SetAttributes(attribute.Int("session", sessionId))

	session := fmt.Sprint(sessionId)

	bills, err := f.fetchBills(ctx, sessionId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	err = f.fetchLookups(ctx, sessionId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	f.fetchPerBill(ctx, session, bills)
	return nil
}

// fetchBills downloads the session's bill search payload, splits it
// into per-bill raw files, and derives list-bills-{session}.json.
func (f Fetcher) fetchBills(ctx context.Context, sessionId int) ([]reconcile.BillListEntry, error) {
	ctx, span := tracer.Start(ctx, "fetchBills")
	defer span.End()

	session := fmt.Sprint(sessionId)
	billsDir := filepath.Join(f.DataDir, fmt.Sprintf("raw-%s-bills", session))
	err := os.MkdirAll(billsDir, 0777)
	if err != nil {
		return nil, err
	}

	payload, err := f.Client.SearchBills(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("search bills: %w", err)
	}
	err = os.WriteFile(
		filepath.Join(f.DataDir, fmt.Sprintf("raw-%s-bills.json", session)),
		payload, 0666,
	)
	if err != nil {
		return nil, err
	}

	var search searchPayload
	err = json.Unmarshal(payload, &search)
	if err != nil {
		return nil, fmt.Errorf("parse bill search payload: %w", err)
	}

	var list []reconcile.BillListEntry
	for _, raw := range search.Content {
		var identity billIdentity
		err = json.Unmarshal(raw, &identity)
		if err != nil {
			slog.WarnContext(ctx, "could not parse bill in search payload", "err", err)
			continue
		}
		if identity.BillType == nil || identity.BillNumber == 0 {
			slog.WarnContext(
				ctx, "bill has no assigned number yet, skipping",
				"lc", identity.Draft.DraftNumber,
			)
			continue
		}

		entry := reconcile.BillListEntry{
			Lc:         identity.Draft.DraftNumber,
			Id:         identity.Id,
			BillType:   identity.BillType.Code,
			BillNumber: identity.BillNumber,
		}
		path := filepath.Join(billsDir, entry.Key().Slug()+"-raw-bill.json")
		err = os.WriteFile(path, append(append([]byte{}, raw...), '\n'), 0666)
		if err != nil {
			return nil, err
		}
		list = append(list, entry)
	}

	err = writeJson(
		filepath.Join(f.DataDir, fmt.Sprintf("list-bills-%s.json", session)),
		list,
	)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "fetched session bills", "session", session, "bills", len(list))
	return list, nil
}

// fetchLookups downloads the legislator roster and the session's
// standing committees.
func (f Fetcher) fetchLookups(ctx context.Context, sessionId int) error {
	ctx, span := tracer.Start(ctx, "fetchLookups")
	defer span.End()

	legislators, err := f.Client.Legislators(ctx)
	if err != nil {
		return fmt.Errorf("fetch legislators: %w", err)
	}
	err = os.WriteFile(filepath.Join(f.DataDir, "legislators.json"), legislators, 0666)
	if err != nil {
		return err
	}

	committees, err := f.Client.StandingCommittees(ctx, sessionId)
	if err != nil {
		return fmt.Errorf("fetch standing committees: %w", err)
	}
	return os.WriteFile(
		filepath.Join(f.DataDir, fmt.Sprintf("committees-%d.json", sessionId)),
		committees, 0666,
	)
}

// fetchPerBill downloads votes, executive actions, and hearings for
// each bill over a small worker pool. Individual failures are logged
// and skipped so one flaky endpoint cannot sink a multi-hour fetch.
func (f Fetcher) fetchPerBill(ctx context.Context, session string, bills []reconcile.BillListEntry) {
	ctx, span := tracer.Start(ctx, "fetchPerBill")
	defer span.End()

	sources := reconcile.SessionSources(f.DataDir, session)
	for _, dir := range []string{sources.VotesDir, sources.ExecutiveActionsDir, sources.HearingsDir} {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
	}

	workers := f.Workers
	if workers <= 0 {
		workers = 3
	}

	var failed atomic.Int64
	queue := make(chan reconcile.BillListEntry)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bill := range queue {
				err := f.fetchBillRecords(ctx, sources, bill)
				if err != nil {
					failed.Add(1)
					slog.WarnContext(
						ctx, "failed to fetch bill records",
						"bill", bill.Key().String(),
						"err", err,
					)
				}
			}
		}()
	}
	for _, bill := range bills {
		queue <- bill
	}
	close(queue)
	wg.Wait()

	slog.InfoContext(
		ctx, "fetched per-bill records",
		"bills", len(bills),
		"failed", failed.Load(),
	)
}

func (f Fetcher) fetchBillRecords(ctx context.Context, sources reconcile.Sources, bill reconcile.BillListEntry) error {
	slug := bill.Key().Slug()

	votes, err := f.Client.VotesByBill(ctx, bill.Id)
	if err != nil {
		return fmt.Errorf("votes: %w", err)
	}
	err = os.WriteFile(filepath.Join(sources.VotesDir, slug+"-raw-votes.json"), votes, 0666)
	if err != nil {
		return err
	}

	actions, err := f.Client.ExecutiveActionsByBill(ctx, bill.Id)
	if err != nil {
		return fmt.Errorf("executive actions: %w", err)
	}
	err = os.WriteFile(
		filepath.Join(sources.ExecutiveActionsDir, slug+"-executive-actions.json"),
		actions, 0666,
	)
	if err != nil {
		return err
	}

	hearings, err := f.Client.HearingsByBill(ctx, bill.Id)
	if err != nil {
		return fmt.Errorf("hearings: %w", err)
	}
	return os.WriteFile(
		filepath.Join(sources.HearingsDir, slug+"-committee-hearings.json"),
		hearings, 0666,
	)
}

func writeJson(path string, value any) error {
	contents, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(contents, '\n'), 0666)
}
