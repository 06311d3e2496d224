// Package archive records the assembled action lists of each
// reconciliation run in sqlite, so consecutive runs over a live session
// can be compared after the fact.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"mtleg-backend/services/reconcile"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/archive")

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// BeginRun opens a new run row for the session and returns its id.
func (s Store) BeginRun(ctx context.Context, session string) (int64, error) {
	ctx, span := tracer.Start(ctx, "BeginRun")
	defer span.End()
	span.SetAttributes(attribute.String("session", session))

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run (session, startedat) VALUES (?, ?)`,
		session, time.Now().Unix(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return res.LastInsertId()
}

// RecordBill stores one bill's assembled actions under the run.
func (s Store) RecordBill(ctx context.Context, runId int64, bill string, actions []reconcile.Action) error {
	ctx, span := tracer.Start(ctx, "RecordBill")
	defer span.End()
	span.SetAttributes(attribute.String("bill", bill))

	payload, err := json.Marshal(actions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO bill_actions (runid, bill, actioncount, payload)
		 VALUES (?, ?, ?, ?)`,
		runId, bill, len(actions), string(payload),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// FinishRun stamps the run as complete.
func (s Store) FinishRun(ctx context.Context, runId int64) error {
	ctx, span := tracer.Start(ctx, "FinishRun")
	defer span.End()

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE run SET finishedat = ? WHERE id = ?`,
		time.Now().Unix(), runId,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

var ErrNotArchived = errors.New("bill not present in any archived run")

// LatestActions returns the bill's actions from the most recent
// finished run of the session.
func (s Store) LatestActions(ctx context.Context, session, bill string) ([]reconcile.Action, error) {
	ctx, span := tracer.Start(ctx, "LatestActions")
	defer span.End()
	span.SetAttributes(
		attribute.String("session", session),
		attribute.String("bill", bill),
	)

	row := s.db.QueryRowContext(
		ctx,
		`SELECT ba.payload FROM bill_actions ba
		 JOIN run r ON r.id = ba.runid
		 WHERE r.session = ? AND ba.bill = ? AND r.finishedat IS NOT NULL
		 ORDER BY r.startedat DESC, r.id DESC LIMIT 1`,
		session, bill,
	)
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotArchived
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var actions []reconcile.Action
	err = json.Unmarshal([]byte(payload), &actions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return actions, nil
}

// ChangedBill reports whether a bill's action count differs between the
// latest archived run and the given actions.
func (s Store) ChangedBill(ctx context.Context, session, bill string, actions []reconcile.Action) (bool, error) {
	previous, err := s.LatestActions(ctx, session, bill)
	if errors.Is(err, ErrNotArchived) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	current, err := json.Marshal(actions)
	if err != nil {
		return false, err
	}
	previousPayload, err := json.Marshal(previous)
	if err != nil {
		return false, err
	}
	return string(current) != string(previousPayload), nil
}
