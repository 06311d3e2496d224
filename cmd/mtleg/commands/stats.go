package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mtleg-backend/lib/serviceutil"
	"mtleg-backend/services/reconcile"
	"mtleg-backend/services/stats"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <session_id>",
	Short: "Computes sponsor, party, and committee pass-rate reports for a fetched session.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		sessionId, err := sessionArg(args)
		if err != nil {
			serviceutil.Fatal("bad session id", err)
		}
		session := fmt.Sprint(sessionId)

		shutdown, err := setupTelemetry(ctx, "stats")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer shutdown()

		entries, err := reconcile.LoadBillList(
			filepath.Join(config.DataDir, fmt.Sprintf("list-bills-%s.json", session)),
		)
		if err != nil {
			serviceutil.Fatal("failed to load bill list", err)
		}

		lookups, err := reconcile.LoadLookups(
			filepath.Join(config.DataDir, "legislators.json"),
			filepath.Join(config.DataDir, fmt.Sprintf("committees-%s.json", session)),
		)
		if err != nil {
			serviceutil.Fatal("failed to load lookup tables", err)
		}

		var legislators []reconcile.Legislator
		err = readJsonFile(filepath.Join(config.DataDir, "legislators.json"), &legislators)
		if err != nil {
			serviceutil.Fatal("failed to load legislators", err)
		}

		sources := reconcile.SessionSources(config.DataDir, session)
		var bills []reconcile.RawBill
		for _, entry := range entries {
			bill, err := sources.RawBill(entry.Key())
			if errors.Is(err, reconcile.ErrMissingSource) {
				slog.WarnContext(ctx, "bill missing from raw files", "bill", entry.Key().String())
				continue
			}
			if err != nil {
				serviceutil.Fatal("failed to load raw bill", err)
			}
			bills = append(bills, bill)
		}

		statsDir := filepath.Join(config.DataDir, fmt.Sprintf("stats-%s", session))

		report := stats.ComputeSponsorStats(bills, legislators)
		err = stats.WriteSponsorReport(statsDir, report)
		if err != nil {
			serviceutil.Fatal("failed to write sponsor report", err)
		}

		actionsByBill, err := stats.LoadActionsDir(
			filepath.Join(config.DataDir, fmt.Sprintf("actions-%s", session)),
		)
		if err != nil {
			serviceutil.Fatal("failed to load assembled actions", err)
		}
		canon := stats.NewCanonicalizer(lookups.CommitteeNames())
		committeeStats := stats.ComputeCommitteeStats(actionsByBill, canon)
		err = stats.WriteCommitteeStats(statsDir, committeeStats)
		if err != nil {
			serviceutil.Fatal("failed to write committee stats", err)
		}

		t := stats.SponsorTable(report.Sponsors)
		t.SetOutputMirror(os.Stdout)
		t.Render()
		t = stats.CommitteeTable(committeeStats)
		t.SetOutputMirror(os.Stdout)
		t.Render()
	},
}

func readJsonFile(path string, out any) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(contents, out)
}
