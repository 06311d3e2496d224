package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"mtleg-backend/lib/serviceutil"
	"mtleg-backend/services/reconcile"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match <session_id>",
	Short: "Joins each bill's status timeline with its votes and writes per-bill action files.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		sessionId, err := sessionArg(args)
		if err != nil {
			serviceutil.Fatal("bad session id", err)
		}
		session := fmt.Sprint(sessionId)

		shutdown, err := setupTelemetry(ctx, "match")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer shutdown()

		bills, err := reconcile.LoadBillList(
			filepath.Join(config.DataDir, fmt.Sprintf("list-bills-%s.json", session)),
		)
		if err != nil {
			serviceutil.Fatal("failed to load bill list", err)
		}

		committeePath := filepath.Join(config.DataDir, fmt.Sprintf("committees-%s.json", session))
		if _, statErr := os.Stat(committeePath); os.IsNotExist(statErr) {
			// committee enrichment degrades gracefully without the table
			committeePath = ""
		}
		lookups, err := reconcile.LoadLookups(
			filepath.Join(config.DataDir, "legislators.json"),
			committeePath,
		)
		if err != nil {
			serviceutil.Fatal("failed to load lookup tables", err)
		}

		assembler := reconcile.Assembler{
			Sources:   reconcile.SessionSources(config.DataDir, session),
			Lookups:   lookups,
			OutputDir: filepath.Join(config.DataDir, fmt.Sprintf("actions-%s", session)),
		}
		_, err = assembler.Run(ctx, bills)
		if err != nil {
			serviceutil.Fatal("run failed", err)
		}
	},
}
