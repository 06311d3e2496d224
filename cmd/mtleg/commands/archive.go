package commands

import (
	"fmt"
	"path/filepath"

	configlibsql "mtleg-backend/lib/configutil/libsql"
	"mtleg-backend/lib/serviceutil"
	"mtleg-backend/services/archive"
	archivedb "mtleg-backend/services/archive/db"
	"mtleg-backend/services/stats"

	"github.com/spf13/cobra"
)

var archiveDbPath string

func init() {
	archiveCmd.Flags().StringVar(
		&archiveDbPath, "db", "",
		"sqlite file for the run archive, overrides the configured database",
	)
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive <session_id>",
	Short: "Records the session's assembled action files as one archived run in sqlite.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		sessionId, err := sessionArg(args)
		if err != nil {
			serviceutil.Fatal("bad session id", err)
		}
		session := fmt.Sprint(sessionId)

		shutdown, err := setupTelemetry(ctx, "archive")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer shutdown()

		dbConfig := config.Database
		if archiveDbPath != "" {
			dbConfig = configlibsql.Struct{File: archiveDbPath}
		}
		db, err := dbConfig.OpenDB(archivedb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open archive database", err)
		}
		defer db.Close()

		actionsByBill, err := stats.LoadActionsDir(
			filepath.Join(config.DataDir, fmt.Sprintf("actions-%s", session)),
		)
		if err != nil {
			serviceutil.Fatal("failed to load assembled actions", err)
		}

		store := archive.NewStore(db)
		runId, err := store.BeginRun(ctx, session)
		if err != nil {
			serviceutil.Fatal("failed to begin run", err)
		}
		for bill, actions := range actionsByBill {
			err = store.RecordBill(ctx, runId, bill, actions)
			if err != nil {
				serviceutil.Fatal("failed to record bill", err)
			}
		}
		err = store.FinishRun(ctx, runId)
		if err != nil {
			serviceutil.Fatal("failed to finish run", err)
		}
	},
}
