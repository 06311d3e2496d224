package commands

import (
	"mtleg-backend/lib/legmt"
	"mtleg-backend/lib/restyutil"
	"mtleg-backend/lib/serviceutil"
	"mtleg-backend/services/fetcher"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <session_id>",
	Short: "Downloads a session's bills, votes, executive actions, hearings, and lookup tables.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		sessionId, err := sessionArg(args)
		if err != nil {
			serviceutil.Fatal("bad session id", err)
		}

		shutdown, err := setupTelemetry(ctx, "fetch")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer shutdown()

		if config.HttpDebugDir != "" {
			legmt.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(config.HttpDebugDir))
		}

		f := fetcher.Fetcher{
			Client:  legmt.NewClient(legmt.ClientOptions{UserAgent: config.UserAgent}),
			DataDir: config.DataDir,
		}
		err = f.FetchSession(ctx, sessionId)
		if err != nil {
			serviceutil.Fatal("fetch failed", err)
		}
	},
}
