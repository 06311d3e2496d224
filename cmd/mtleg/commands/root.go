package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"mtleg-backend/lib/configutil"
	configlibsql "mtleg-backend/lib/configutil/libsql"
	"mtleg-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

// Config is read from mtleg.json5 next to the working directory (or any
// ancestor), with machine-local overrides in mtleg.local.json5.
type Config struct {
	// base directory for fetched inputs and assembled outputs,
	// defaults to the working directory
	DataDir string `json:"data_dir"`
	// User-Agent sent to api.legmt.gov, e.g.
	// "MTLeg-Scraper/1.0 (+https://example.org/contact/)"
	UserAgent string `json:"user_agent"`
	// when set, full request/response transcripts are dumped here
	HttpDebugDir string              `json:"http_debug_dir"`
	Database     configlibsql.Struct `json:"database"`
}

var config Config

var rootCmd = &cobra.Command{
	Use:   "mtleg",
	Short: "mtleg fetches Montana legislature sessions and assembles per-bill action timelines.",
}

func Execute(ctx context.Context) {
	loaded, err := configutil.ReadRecursively[Config]("mtleg.json5")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config = loaded
	if config.DataDir == "" {
		config.DataDir = "."
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupTelemetry initializes exporters when a telemetry.json5 exists,
// and is a no-op otherwise. The returned shutdown is always callable.
func setupTelemetry(ctx context.Context, serviceName string) (func(), error) {
	tel, err := telemetry.SetupFromEnv(ctx, serviceName)
	if errors.Is(err, telemetry.ErrNoConfig) {
		return func() {}, nil
	}
	if err != nil {
		return nil, err
	}
	telemetry.InstrumentPerfStats(ctx)
	return func() {
		tel.Shutdown(context.Background())
	}, nil
}

// sessionArg parses the single positional session id, e.g. "20251".
func sessionArg(args []string) (int, error) {
	sessionId, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("session id must be an integer: %q", args[0])
	}
	return sessionId, nil
}
