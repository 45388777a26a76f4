// claude-vertex wraps the Claude Code CLI for Google Vertex AI. It defines
// no flags and no subcommands of its own: every argument is forwarded
// verbatim to the wrapped executable once authentication and project
// resolution succeed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jamygolden/claude-vertex/bootstrap"
	"github.com/jamygolden/claude-vertex/common"
	"github.com/jamygolden/claude-vertex/config"
	"github.com/jamygolden/claude-vertex/launch"
	"github.com/jamygolden/claude-vertex/ui"
)

func main() {
	if os.Getenv(config.EnvVerbose) == "1" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := bootstrap.Run(context.Background())
	if err != nil {
		common.FailAndExit(1, fmt.Sprintf("Failed to bootstrap Vertex session: %v", err))
	}

	for _, warning := range cfg.Warnings() {
		ui.Warn(warning)
	}

	// On success Exec never returns.
	if err := launch.Exec(cfg, os.Args[1:]); err != nil {
		common.FailAndExit(1, fmt.Sprintf("Failed to launch %s: %v", cfg.Target, err))
	}
}
