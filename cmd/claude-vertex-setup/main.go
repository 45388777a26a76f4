package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jamygolden/claude-vertex/bootstrap"
	"github.com/jamygolden/claude-vertex/common"
	"github.com/jamygolden/claude-vertex/config"
	"github.com/jamygolden/claude-vertex/doctor"
	"github.com/jamygolden/claude-vertex/resolve"
	"github.com/jamygolden/claude-vertex/ui"
)

var paramEnricher = boa.ParamEnricherCombine(
	boa.ParamEnricherBool,
	boa.ParamEnricherName,
)

type subcParams struct {
	Verbose boa.Required[bool] `descr:"Verbose output" short:"v" default:"false" name:"verbose"`
}

func main() {
	boa.Wrap{
		Use:         "claude-vertex-setup",
		Short:       "Configure Google Cloud authentication for the claude-vertex wrapper",
		Long:        "Administrative companion to claude-vertex. The wrapper forwards every argument to the wrapped executable, so login, project selection, and diagnostics live here instead.",
		ParamEnrich: paramEnricher,
		SubCommands: []*cobra.Command{
			loginCmd(),
			projectCmd(),
			configCmd(),
			doctorCmd(),
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}.ToApp()
}

// initLogging raises the log level in verbose mode and tags every record
// with a per-invocation id so interleaved runs can be told apart.
func initLogging(verbose bool) {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.SetDefault(slog.Default().With("invocation", uuid.NewString()))
	}
}

func loginCmd() *cobra.Command {
	p := subcParams{}
	return boa.Wrap{
		Use:         "login",
		Short:       "Run the full interactive login flow (login, ADC login, project selection, API enablement)",
		Params:      &p,
		ParamEnrich: paramEnricher,
		Run: func(cmd *cobra.Command, args []string) {
			initLogging(p.Verbose.Value())
			projectID, err := bootstrap.FirstLogin(context.Background())
			if err != nil {
				common.FailAndExitf(1, "Login flow failed: %v", err)
			}
			ui.Infof("Logged in. Active project: %s", projectID)
		},
	}.ToCmd()
}

func projectCmd() *cobra.Command {
	var p struct {
		Verbose boa.Required[bool] `descr:"Verbose output" short:"v" default:"false" name:"verbose"`
		Pick    boa.Required[bool] `descr:"Force the interactive picker, ignoring configured sources" default:"false" name:"pick"`
	}
	return boa.Wrap{
		Use:         "project",
		Short:       "Print the project ID the wrapper would use",
		Params:      &p,
		ParamEnrich: paramEnricher,
		Run: func(cmd *cobra.Command, args []string) {
			initLogging(p.Verbose.Value())
			ctx := context.Background()

			var projectID, source string
			var err error
			if p.Pick.Value() {
				projectID, err = resolve.PickProject(ctx)
				source = "picker"
			} else {
				projectID, source, err = resolve.Project(ctx, resolve.Sources(config.FromBuild()))
			}
			if err != nil {
				common.FailAndExitf(1, "Failed to resolve project: %v", err)
			}

			ui.Infof("Resolved from source: %s", source)
			fmt.Println(projectID)
		},
	}.ToCmd()
}

func configCmd() *cobra.Command {
	p := subcParams{}
	return boa.Wrap{
		Use:         "config",
		Short:       "Print the effective session configuration as YAML",
		Params:      &p,
		ParamEnrich: paramEnricher,
		Run: func(cmd *cobra.Command, args []string) {
			initLogging(p.Verbose.Value())
			cfg := config.FromBuild()

			// Never prompt from here: leave the project blank if only the
			// picker could produce one.
			if cfg.ProjectID == "" {
				if projectID, source, err := resolve.Project(context.Background(), resolve.NonInteractiveSources(cfg)); err == nil {
					cfg.ProjectID = projectID
					cfg.ProjectSource = source
				}
			}

			fmt.Print(cfg.ToYaml())
		},
	}.ToCmd()
}

func doctorCmd() *cobra.Command {
	p := subcParams{}
	return boa.Wrap{
		Use:         "doctor",
		Short:       "Diagnose gcloud authentication and Vertex AI configuration",
		Params:      &p,
		ParamEnrich: paramEnricher,
		Run: func(cmd *cobra.Command, args []string) {
			initLogging(p.Verbose.Value())
			if err := doctor.Run(context.Background(), config.FromBuild()); err != nil {
				common.FailAndExitf(1, "Doctor found problems: %v", err)
			}
			ui.Infof("%s All checks passed", ui.OKTag())
		},
	}.ToCmd()
}
