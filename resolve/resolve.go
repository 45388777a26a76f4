// Package resolve determines the active Google Cloud project for a session.
// Resolution is an ordered sequence of fallible lookups: the first source
// that yields a non-empty value wins, and no source mutates external state.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jamygolden/claude-vertex/config"
	"github.com/jamygolden/claude-vertex/gcloud"
	"github.com/jamygolden/claude-vertex/picker"
	"github.com/jamygolden/claude-vertex/ui"
)

// Seams for tests. Production code never reassigns these.
var (
	currentProject = gcloud.CurrentProject
	listProjects   = gcloud.ListProjects
	runPicker      = picker.Run
	stdinIsTTY     = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

// Source is one step of the resolution chain. Lookup returns "" (with a nil
// error) when the source has nothing to offer and the chain should move on;
// a non-nil error aborts resolution immediately.
type Source struct {
	Name   string
	Lookup func(ctx context.Context) (string, error)
}

// BuildLiteral yields the project ID fixed at build time. It sits first in
// the chain: a build literal overrides everything, including the
// environment variable.
func BuildLiteral(cfg config.Config) Source {
	return Source{
		Name: "build",
		Lookup: func(context.Context) (string, error) {
			return cfg.ProjectID, nil
		},
	}
}

// EnvVar yields the ANTHROPIC_VERTEX_PROJECT_ID environment variable.
func EnvVar() Source {
	return Source{
		Name: "env",
		Lookup: func(context.Context) (string, error) {
			return config.EnvProjectID(), nil
		},
	}
}

// GcloudConfig yields gcloud's own configured project. A failing gcloud
// call is treated as "nothing configured" rather than a fatal error: the
// picker further down the chain still gives the session a way forward.
func GcloudConfig() Source {
	return Source{
		Name: "gcloud-config",
		Lookup: func(ctx context.Context) (string, error) {
			project, err := currentProject(ctx)
			if err != nil {
				slog.Debug("gcloud current project lookup failed", "error", err)
				return "", nil
			}
			return project, nil
		},
	}
}

// Picker yields a project chosen interactively. Unlike the sources above,
// its failures (listing error, empty account, canceled picker) are fatal.
func Picker() Source {
	return Source{
		Name:   "picker",
		Lookup: PickProject,
	}
}

// NonInteractiveSources is the chain without the picker, for contexts that
// must never prompt (the `config` subcommand, scripting).
func NonInteractiveSources(cfg config.Config) []Source {
	return []Source{BuildLiteral(cfg), EnvVar(), GcloudConfig()}
}

// Sources is the full resolution chain in priority order.
func Sources(cfg config.Config) []Source {
	return append(NonInteractiveSources(cfg), Picker())
}

// Project walks the chain and returns the winning value and the name of the
// source it came from. It fails when a source errors or when every source
// comes up empty.
func Project(ctx context.Context, sources []Source) (id string, source string, err error) {
	for _, s := range sources {
		value, err := s.Lookup(ctx)
		if err != nil {
			return "", "", fmt.Errorf("project resolution failed at %s: %w", s.Name, err)
		}
		if value != "" && value != gcloud.UnsetSentinel {
			return value, s.Name, nil
		}
	}
	return "", "", fmt.Errorf("no project could be resolved; set %s or run `gcloud config set project`", config.EnvVertexProject)
}

// PickProject lists the account's projects and selects one: automatically
// when there is exactly one (announced, never silent), interactively when
// there are more.
func PickProject(ctx context.Context) (string, error) {
	projects, err := listProjects(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list projects: %w", err)
	}

	switch len(projects) {
	case 0:
		return "", fmt.Errorf("no Google Cloud projects found for this account; create one at https://console.cloud.google.com/projectcreate")
	case 1:
		ui.Infof("Using the only available project: %s", projects[0].Label())
		return projects[0].ProjectID, nil
	default:
		if !stdinIsTTY() {
			return "", fmt.Errorf("%d projects available but no terminal attached for interactive selection; set %s instead", len(projects), config.EnvVertexProject)
		}
		return runPicker(projects)
	}
}
