// Package bootstrap establishes authentication and project context before
// the wrapped executable is launched. Exactly one of the two authentication
// branches runs per invocation: the first-login flow when the access-token
// probe fails, plain project resolution otherwise.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jamygolden/claude-vertex/config"
	"github.com/jamygolden/claude-vertex/gcloud"
	"github.com/jamygolden/claude-vertex/resolve"
	"github.com/jamygolden/claude-vertex/ui"
)

// Seams for tests. Production code never reassigns these.
var (
	accessToken    = gcloud.AccessToken
	login          = gcloud.Login
	adcLogin       = gcloud.ADCLogin
	setProject     = gcloud.SetProject
	enableService  = gcloud.EnableService
	pickProject    = resolve.PickProject
	resolveProject = resolve.Project
	stdinIsTTY     = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
)

// Run produces the session configuration for this invocation. On return the
// project ID is guaranteed non-empty and valid; any failure along the way is
// fatal to the caller and nothing has been exported.
func Run(ctx context.Context) (config.Config, error) {
	return run(ctx, config.FromBuild())
}

func run(ctx context.Context, cfg config.Config) (config.Config, error) {
	if _, err := accessToken(ctx); err != nil {
		slog.Debug("access token probe failed, starting first-time login", "error", err)
		ui.Info("You are not logged in to Google Cloud.")
		projectID, err := FirstLogin(ctx)
		if err != nil {
			return config.Config{}, err
		}
		cfg.ProjectID = projectID
		cfg.ProjectSource = "picker"
		return validated(cfg)
	}

	if cfg.ProjectID != "" {
		// Build literal: resolution is already final.
		return validated(cfg)
	}

	projectID, source, err := resolveProject(ctx, resolve.Sources(cfg))
	if err != nil {
		return config.Config{}, err
	}
	cfg.ProjectID = projectID
	cfg.ProjectSource = source
	return validated(cfg)
}

// FirstLogin drives the interactive first-time setup: user login, the
// separate application-default login, project selection, project
// activation, and Vertex API enablement. It returns the chosen project ID.
func FirstLogin(ctx context.Context) (string, error) {
	if !stdinIsTTY() {
		return "", fmt.Errorf("not logged in to Google Cloud and no terminal attached; run `gcloud auth login` from an interactive shell first")
	}

	ui.Info("Starting Google Cloud login...")
	if err := login(ctx); err != nil {
		return "", err
	}

	ui.Info("Client libraries use a separate credential store. Starting application default login...")
	if err := adcLogin(ctx); err != nil {
		return "", err
	}

	// First-time login assumes no prior project context: go straight to the
	// picker rather than through the priority chain.
	projectID, err := pickProject(ctx)
	if err != nil {
		return "", err
	}

	if err := setProject(ctx, projectID); err != nil {
		return "", err
	}

	ui.Infof("Enabling %s on project %s...", gcloud.VertexService, projectID)
	if err := enableService(ctx, gcloud.VertexService, projectID); err != nil {
		return "", err
	}

	return projectID, nil
}

func validated(cfg config.Config) (config.Config, error) {
	if cfg.ProjectID == "" || cfg.ProjectID == gcloud.UnsetSentinel {
		return config.Config{}, fmt.Errorf("no valid project resolved (got %q); run `gcloud config set project <id>` or set %s", cfg.ProjectID, config.EnvVertexProject)
	}
	return cfg, nil
}
