// Package gcloud wraps the external gcloud CLI. Every call is a blocking,
// single-shot invocation; failures surface as errors with the CLI's own
// output attached. Nothing here retries.
package gcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/GiGurra/cmder"
	"github.com/bcicen/jstream"
)

// UnsetSentinel is what `gcloud config get-value project` prints when no
// project is configured. It is treated everywhere as equivalent to empty.
const UnsetSentinel = "(unset)"

// VertexService is the service that must be enabled on a project before
// Claude Code can talk to Vertex AI.
const VertexService = "aiplatform.googleapis.com"

// Project is one entry of `gcloud projects list --format=json`.
type Project struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

// Label formats a project the way the picker presents it.
func (p Project) Label() string {
	return fmt.Sprintf("%s - %s", p.ProjectID, p.Name)
}

// run executes a non-interactive gcloud invocation and captures its output.
// Tests replace it with canned results.
var run = func(ctx context.Context, args ...string) (stdout string, combined string, err error) {
	argv := append([]string{"gcloud"}, args...)
	res := cmder.New(argv...).Run(ctx)
	return res.StdOut, res.Combined, res.Err
}

// runInteractive executes gcloud with the caller's terminal attached, for
// the login flows that open a browser and prompt on the TTY.
var runInteractive = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "gcloud", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Available reports whether the gcloud binary can be found on PATH.
func Available() error {
	if _, err := exec.LookPath("gcloud"); err != nil {
		return fmt.Errorf("gcloud not found on PATH: %w", err)
	}
	return nil
}

// AccessToken returns the user credential access token. A failure here is
// the signal that the user is not logged in.
func AccessToken(ctx context.Context) (string, error) {
	stdout, combined, err := run(ctx, "auth", "print-access-token")
	if err != nil {
		return "", fmt.Errorf("gcloud auth print-access-token: %w: %s", err, strings.TrimSpace(combined))
	}
	return strings.TrimSpace(stdout), nil
}

// ADCAccessToken returns an application default credentials token. ADC is a
// separate credential store from the user login, so this probe can fail
// even when AccessToken succeeds.
func ADCAccessToken(ctx context.Context) (string, error) {
	stdout, combined, err := run(ctx, "auth", "application-default", "print-access-token")
	if err != nil {
		return "", fmt.Errorf("gcloud auth application-default print-access-token: %w: %s", err, strings.TrimSpace(combined))
	}
	return strings.TrimSpace(stdout), nil
}

// Login runs the interactive `gcloud auth login` flow.
func Login(ctx context.Context) error {
	if err := runInteractive(ctx, "auth", "login"); err != nil {
		return fmt.Errorf("gcloud auth login: %w", err)
	}
	return nil
}

// ADCLogin runs the interactive `gcloud auth application-default login`
// flow. Client libraries read this credential store, not the user login.
func ADCLogin(ctx context.Context) error {
	if err := runInteractive(ctx, "auth", "application-default", "login"); err != nil {
		return fmt.Errorf("gcloud auth application-default login: %w", err)
	}
	return nil
}

// CurrentProject returns the project configured in gcloud itself, or ""
// when unset. The unset sentinel is filtered here so callers never see it.
func CurrentProject(ctx context.Context) (string, error) {
	stdout, combined, err := run(ctx, "config", "get-value", "project")
	if err != nil {
		return "", fmt.Errorf("gcloud config get-value project: %w: %s", err, strings.TrimSpace(combined))
	}
	project := strings.TrimSpace(stdout)
	if project == UnsetSentinel {
		return "", nil
	}
	return project, nil
}

// SetProject makes id the active project in gcloud's own config store.
func SetProject(ctx context.Context, id string) error {
	if _, combined, err := run(ctx, "config", "set", "project", id); err != nil {
		return fmt.Errorf("gcloud config set project %s: %w: %s", id, err, strings.TrimSpace(combined))
	}
	return nil
}

// EnableService enables an API service on a project.
func EnableService(ctx context.Context, service, project string) error {
	if _, combined, err := run(ctx, "services", "enable", service, "--project", project); err != nil {
		return fmt.Errorf("gcloud services enable %s: %w: %s", service, err, strings.TrimSpace(combined))
	}
	return nil
}

// ServiceEnabled reports whether a service is already enabled on a project.
func ServiceEnabled(ctx context.Context, service, project string) (bool, error) {
	stdout, combined, err := run(ctx,
		"services", "list", "--enabled",
		"--project", project,
		"--filter", "config.name:"+service,
		"--format", "json",
	)
	if err != nil {
		return false, fmt.Errorf("gcloud services list: %w: %s", err, strings.TrimSpace(combined))
	}
	type serviceEntry struct {
		Config struct {
			Name string `json:"name"`
		} `json:"config"`
	}
	entries, err := decodeArray[serviceEntry](stdout)
	if err != nil {
		return false, fmt.Errorf("failed to parse gcloud services list output: %w", err)
	}
	for _, e := range entries {
		if e.Config.Name == service {
			return true, nil
		}
	}
	return false, nil
}

// ListProjects returns every project visible to the authenticated account.
func ListProjects(ctx context.Context) ([]Project, error) {
	stdout, combined, err := run(ctx, "projects", "list", "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("gcloud projects list: %w: %s", err, strings.TrimSpace(combined))
	}
	projects, err := decodeArray[Project](stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gcloud projects list output: %w", err)
	}
	return projects, nil
}

// decodeArray streams a JSON array element by element and unmarshals each
// element into T.
func decodeArray[T any](data string) ([]T, error) {
	var out []T
	decoder := jstream.NewDecoder(strings.NewReader(data), 1)
	for mv := range decoder.Stream() {
		jsonRepr, err := json.Marshal(mv.Value)
		if err != nil {
			return nil, err
		}
		var element T
		if err := json.Unmarshal(jsonRepr, &element); err != nil {
			return nil, err
		}
		out = append(out, element)
	}
	if err := decoder.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
