// Package launch builds the final process environment and replaces the
// current process image with the wrapped executable. Environment injection
// happens here and nowhere else: resolution code never touches the
// environment, it only produces the Config this package consumes.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/jamygolden/claude-vertex/config"
)

// execFunc replaces the current process. Defaults to syscall.Exec; tests
// override it to capture the call instead of actually replacing the process.
var execFunc = syscall.Exec

// Vars returns the environment variables this wrapper exports, in a fixed
// order. Conditional variables are omitted entirely when unconfigured;
// DISABLE_PROMPT_CACHING in particular is only ever present with value "1",
// never present-but-false.
func Vars(cfg config.Config) []string {
	vars := []string{
		config.EnvUseVertex + "=1",
		config.EnvVertexProject + "=" + cfg.ProjectID,
	}
	if cfg.Region != "" {
		vars = append(vars, config.EnvRegion+"="+cfg.Region)
	}
	if cfg.Model != "" {
		vars = append(vars, config.EnvModel+"="+cfg.Model)
	}
	if cfg.SmallModel != "" {
		vars = append(vars, config.EnvSmallModel+"="+cfg.SmallModel)
	}
	if cfg.DisablePromptCaching {
		vars = append(vars, config.EnvDisablePromptCaching+"=1")
	}
	return vars
}

// Environ merges the wrapper's exports over the inherited environment.
// Inherited values for managed keys are dropped so the successor process
// sees exactly one entry per key.
func Environ(cfg config.Config) []string {
	return mergeEnv(os.Environ(), Vars(cfg))
}

func mergeEnv(base, overrides []string) []string {
	managed := make(map[string]bool, len(overrides))
	for _, entry := range overrides {
		key, _, _ := strings.Cut(entry, "=")
		managed[key] = true
	}

	merged := make([]string, 0, len(base)+len(overrides))
	for _, entry := range base {
		key, _, _ := strings.Cut(entry, "=")
		if !managed[key] {
			merged = append(merged, entry)
		}
	}
	return append(merged, overrides...)
}

// Exec hands control to the wrapped executable, forwarding args verbatim.
// On success it never returns; the returned error is only observable when
// the target cannot be found or the exec itself fails.
func Exec(cfg config.Config, args []string) error {
	path, err := exec.LookPath(cfg.Target)
	if err != nil {
		return fmt.Errorf("wrapped executable %q not found on PATH: %w", cfg.Target, err)
	}

	argv := make([]string, 0, 1+len(args))
	argv = append(argv, cfg.Target)
	argv = append(argv, args...)

	if err := execFunc(path, argv, Environ(cfg)); err != nil {
		return fmt.Errorf("failed to exec %s: %w", path, err)
	}
	return nil
}
