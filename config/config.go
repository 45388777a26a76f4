// Package config holds the per-invocation session configuration: the model,
// region, and caching settings exported to the wrapped executable, plus the
// project ID once resolved. There is no config file; values come from
// build-time -ldflags literals, fixed defaults, and (for the project) the
// resolution chain.
package config

import (
	"fmt"
	"os"

	"github.com/jamygolden/claude-vertex/common"
	"gopkg.in/yaml.v3"
)

// Environment variables consumed by Claude Code's Vertex integration.
const (
	EnvUseVertex            = "CLAUDE_CODE_USE_VERTEX"
	EnvVertexProject        = "ANTHROPIC_VERTEX_PROJECT_ID"
	EnvRegion               = "CLOUD_ML_REGION"
	EnvModel                = "ANTHROPIC_MODEL"
	EnvSmallModel           = "ANTHROPIC_SMALL_FAST_MODEL"
	EnvDisablePromptCaching = "DISABLE_PROMPT_CACHING"

	// EnvVerbose turns on debug logging in the wrapper binary, which takes
	// no flags of its own.
	EnvVerbose = "CLAUDE_VERTEX_VERBOSE"
)

// Defaults applied when no build-time override is present.
const (
	DefaultModel      = "claude-sonnet-4-5"
	DefaultSmallModel = "claude-3-5-haiku"
	DefaultRegion     = "europe-west1"
	DefaultTarget     = "claude"
)

// BlankValue is the build-time literal that blanks a field instead of
// falling back to its default. An empty -X value means "use the default".
const BlankValue = "none"

// Build-time overrides, injected with:
//
//	go build -ldflags "-X github.com/jamygolden/claude-vertex/config.buildProjectID=my-project ..."
//
// buildDisablePromptCaching accepts "true" or "false"; anything else keeps
// the default (true).
var (
	buildProjectID            string
	buildModel                string
	buildSmallModel           string
	buildRegion               string
	buildDisablePromptCaching string
	buildTarget               string
)

// Config is the session configuration handed to the launcher. It is
// constructed fresh on every invocation and read-only once exported.
type Config struct {
	ProjectID            string `yaml:"project_id"`
	ProjectSource        string `yaml:"project_source"`
	Model                string `yaml:"model_name"`
	SmallModel           string `yaml:"small_model_name"`
	Region               string `yaml:"vertex_region"`
	DisablePromptCaching bool   `yaml:"disable_prompt_caching"`
	Target               string `yaml:"target"`
}

// FromBuild returns the configuration before project resolution: defaults
// overlaid with any build-time literals. A build literal for the project ID
// wins over every other project source, so ProjectSource is already final
// when it is set here.
func FromBuild() Config {
	cfg := Config{
		Model:                pick(buildModel, DefaultModel),
		SmallModel:           pick(buildSmallModel, DefaultSmallModel),
		Region:               pick(buildRegion, DefaultRegion),
		DisablePromptCaching: buildDisablePromptCaching != "false",
		Target:               pick(buildTarget, DefaultTarget),
	}
	if buildProjectID != "" {
		cfg.ProjectID = buildProjectID
		cfg.ProjectSource = "build"
	}
	return cfg
}

func pick(buildVal, defaultVal string) string {
	switch buildVal {
	case "":
		return defaultVal
	case BlankValue:
		return ""
	default:
		return buildVal
	}
}

// EnvProjectID returns the project ID from the environment, if any.
func EnvProjectID() string {
	return os.Getenv(EnvVertexProject)
}

// Warnings reports configuration holes that do not block launch. With stock
// defaults these are unreachable; a packager has to blank a field with an
// explicit "none" literal to hit them.
func (c Config) Warnings() []string {
	var warnings []string
	if c.Model == "" {
		warnings = append(warnings, fmt.Sprintf("no model configured, %s will not be set", EnvModel))
	}
	if c.SmallModel == "" {
		warnings = append(warnings, fmt.Sprintf("no small/fast model configured, %s will not be set", EnvSmallModel))
	}
	if c.Region == "" {
		warnings = append(warnings, fmt.Sprintf("no region configured, %s will not be set", EnvRegion))
	}
	return warnings
}

func (c Config) ToYaml() string {
	yamlBytes, err := yaml.Marshal(c)
	if err != nil {
		common.FailAndExitf(1, "failed to marshal config: %v", err)
	}
	return string(yamlBytes)
}
