package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetBuildVars(t *testing.T) {
	t.Helper()
	prevProject := buildProjectID
	prevModel := buildModel
	prevSmall := buildSmallModel
	prevRegion := buildRegion
	prevCaching := buildDisablePromptCaching
	prevTarget := buildTarget
	t.Cleanup(func() {
		buildProjectID = prevProject
		buildModel = prevModel
		buildSmallModel = prevSmall
		buildRegion = prevRegion
		buildDisablePromptCaching = prevCaching
		buildTarget = prevTarget
	})
}

func TestFromBuildDefaults(t *testing.T) {
	resetBuildVars(t)

	cfg := FromBuild()

	assert.Empty(t, cfg.ProjectID)
	assert.Empty(t, cfg.ProjectSource)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.Equal(t, "claude-3-5-haiku", cfg.SmallModel)
	assert.Equal(t, "europe-west1", cfg.Region)
	assert.True(t, cfg.DisablePromptCaching)
	assert.Equal(t, "claude", cfg.Target)
}

func TestFromBuildOverrides(t *testing.T) {
	resetBuildVars(t)
	buildProjectID = "test-project"
	buildModel = "test-model"
	buildSmallModel = "test-small-model"
	buildRegion = "us-central1"
	buildDisablePromptCaching = "false"

	cfg := FromBuild()

	assert.Equal(t, "test-project", cfg.ProjectID)
	assert.Equal(t, "build", cfg.ProjectSource)
	assert.Equal(t, "test-model", cfg.Model)
	assert.Equal(t, "test-small-model", cfg.SmallModel)
	assert.Equal(t, "us-central1", cfg.Region)
	assert.False(t, cfg.DisablePromptCaching)
}

func TestFromBuildBlankValue(t *testing.T) {
	resetBuildVars(t)
	buildModel = BlankValue
	buildRegion = BlankValue

	cfg := FromBuild()

	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.Region)
	assert.Equal(t, DefaultSmallModel, cfg.SmallModel)
}

func TestFromBuildCachingFlagIgnoresGarbage(t *testing.T) {
	resetBuildVars(t)
	buildDisablePromptCaching = "banana"

	assert.True(t, FromBuild().DisablePromptCaching)
}

func TestWarnings(t *testing.T) {
	cfg := Config{Model: DefaultModel, SmallModel: DefaultSmallModel, Region: DefaultRegion}
	assert.Empty(t, cfg.Warnings())

	cfg = Config{}
	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], EnvModel)
	assert.Contains(t, warnings[1], EnvSmallModel)
	assert.Contains(t, warnings[2], EnvRegion)
}

func TestEnvProjectID(t *testing.T) {
	t.Setenv(EnvVertexProject, "from-env")
	assert.Equal(t, "from-env", EnvProjectID())

	t.Setenv(EnvVertexProject, "")
	assert.Empty(t, EnvProjectID())
}

func TestToYaml(t *testing.T) {
	cfg := Config{
		ProjectID:     "p1",
		ProjectSource: "env",
		Model:         DefaultModel,
	}
	out := cfg.ToYaml()
	assert.Contains(t, out, "project_id: p1")
	assert.Contains(t, out, "project_source: env")
	assert.Contains(t, out, "model_name: claude-sonnet-4-5")
}
