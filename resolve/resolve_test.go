package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamygolden/claude-vertex/config"
	"github.com/jamygolden/claude-vertex/gcloud"
	"github.com/jamygolden/claude-vertex/ui"
)

func stubSeams(t *testing.T) {
	t.Helper()
	prevCurrent := currentProject
	prevList := listProjects
	prevPicker := runPicker
	prevTTY := stdinIsTTY
	t.Cleanup(func() {
		currentProject = prevCurrent
		listProjects = prevList
		runPicker = prevPicker
		stdinIsTTY = prevTTY
	})

	currentProject = func(context.Context) (string, error) { return "", nil }
	listProjects = func(context.Context) ([]gcloud.Project, error) {
		t.Fatal("listProjects must not be called")
		return nil, nil
	}
	runPicker = func([]gcloud.Project) (string, error) {
		t.Fatal("picker must not be called")
		return "", nil
	}
	stdinIsTTY = func() bool { return true }
}

func TestProjectPrecedence(t *testing.T) {
	cases := []struct {
		literal    string
		env        string
		gcloudProj string
		want       string
		wantSource string
	}{
		{"lit", "env", "gcp", "lit", "build"},
		{"lit", "env", "", "lit", "build"},
		{"lit", "", "gcp", "lit", "build"},
		{"lit", "", "", "lit", "build"},
		{"", "env", "gcp", "env", "env"},
		{"", "env", "", "env", "env"},
		{"", "", "gcp", "gcp", "gcloud-config"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("lit=%q env=%q gcloud=%q", tc.literal, tc.env, tc.gcloudProj), func(t *testing.T) {
			stubSeams(t)
			t.Setenv(config.EnvVertexProject, tc.env)
			currentProject = func(context.Context) (string, error) { return tc.gcloudProj, nil }

			cfg := config.Config{ProjectID: tc.literal}
			got, source, err := Project(context.Background(), Sources(cfg))

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantSource, source)
		})
	}
}

func TestProjectFallsThroughToPicker(t *testing.T) {
	stubSeams(t)
	t.Setenv(config.EnvVertexProject, "")
	listProjects = func(context.Context) ([]gcloud.Project, error) {
		return []gcloud.Project{{ProjectID: "only", Name: "Only"}}, nil
	}

	got, source, err := Project(context.Background(), Sources(config.Config{}))

	require.NoError(t, err)
	assert.Equal(t, "only", got)
	assert.Equal(t, "picker", source)
}

func TestProjectSentinelTreatedAsAbsent(t *testing.T) {
	stubSeams(t)
	t.Setenv(config.EnvVertexProject, "")

	// A source that leaks the raw sentinel must not win the chain.
	sentinelSource := Source{
		Name:   "sentinel",
		Lookup: func(context.Context) (string, error) { return gcloud.UnsetSentinel, nil },
	}
	fallback := Source{
		Name:   "fallback",
		Lookup: func(context.Context) (string, error) { return "real", nil },
	}

	got, source, err := Project(context.Background(), []Source{sentinelSource, fallback})

	require.NoError(t, err)
	assert.Equal(t, "real", got)
	assert.Equal(t, "fallback", source)
}

func TestProjectAllSourcesEmpty(t *testing.T) {
	stubSeams(t)
	t.Setenv(config.EnvVertexProject, "")

	_, _, err := Project(context.Background(), NonInteractiveSources(config.Config{}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvVertexProject)
}

func TestProjectSourceErrorIsFatal(t *testing.T) {
	stubSeams(t)
	broken := Source{
		Name:   "broken",
		Lookup: func(context.Context) (string, error) { return "", errors.New("boom") },
	}

	_, _, err := Project(context.Background(), []Source{broken})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "boom")
}

func TestGcloudConfigSourceSwallowsErrors(t *testing.T) {
	stubSeams(t)
	currentProject = func(context.Context) (string, error) { return "", errors.New("gcloud exploded") }

	got, err := GcloudConfig().Lookup(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPickProjectListingFailure(t *testing.T) {
	stubSeams(t)
	listProjects = func(context.Context) ([]gcloud.Project, error) {
		return nil, errors.New("permission denied")
	}

	_, err := PickProject(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list projects")
}

func TestPickProjectZeroProjects(t *testing.T) {
	stubSeams(t)
	listProjects = func(context.Context) ([]gcloud.Project, error) { return nil, nil }

	_, err := PickProject(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Google Cloud projects found")
}

func TestPickProjectSingleProjectAutoSelectsAndAnnounces(t *testing.T) {
	stubSeams(t)
	listProjects = func(context.Context) ([]gcloud.Project, error) {
		return []gcloud.Project{{ProjectID: "solo-project", Name: "Solo"}}, nil
	}

	var buf bytes.Buffer
	ui.SetWriter(&buf)
	t.Cleanup(func() { ui.SetWriter(os.Stderr) })

	got, err := PickProject(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "solo-project", got)
	assert.Contains(t, buf.String(), "solo-project - Solo")
}

func TestPickProjectMultipleUsesPickerVerbatim(t *testing.T) {
	stubSeams(t)
	projects := []gcloud.Project{
		{ProjectID: "a", Name: "A"},
		{ProjectID: "b", Name: "B"},
	}
	listProjects = func(context.Context) ([]gcloud.Project, error) { return projects, nil }
	runPicker = func(got []gcloud.Project) (string, error) {
		assert.Equal(t, projects, got)
		return "b", nil
	}

	got, err := PickProject(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestPickProjectMultipleWithoutTTY(t *testing.T) {
	stubSeams(t)
	listProjects = func(context.Context) ([]gcloud.Project, error) {
		return []gcloud.Project{{ProjectID: "a"}, {ProjectID: "b"}}, nil
	}
	stdinIsTTY = func() bool { return false }

	_, err := PickProject(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no terminal attached")
}
