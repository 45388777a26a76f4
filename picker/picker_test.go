package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamygolden/claude-vertex/gcloud"
)

func testProjects() []gcloud.Project {
	return []gcloud.Project{
		{ProjectID: "alpha-123", Name: "Alpha"},
		{ProjectID: "beta-456", Name: "Beta"},
		{ProjectID: "gamma-789", Name: "Gamma"},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestViewListsProjects(t *testing.T) {
	m := New(testProjects())
	view := m.View()

	assert.Contains(t, view, "alpha-123 - Alpha")
	assert.Contains(t, view, "Select a Google Cloud project")
}

func TestEnterSelectsHighlightedProject(t *testing.T) {
	m := New(testProjects())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	choice, chosen := m.Choice()
	assert.True(t, chosen)
	assert.Equal(t, "alpha-123", choice)
}

func TestNavigationChangesSelection(t *testing.T) {
	m := New(testProjects())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	choice, chosen := m.Choice()
	assert.True(t, chosen)
	assert.Equal(t, "beta-456", choice)
}

func TestEscapeCancelsWithoutChoice(t *testing.T) {
	m := New(testProjects())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	_, chosen := m.Choice()
	assert.False(t, chosen)
	assert.True(t, m.canceled)
	assert.Empty(t, m.View(), "a finished picker renders nothing")
}

func TestWindowSizeIsApplied(t *testing.T) {
	m := New(testProjects())

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	// The view should still render all entries after a resize.
	view := m.View()
	assert.Contains(t, view, "gamma-789 - Gamma")
}
