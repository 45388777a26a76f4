// Package picker implements the interactive fuzzy project picker shown when
// more than one project is available. It renders on stderr so stdout stays
// clean for the wrapped executable and for scripting.
package picker

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/jamygolden/claude-vertex/gcloud"
)

// ErrNoSelection is returned when the user quits the picker without
// choosing a project.
var ErrNoSelection = errors.New("no project selected")

type item struct {
	project gcloud.Project
}

func (i item) Title() string       { return i.project.Label() }
func (i item) Description() string { return "" }
func (i item) FilterValue() string { return i.project.Label() }

// Model is the bubbletea model for the picker.
type Model struct {
	list     list.Model
	choice   string
	chosen   bool
	canceled bool
}

// New builds a picker over the given projects.
func New(projects []gcloud.Project) Model {
	items := lo.Map(projects, func(p gcloud.Project, _ int) list.Item {
		return item{project: p}
	})

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 80, 20)
	l.Title = "Select a Google Cloud project"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true)

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		// While the filter input is focused, every key belongs to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(item); ok {
				m.choice = selected.project.ProjectID
				m.chosen = true
			}
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.chosen || m.canceled {
		return ""
	}
	return m.list.View()
}

// Choice returns the selected project ID, if any.
func (m Model) Choice() (string, bool) {
	return m.choice, m.chosen
}

// Run presents the picker and blocks until the user chooses or cancels.
func Run(projects []gcloud.Project) (string, error) {
	p := tea.NewProgram(New(projects), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("project picker failed: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("project picker returned unexpected model %T", final)
	}
	choice, chosen := m.Choice()
	if !chosen || choice == "" {
		return "", ErrNoSelection
	}
	return choice, nil
}
