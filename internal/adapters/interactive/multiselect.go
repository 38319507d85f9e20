package interactive

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/trebuchet-org/ignite/internal/domain/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	addressStyle = lipgloss.NewStyle().Faint(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// multiSelectModel is the bubbletea model for picking futures
type multiSelectModel struct {
	futures   []*models.FutureState
	cursor    int
	selected  map[int]bool
	title     string
	done      bool
	cancelled bool
}

func newMultiSelectModel(futures []*models.FutureState, title string) multiSelectModel {
	return multiSelectModel{
		futures:  futures,
		selected: make(map[int]bool),
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.futures)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.selectedIndices()) < len(m.futures)
		for i := range m.futures {
			m.selected[i] = all
		}
	case "enter":
		if len(m.selectedIndices()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, f := range m.futures {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render("▸")
		}

		checkbox := "○"
		if m.selected[i] {
			checkbox = checkedStyle.Render("✓")
		}

		line := fmt.Sprintf("%s %s %s", cursor, checkbox, f.FutureID)
		switch {
		case f.Status == models.FutureStatusFailed:
			line += " " + failedStyle.Render("(failed)")
		case f.Address != "":
			line += " " + addressStyle.Render(f.Address)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m multiSelectModel) selectedIndices() []int {
	var indices []int
	for i, ok := range m.selected {
		if ok {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices
}

// SelectFutures shows a multi-select interface and returns the chosen futures
func SelectFutures(futures []*models.FutureState, title string) ([]*models.FutureState, error) {
	if len(futures) == 0 {
		return nil, fmt.Errorf("no futures to select")
	}

	p := tea.NewProgram(newMultiSelectModel(futures, title))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}

	chosen := make([]*models.FutureState, 0, len(m.futures))
	for _, i := range m.selectedIndices() {
		chosen = append(chosen, m.futures[i])
	}
	return chosen, nil
}
