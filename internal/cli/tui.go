package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gitbump/pkg/update"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// UpdateSelectModel - Interactive update selection
// =============================================================================

// UpdateSelectModel is the bubbletea model for choosing which updates to install.
// Every update starts selected.
type UpdateSelectModel struct {
	Updates   []update.Update
	Chosen    []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewUpdateSelectModel creates a selection model with every update chosen.
func NewUpdateSelectModel(updates []update.Update) UpdateSelectModel {
	chosen := make([]bool, len(updates))
	for i := range chosen {
		chosen[i] = true
	}
	return UpdateSelectModel{
		Updates: updates,
		Chosen:  chosen,
		Height:  15,
	}
}

func (m UpdateSelectModel) Init() tea.Cmd {
	return nil
}

func (m UpdateSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Updates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "x":
			if len(m.Chosen) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := !m.allChosen()
			for i := range m.Chosen {
				m.Chosen[i] = all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m UpdateSelectModel) allChosen() bool {
	for _, c := range m.Chosen {
		if !c {
			return false
		}
	}
	return true
}

// Selected returns the chosen updates, or nil if the selection was aborted.
func (m UpdateSelectModel) Selected() []update.Update {
	if !m.Confirmed {
		return nil
	}
	var out []update.Update
	for i, u := range m.Updates {
		if m.Chosen[i] {
			out = append(out, u)
		}
	}
	return out
}

func (m UpdateSelectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Updates"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ install  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Updates))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		u := m.Updates[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[i] {
			box = "[x]"
		}
		rows = append(rows, []string{cursor + box, u.Name, u.Installed, iconArrow + " " + u.Latest})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Installed", "Latest").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Updates) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Chosen[idx]:
				return listNormalStyle
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", m.count(), len(m.Updates))))

	return b.String()
}

func (m UpdateSelectModel) count() int {
	n := 0
	for _, c := range m.Chosen {
		if c {
			n++
		}
	}
	return n
}

// selectUpdates runs the selection UI and returns the chosen updates.
func selectUpdates(updates []update.Update) ([]update.Update, error) {
	final, err := tea.NewProgram(NewUpdateSelectModel(updates)).Run()
	if err != nil {
		return nil, err
	}
	return final.(UpdateSelectModel).Selected(), nil
}
