package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/oci-wasm/capability"
	"github.com/wippyai/oci-wasm/wit"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse the exports and imports of a component or WIT package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			p := tea.NewProgram(newBrowseModel(ctx, args[0]), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type entry struct {
	dir  string
	name string
}

type browseState int

const (
	stateList browseState = iota
	stateFilter
	stateDetail
)

type browseModel struct {
	ctx      context.Context
	err      error
	desc     *capability.Descriptor
	filename string
	entries  []entry
	visible  []entry
	filter   textinput.Model
	selected int
	state    browseState
}

type loadedMsg struct {
	err  error
	desc *capability.Descriptor
}

func newBrowseModel(ctx context.Context, filename string) *browseModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	ti.Width = 40
	return &browseModel{
		ctx:      ctx,
		filename: filename,
		filter:   ti,
		state:    stateList,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load
}

func (m *browseModel) load() tea.Msg {
	desc, err := capability.FromFile(m.ctx, m.filename)
	return loadedMsg{desc: desc, err: err}
}

func (m *browseModel) setDescriptor(desc *capability.Descriptor) {
	m.desc = desc
	m.entries = m.entries[:0]
	for _, name := range desc.Exports.Sorted() {
		m.entries = append(m.entries, entry{dir: "export", name: name})
	}
	for _, name := range desc.Imports.Sorted() {
		m.entries = append(m.entries, entry{dir: "import", name: name})
	}
	m.applyFilter()
}

func (m *browseModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, e := range m.entries {
		if needle == "" || strings.Contains(strings.ToLower(e.name), needle) {
			m.visible = append(m.visible, e)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setDescriptor(msg.desc)
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateList
			}

		case "esc":
			m.state = stateList
		}
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.filter.Blur()
		m.state = stateList
		return m, nil
	case "esc":
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		m.state = stateList
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.desc == nil {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Capabilities"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %d exports, %d imports\n\n", m.desc.Exports.Len(), m.desc.Imports.Len()))

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.visible) == 0 {
			b.WriteString("No matches.\n")
		}
		for i, e := range m.visible {
			line := dirStyle.Render(fmt.Sprintf("%-7s", e.dir)) + " " + nameStyle.Render(e.name)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + e.dir + "  " + e.name))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • / filter • enter details • q quit"))
		}

	case stateDetail:
		e := m.visible[m.selected]
		b.WriteString(detailView(e))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}
	return b.String()
}

func detailView(e entry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n\n", dirStyle.Render(e.dir), nameStyle.Render(e.name)))
	pkg, item, err := wit.ParseQualifiedName(e.name)
	if err != nil {
		b.WriteString("plain name, not tied to a package")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("namespace  %s\n", pkg.Namespace))
	b.WriteString(fmt.Sprintf("package    %s\n", pkg.Name))
	b.WriteString(fmt.Sprintf("item       %s\n", item))
	if pkg.Version != nil {
		b.WriteString(fmt.Sprintf("version    %s", pkg.Version))
	} else {
		b.WriteString("version    (none)")
	}
	return b.String()
}
