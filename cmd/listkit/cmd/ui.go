package cmd

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/listtest"
	"github.com/go-drift/listkit/pkg/reconcile"
)

// uiOptions holds the flags for the ui subcommand.
type uiOptions struct {
	File string
}

func addUI(topLevel *cobra.Command) {
	opts := &uiOptions{}

	c := &cobra.Command{
		Use:   "ui",
		Short: "Step through a scenario in an interactive terminal view.",
		Long: `The ui command drives a real reconciliation loop against the scenario:
the terminal pane on the left is the display surface, the pane on the
right shows the operation script each cycle applied. Tab flips between
the old and new states, r reconciles without changes, q quits.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runUI(opts)
		},
	}

	c.Flags().StringVarP(&opts.File, "file", "f", "", "Path to the scenario YAML file.")

	topLevel.AddCommand(c)
}

func runUI(opts *uiOptions) error {
	path, err := scenarioPath(opts.File)
	if err != nil {
		return err
	}
	sc, err := listtest.LoadScenario(path)
	if err != nil {
		return err
	}

	surface := &uiSurface{}
	driver := reconcile.NewDriver[string](surface)
	if err := listtest.Supply(driver, sc.Old); err != nil {
		return err
	}
	if err := driver.Reconcile(); err != nil {
		return err
	}

	model := uiModel{surface: surface, driver: driver, scenario: sc}
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// uiSurface is the display surface behind the terminal view. ApplyOperations
// replays each script into the rendered state, so whatever the next frame
// draws is exactly what a real list view would show after the cycle.
type uiSurface struct {
	display diff.State[string]
	ops     []diff.Op[string]
	token   string
	cycles  int
}

func (s *uiSurface) ApplyOperations(view reconcile.View[string], token string, ops []diff.Op[string]) error {
	next, err := diff.Apply(s.display, ops, reconcile.ViewSource(view))
	if err != nil {
		return err
	}
	s.display = next
	s.ops = slices.Clone(ops)
	s.token = token
	s.cycles++
	return nil
}

var (
	uiTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	uiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	uiAccessory    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	uiRowStyle     = lipgloss.NewStyle().PaddingLeft(2)
	uiFaintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	uiErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	uiPaneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	uiDeleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	uiInsertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	uiMoveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	uiRefreshStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// uiModel is the Elm-style model for the interactive view. The surface and
// driver live behind pointers so the copies bubbletea passes around all see
// the same reconciliation state.
type uiModel struct {
	surface  *uiSurface
	driver   *reconcile.Driver[string]
	scenario *listtest.Scenario

	showing int // 0 = old state, 1 = new state
	note    string
	err     error
	width   int
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", " ", "enter":
			m.step()
			return m, nil
		case "r":
			m.rerun()
			return m, nil
		}
	}
	return m, nil
}

// step flips to the scenario's other state and reconciles toward it.
func (m *uiModel) step() {
	before := m.surface.cycles
	m.showing = 1 - m.showing
	docs := m.scenario.Old
	if m.showing == 1 {
		docs = m.scenario.New
	}
	if err := listtest.Supply(m.driver, docs); err != nil {
		m.err = err
		return
	}
	if err := m.driver.Reconcile(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.note = ""
	if m.surface.cycles == before {
		m.note = "states agree; empty script skipped"
	}
}

// rerun reconciles without supplying anything, which shows the empty-script
// path: the cycle commits but the surface is left untouched.
func (m *uiModel) rerun() {
	before := m.surface.cycles
	if err := m.driver.Reconcile(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.note = ""
	if m.surface.cycles == before {
		m.note = "states agree; empty script skipped"
	}
}

func (m uiModel) View() string {
	stateName := "old"
	if m.showing == 1 {
		stateName = "new"
	}

	var b strings.Builder
	b.WriteString(uiTitleStyle.Render("listkit · "+m.scenario.Name) + uiFaintStyle.Render("  showing "+stateName+" state"))
	b.WriteByte('\n')
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), " ", m.renderScript()))
	b.WriteByte('\n')
	switch {
	case m.err != nil:
		b.WriteString(uiErrorStyle.Render("error: " + m.err.Error()))
	case m.note != "":
		b.WriteString(uiFaintStyle.Render(m.note))
	default:
		b.WriteString(uiFaintStyle.Render(fmt.Sprintf("cycle %s · %d applied", m.surface.token, m.surface.cycles)))
	}
	b.WriteByte('\n')
	b.WriteString(uiFaintStyle.Render("tab: flip state · r: reconcile · q: quit"))
	b.WriteByte('\n')
	return b.String()
}

func (m uiModel) paneWidth() int {
	if m.width <= 0 {
		return 38
	}
	return max(24, (m.width-8)/2)
}

func (m uiModel) renderList() string {
	st := m.surface.display
	var b strings.Builder
	for i, key := range st.Order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(uiSectionStyle.Render(key))
		b.WriteByte('\n')
		if h, ok := st.Headers[key]; ok {
			b.WriteString(uiAccessory.Render(fmt.Sprintf("%v", h)))
			b.WriteByte('\n')
		}
		for _, content := range st.Rows[key] {
			b.WriteString(uiRowStyle.Render(fmt.Sprintf("%v", content)))
			b.WriteByte('\n')
		}
		if f, ok := st.Footers[key]; ok {
			b.WriteString(uiAccessory.Render(fmt.Sprintf("%v", f)))
			b.WriteByte('\n')
		}
	}
	body := strings.TrimRight(b.String(), "\n")
	if body == "" {
		body = uiFaintStyle.Render("(empty list)")
	}
	return uiPaneStyle.Width(m.paneWidth()).Render(body)
}

func (m uiModel) renderScript() string {
	if len(m.surface.ops) == 0 {
		return uiPaneStyle.Width(m.paneWidth()).Render(uiFaintStyle.Render("(no script yet)"))
	}
	lines := make([]string, 0, len(m.surface.ops))
	for _, op := range m.surface.ops {
		lines = append(lines, uiScriptStyle(op).Render(op.String()))
	}
	return uiPaneStyle.Width(m.paneWidth()).Render(strings.Join(lines, "\n"))
}

func uiScriptStyle(op diff.Op[string]) lipgloss.Style {
	if op.Reason.Kind == diff.ReasonMove {
		return uiMoveStyle
	}
	switch op.Kind {
	case diff.OpSectionDelete, diff.OpRowDelete:
		return uiDeleteStyle
	case diff.OpSectionInsert, diff.OpRowInsert:
		return uiInsertStyle
	case diff.OpSectionMove:
		return uiMoveStyle
	default:
		return uiRefreshStyle
	}
}
