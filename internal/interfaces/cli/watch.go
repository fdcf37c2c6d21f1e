package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"modelstash.io/cli/internal/core/domain"
)

// newWatchCommand creates the watch subcommand
func newWatchCommand(container *Container) *cobra.Command {
	var refreshRate time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the current session",
		Long: `Watch the session state in a live terminal view. Useful while another
stash process is running: token rotations from transparent refreshes show up
as they land in the credential store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newWatchModel(container, refreshRate)

			program := tea.NewProgram(model)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("watch failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&refreshRate, "refresh", time.Second, "Refresh rate for live updates")

	return cmd
}

var (
	watchTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			Padding(0, 1)

	watchLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	watchValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	watchHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// watchTickMsg drives periodic session re-reads.
type watchTickMsg time.Time

// watchModel holds the state for the session watch view.
type watchModel struct {
	container   *Container
	refreshRate time.Duration

	accessToken  string
	refreshToken string
	rotations    int
	lastRotation time.Time
	readErr      error
}

func newWatchModel(container *Container, refreshRate time.Duration) *watchModel {
	m := &watchModel{
		container:   container,
		refreshRate: refreshRate,
	}
	m.readSession()
	m.rotations = 0
	return m
}

func (m *watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case watchTickMsg:
		previous := m.accessToken
		m.readSession()
		if m.accessToken != previous && previous != "" && m.accessToken != "" {
			m.rotations++
			m.lastRotation = time.Time(msg)
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *watchModel) View() string {
	s := watchTitleStyle.Render("Modelstash Session") + "\n\n"

	row := func(label, value string) string {
		return watchLabelStyle.Render(label) + watchValueStyle.Render(value) + "\n"
	}

	s += row("Endpoint", m.container.Config.APIEndpoint)

	if m.readErr != nil {
		s += row("Session", "error: "+m.readErr.Error())
	} else if m.accessToken == "" {
		s += row("Session", "not signed in")
	} else {
		s += row("Session", "active")
		s += row("Access", domain.MaskToken(m.accessToken))
		s += row("Refresh", domain.MaskToken(m.refreshToken))
		s += row("Rotations", fmt.Sprintf("%d", m.rotations))
		if !m.lastRotation.IsZero() {
			s += row("Last rotated", m.lastRotation.Format(time.Kitchen))
		}
	}

	s += watchHelpStyle.Render("q to quit")
	return s
}

func (m *watchModel) readSession() {
	access, err := m.container.Store.AccessToken()
	if err != nil {
		m.readErr = err
		return
	}
	refresh, err := m.container.Store.RefreshToken()
	if err != nil {
		m.readErr = err
		return
	}
	m.readErr = nil
	m.accessToken = access
	m.refreshToken = refresh
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}
