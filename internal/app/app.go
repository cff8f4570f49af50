package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/screen"
	"github.com/abhisek/hwhelper/internal/screens/home"
	"github.com/abhisek/hwhelper/internal/ui/layout"
)

// Options configure the TUI.
type Options struct {
	home.Deps
	Grade int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	// quitAtRoot leaves the program when the root screen is popped.
	quitAtRoot bool
	width      int
	height     int
}

// newAppModel creates an AppModel on the home screen, or on start when
// it is non-nil.
func newAppModel(opts Options, start screen.Screen) AppModel {
	quitAtRoot := start != nil
	if start == nil {
		start = home.New(opts.Deps)
	}
	status := opts.Subject
	if opts.Grade > 0 {
		status = fmt.Sprintf("%s · grade %d", opts.Subject, opts.Grade)
	}
	return AppModel{
		router:     router.New(start),
		status:     status,
		quitAtRoot: quitAtRoot,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.PopScreenMsg:
		if m.quitAtRoot && m.router.Depth() == 1 {
			return m, tea.Quit
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 || m.quitAtRoot {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the TUI on the home screen.
func Run(opts Options) error {
	return run(newAppModel(opts, nil))
}

// RunScreen starts the TUI directly on s; leaving s leaves the program.
func RunScreen(opts Options, s screen.Screen) error {
	return run(newAppModel(opts, s))
}

func run(m AppModel) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
