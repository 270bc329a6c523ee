package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/router"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/session"
)

const brand = "Marquee"

// Options carries the dependencies shared by the shell and its controllers.
type Options struct {
	Context  context.Context
	API      services.API
	Store    *session.Store
	Logger   *log.Logger
	Location *time.Location // show times are rendered and entered in this zone; local time when nil
	Path     string         // initial path; "/" when empty
}

func (o *Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// controller is one mounted view.
type controller interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	MountID() string
	Capturing() bool // true while a text input owns the keyboard
	Help() []key.Binding
}

var (
	_ controller = (*CatalogController)(nil)
	_ controller = (*DetailController)(nil)
	_ controller = (*AuthController)(nil)
	_ controller = (*AdminController)(nil)
	_ controller = (*pageController)(nil)
	_ tea.Model  = (*Model)(nil)
)

// Model is the shell: navbar, path prompt and the controller for the current route.
type Model struct {
	opts   *Options
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	prompting bool
	route     router.Route
	current   controller
	width     int
	height    int
}

// NewModel creates the shell. The session store is injected and read on every navigation.
func NewModel(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Path == "" {
		opts.Path = router.HomePath
	}

	prompt := textinput.New()
	prompt.Prompt = "go to: "
	prompt.Placeholder = "/movie/1"

	return &Model{
		opts:   &opts,
		keys:   newKeyMap(),
		help:   help.New(),
		prompt: prompt,
	}
}

// Init mounts the controller for the initial path.
func (m *Model) Init() tea.Cmd {
	return m.navigate(m.opts.Path)
}

// Route returns the route currently displayed.
func (m *Model) Route() router.Route { return m.route }

func (m *Model) mountFor(route router.Route) controller {
	switch route.Destination {
	case router.Catalog:
		return newCatalogController(m.opts, m.keys)
	case router.MovieDetail:
		return newDetailController(m.opts, m.keys, route.MovieID)
	case router.Login:
		return newAuthController(m.opts, m.keys)
	case router.Admin:
		return newAdminController(m.opts, m.keys)
	case router.AccessDenied:
		return newAccessDenied(m.keys)
	default:
		return newNotFound(m.keys)
	}
}

// navigate resolves path against the current session and mounts its controller.
//
// Navigating to the route already shown is a no-op; moving between movies reuses the
// detail controller so the newest fetch supersedes the old one.
func (m *Model) navigate(path string) tea.Cmd {
	route := router.Resolve(path, m.opts.Store.Current())
	if m.current != nil && route == m.route {
		return nil
	}

	m.opts.Logger.Debug("navigate", "path", route.Path, "view", route.Destination)

	if d, ok := m.current.(*DetailController); ok && route.Destination == router.MovieDetail {
		m.route = route
		return tea.Batch(d.spinner.Tick, d.Load(route.MovieID))
	}

	m.route = route
	m.current = m.mountFor(route)
	if m.width > 0 {
		m.current.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m.current.Init()
}

// Logout clears the session and re-resolves the current path.
func (m *Model) Logout() tea.Cmd {
	if err := m.opts.Store.Clear(); err != nil {
		m.opts.Logger.Error("failed to clear session", "error", err)
	}
	m.opts.Logger.Info("signed out")
	return m.navigate(m.route.Path)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.current == nil {
			return m, nil
		}
		return m, m.current.Update(msg)

	case navigateMsg:
		return m, m.navigate(msg.path)

	case Msg:
		if m.current == nil || msg.mount != m.current.MountID() {
			m.opts.Logger.Debug("dropping message for unmounted view", "kind", msg.kind, "mount", msg.mount)
			return m, nil
		}
		return m, m.current.Update(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.current == nil {
		return m, nil
	}
	return m, m.current.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.forceQ) {
		return tea.Quit
	}

	if m.prompting {
		switch msg.Type {
		case tea.KeyEnter:
			path := m.prompt.Value()
			m.closePrompt()
			return m.navigate(path)
		case tea.KeyEsc:
			m.closePrompt()
			return nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return cmd
	}

	if m.current.Capturing() {
		return m.current.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.goTo):
		m.prompting = true
		m.prompt.SetValue(m.route.Path)
		m.prompt.CursorEnd()
		return m.prompt.Focus()
	case key.Matches(msg, m.keys.home):
		return m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.admin) && m.opts.Store.IsAdmin():
		return m.navigate(router.AdminPath)
	case key.Matches(msg, m.keys.login):
		if m.opts.Store.Current() != nil {
			return m.Logout()
		}
		return m.navigate(router.LoginPath)
	}

	return m.current.Update(msg)
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.Reset()
}

func (m *Model) navbar() string {
	parts := []string{styles.brand.Render(brand)}

	sess := m.opts.Store.Current()
	if sess == nil {
		parts = append(parts, styles.muted.Render("[L] Login"))
	} else {
		if sess.IsAdmin() {
			parts = append(parts, styles.warn.Render("[a] Admin"))
		}
		parts = append(parts, fmt.Sprintf("Hello, %s!", sess.User.Email), styles.muted.Render("[L] Logout"))
	}
	return strings.Join(parts, "   ")
}

// View renders the navbar, the current controller and contextual help.
func (m *Model) View() string {
	if m.current == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.navbar())
	b.WriteString("\n\n")
	b.WriteString(m.current.View())
	b.WriteString("\n\n")

	if m.prompting {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	keys := m.current.Help()
	if !m.current.Capturing() {
		keys = append(keys, m.keys.goTo, m.keys.quit)
	}
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}
