package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/router"
	"github.com/desertthunder/marquee/internal/services"
)

const (
	loginFailed   = "Something went wrong."
	loginRequired = "Email and password are required."
)

const (
	authEmail = iota
	authPassword
)

// AuthController owns the login form.
type AuthController struct {
	mount
	opts *Options
	keys keyMap
	form form

	busy bool
	err  string
}

func newAuthController(opts *Options, keys keyMap) *AuthController {
	return &AuthController{
		mount: newMount(),
		opts:  opts,
		keys:  keys,
		form:  newForm(textField("Email", "", "admin@bioskop.test"), passwordField("Password")),
	}
}

func (c *AuthController) Init() tea.Cmd { return c.form.setFocus(authEmail) }

func (c *AuthController) Capturing() bool { return true }

func (c *AuthController) Help() []key.Binding {
	return []key.Binding{c.keys.next, c.keys.enter, c.keys.back}
}

// Submit sends the credentials unless a login is already in flight.
func (c *AuthController) Submit() tea.Cmd {
	if c.busy {
		return nil
	}

	email := strings.TrimSpace(c.form.Value(authEmail))
	password := c.form.Value(authPassword)
	if email == "" || password == "" {
		c.err = loginRequired
		return nil
	}

	c.busy = true
	c.err = ""
	msg := c.issue(MsgLoggedIn)
	api, ctx := c.opts.API, c.opts.Context

	return func() tea.Msg {
		sess, err := api.Login(ctx, email, password)
		return msg.with(loginResult{session: sess, err: err})
	}
}

func (c *AuthController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case Msg:
		if msg.kind != MsgLoggedIn || !c.latest(msg) {
			return nil
		}
		res := msg.data.(loginResult)
		c.busy = false
		if res.err != nil {
			c.opts.Logger.Info("login failed", "error", res.err)
			c.err = services.Message(res.err, loginFailed)
			return nil
		}
		if err := c.opts.Store.Set(*res.session); err != nil {
			c.opts.Logger.Error("failed to persist session", "error", err)
			c.err = loginFailed
			return nil
		}
		c.opts.Logger.Info("signed in", "email", res.session.User.Email, "role", res.session.User.Role)
		return navigate(router.HomePath)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, c.keys.back):
			return navigate(router.HomePath)
		case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
			return c.form.Next()
		case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
			return c.form.Prev()
		case msg.Type == tea.KeyEnter:
			if !c.form.Last() {
				return c.form.Next()
			}
			return c.Submit()
		}
		return c.form.Update(msg)
	}
	return c.form.Update(msg)
}

func (c *AuthController) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Login"))
	b.WriteByte('\n')
	b.WriteString(c.form.View())

	if c.err != "" {
		b.WriteString(styles.err.Render(c.err))
		b.WriteString("\n\n")
	}

	if c.busy {
		b.WriteString(styles.muted.Render("Processing..."))
	} else {
		b.WriteString(styles.ok.Render("[enter] Login"))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.help.Render("Registration is not available yet."))
	return b.String()
}
