package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// pageController renders a fixed message; it backs the access-denied and not-found views.
type pageController struct {
	mount
	title string
	body  string
	keys  keyMap
}

func newAccessDenied(keys keyMap) *pageController {
	return &pageController{
		mount: newMount(),
		title: "Access Denied",
		body:  "You must be logged in as an admin to access this page.",
		keys:  keys,
	}
}

func newNotFound(keys keyMap) *pageController {
	return &pageController{mount: newMount(), title: "404 - Page Not Found", keys: keys}
}

func (c *pageController) Init() tea.Cmd          { return nil }
func (c *pageController) Update(tea.Msg) tea.Cmd { return nil }
func (c *pageController) Capturing() bool        { return false }
func (c *pageController) Help() []key.Binding    { return []key.Binding{c.keys.home} }

func (c *pageController) View() string {
	if c.body == "" {
		return styles.title.Render(c.title)
	}
	return styles.title.Render(c.title) + "\n" + styles.muted.Render(c.body)
}
