package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	back     key.Binding
	home     key.Binding
	goTo     key.Binding
	admin    key.Binding
	login    key.Binding
	logout   key.Binding
	poster   key.Binding
	newMovie key.Binding
	edit     key.Binding
	schedule key.Binding
	reload   key.Binding
	next     key.Binding
	prev     key.Binding
	submit   key.Binding
	quit     key.Binding
	forceQ   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		home:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "home")),
		goTo:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "go to path")),
		admin:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "admin")),
		login:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
		logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		poster:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "open poster")),
		newMovie: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add movie")),
		edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit movie")),
		schedule: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add schedule")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.goTo, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.enter},
		{k.back, k.home, k.goTo, k.admin, k.login},
		{k.newMovie, k.edit, k.schedule, k.reload, k.submit},
		{k.quit},
	}
}
