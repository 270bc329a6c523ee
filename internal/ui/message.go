package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

// MsgKind enumerates the request/response messages exchanged with controllers.
type MsgKind int

// Msg represents all controller messages in the TUI (Elm-style message union).
//
// Every Msg carries the mount id of the controller that issued it and the sequence
// number of the request, so late responses can be discarded.
type Msg struct {
	kind  MsgKind
	mount string
	seq   int
	data  any
}

var (
	_ tea.Msg = Msg{}
	_ tea.Msg = navigateMsg{}
)

const (
	MsgMoviesFetched MsgKind = iota
	MsgMovieFetched
	MsgLoggedIn
	MsgAdminData
	MsgMovieSaved
	MsgScheduleSaved
	MsgPosterOpened
)

// navigateMsg asks the shell to resolve and mount a new path.
type navigateMsg struct {
	path string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

type moviesResult struct {
	movies []models.Movie
	err    error
}

type movieResult struct {
	movie *models.Movie
	err   error
}

type loginResult struct {
	session *models.Session
	err     error
}

type adminData struct {
	movies    []models.Movie
	schedules []models.Schedule
	err       error
}

type saveResult struct {
	edit bool
	err  error
}

// mount identifies one mounted controller and tracks its latest request per kind.
type mount struct {
	id   string
	seqs map[MsgKind]int
}

func newMount() mount {
	return mount{id: shared.GenerateID(), seqs: map[MsgKind]int{}}
}

// MountID returns the controller's mount id.
func (m *mount) MountID() string { return m.id }

// issue starts a new request of kind and returns the message it will resolve with.
//
// Any earlier request of the same kind becomes stale.
func (m *mount) issue(kind MsgKind) Msg {
	m.seqs[kind]++
	return Msg{kind: kind, mount: m.id, seq: m.seqs[kind]}
}

// latest reports whether msg answers this mount's most recent request of its kind.
func (m *mount) latest(msg Msg) bool {
	return msg.mount == m.id && m.seqs[msg.kind] == msg.seq
}

// with returns a copy of msg carrying data.
func (msg Msg) with(data any) Msg {
	msg.data = data
	return msg
}
