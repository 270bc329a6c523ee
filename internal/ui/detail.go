package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/router"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
)

const (
	detailFetchFailed  = "Failed to fetch movie details."
	synopsisMissing    = "Synopsis not available yet."
	schedulesMissing   = "No schedules available yet."
	posterOpenFailed   = "Could not open the poster."
	detailScheduleHead = "Choose a showtime for today:"
)

// openPoster is swapped out in tests.
var openPoster = shared.OpenBrowser

// DetailController shows one movie and lets the user pick a schedule.
//
// The selected schedule is local state only.
type DetailController struct {
	mount
	opts    *Options
	keys    keyMap
	spinner spinner.Model

	movieID  int
	loading  bool
	err      string
	notice   string
	movie    *models.Movie
	cursor   int
	selected int // schedule id; zero when nothing is selected
}

func newDetailController(opts *Options, keys keyMap, movieID int) *DetailController {
	return &DetailController{
		mount:   newMount(),
		opts:    opts,
		keys:    keys,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		movieID: movieID,
		loading: true,
	}
}

func (c *DetailController) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, c.Load(c.movieID))
}

// Load fetches movie id, superseding any fetch still in flight.
func (c *DetailController) Load(id int) tea.Cmd {
	c.movieID = id
	c.loading = true
	c.err = ""
	c.notice = ""
	c.movie = nil
	c.cursor = 0
	c.selected = 0

	msg := c.issue(MsgMovieFetched)
	api, ctx := c.opts.API, c.opts.Context

	return func() tea.Msg {
		movie, err := api.GetMovie(ctx, id)
		return msg.with(movieResult{movie: movie, err: err})
	}
}

// MovieID returns the id of the movie being shown.
func (c *DetailController) MovieID() int { return c.movieID }

// Selected returns the selected schedule, if any.
func (c *DetailController) Selected() (models.Schedule, bool) {
	if c.movie == nil {
		return models.Schedule{}, false
	}
	for _, s := range c.movie.Schedules {
		if s.ID == c.selected {
			return s, true
		}
	}
	return models.Schedule{}, false
}

func (c *DetailController) Capturing() bool { return false }

func (c *DetailController) Help() []key.Binding {
	return []key.Binding{c.keys.left, c.keys.right, c.keys.enter, c.keys.poster, c.keys.back}
}

func (c *DetailController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !c.loading {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd
	case Msg:
		if !c.latest(msg) {
			return nil
		}
		switch msg.kind {
		case MsgMovieFetched:
			res := msg.data.(movieResult)
			c.loading = false
			if res.err != nil {
				c.opts.Logger.Warn("failed to fetch movie", "id", c.movieID, "error", res.err)
				c.err = services.Message(res.err, detailFetchFailed)
				return nil
			}
			c.movie = res.movie
		case MsgPosterOpened:
			if err, _ := msg.data.(error); err != nil {
				c.opts.Logger.Warn("failed to open poster", "error", err)
				c.notice = posterOpenFailed
			}
		}
	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return nil
}

func (c *DetailController) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, c.keys.back) {
		return navigate(router.HomePath)
	}
	if c.movie == nil {
		return nil
	}

	n := len(c.movie.Schedules)
	switch {
	case key.Matches(msg, c.keys.left):
		if n > 0 {
			c.cursor = max(c.cursor-1, 0)
		}
	case key.Matches(msg, c.keys.right):
		if n > 0 {
			c.cursor = min(c.cursor+1, n-1)
		}
	case key.Matches(msg, c.keys.enter):
		if n > 0 {
			c.selected = c.movie.Schedules[c.cursor].ID
		}
	case key.Matches(msg, c.keys.poster):
		c.notice = ""
		url := shared.PosterURL(c.movie.PosterURL, c.movie.Title)
		out := c.issue(MsgPosterOpened)
		return func() tea.Msg { return out.with(openPoster(url)) }
	}
	return nil
}

func (c *DetailController) View() string {
	if c.loading {
		return c.spinner.View() + " Loading details..."
	}
	if c.err != "" {
		return styles.err.Render("Error: " + c.err)
	}
	if c.movie == nil {
		return styles.title.Render("Movie not found.")
	}

	m := c.movie
	var b strings.Builder
	b.WriteString(styles.title.Render(m.Title))
	b.WriteByte('\n')
	b.WriteString(styles.muted.Render(fmt.Sprintf("Duration: %d minutes", m.Duration)))
	b.WriteString("\n")
	b.WriteString(styles.muted.Render("Poster: " + shared.PosterURL(m.PosterURL, m.Title)))
	b.WriteString("\n\n")

	b.WriteString(styles.brand.Render("Synopsis"))
	b.WriteByte('\n')
	synopsis := m.Synopsis
	if synopsis == "" {
		synopsis = synopsisMissing
	}
	b.WriteString(synopsis)
	b.WriteString("\n\n")

	b.WriteString(styles.brand.Render(detailScheduleHead))
	b.WriteByte('\n')
	if len(m.Schedules) == 0 {
		b.WriteString(styles.muted.Render(schedulesMissing))
	} else {
		buttons := make([]string, len(m.Schedules))
		for i, s := range m.Schedules {
			style := styles.card.Width(12)
			switch {
			case s.ID == c.selected:
				style = styles.selected.Width(12)
			case i == c.cursor:
				style = styles.focus.Width(12)
			}
			buttons[i] = style.Render(shared.FormatShowTime(s.ShowTime, c.opts.location()) + "\n" + shared.FormatPrice(s.Price))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}

	if c.notice != "" {
		b.WriteString("\n" + styles.warn.Render(c.notice))
	}
	return b.String()
}
