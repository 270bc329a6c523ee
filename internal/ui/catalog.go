package ui

import (
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

const catalogFetchFailed = "Failed to fetch movies. Make sure the backend server is running."

// CatalogController lists every movie as a card.
type CatalogController struct {
	mount
	opts    *Options
	keys    keyMap
	spinner spinner.Model
	width   int

	loading bool
	err     string
	movies  []models.Movie
	cursor  int
}

func newCatalogController(opts *Options, keys keyMap) *CatalogController {
	return &CatalogController{
		mount:   newMount(),
		opts:    opts,
		keys:    keys,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
}

func (c *CatalogController) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, c.fetch())
}

func (c *CatalogController) fetch() tea.Cmd {
	c.loading = true
	c.err = ""
	msg := c.issue(MsgMoviesFetched)
	api, ctx := c.opts.API, c.opts.Context

	return func() tea.Msg {
		movies, err := api.ListMovies(ctx)
		return msg.with(moviesResult{movies: movies, err: err})
	}
}

func (c *CatalogController) Capturing() bool { return false }

func (c *CatalogController) Help() []key.Binding {
	return []key.Binding{c.keys.left, c.keys.right, c.keys.enter}
}

func (c *CatalogController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
	case spinner.TickMsg:
		if !c.loading {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd
	case Msg:
		if msg.kind != MsgMoviesFetched || !c.latest(msg) {
			return nil
		}
		res := msg.data.(moviesResult)
		c.loading = false
		if res.err != nil {
			c.opts.Logger.Warn("failed to fetch movies", "error", res.err)
			c.err = services.Message(res.err, catalogFetchFailed)
			return nil
		}
		c.movies = res.movies
		c.cursor = 0
	case tea.KeyMsg:
		if c.loading || len(c.movies) == 0 {
			return nil
		}
		switch {
		case key.Matches(msg, c.keys.left), key.Matches(msg, c.keys.up):
			c.cursor = max(c.cursor-1, 0)
		case key.Matches(msg, c.keys.right), key.Matches(msg, c.keys.down):
			c.cursor = min(c.cursor+1, len(c.movies)-1)
		case key.Matches(msg, c.keys.enter):
			return navigate(router.MoviePath(c.movies[c.cursor].ID))
		}
	}
	return nil
}

func (c *CatalogController) View() string {
	if c.loading {
		return c.spinner.View() + " Loading movies..."
	}
	if c.err != "" {
		return styles.err.Render("Error: " + c.err)
	}
	if len(c.movies) == 0 {
		return styles.muted.Render("No movies yet.")
	}

	perRow := 3
	if c.width > 0 {
		perRow = max(c.width/(styles.card.GetWidth()+2), 1)
	}

	var rows []string
	var row []string
	for i, m := range c.movies {
		row = append(row, c.card(i, m))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	selected := c.movies[c.cursor]
	poster := styles.muted.Render("Poster: " + shared.PosterURL(selected.PosterURL, selected.Title))
	return strings.Join(rows, "\n") + "\n" + poster
}

func (c *CatalogController) card(i int, m models.Movie) string {
	style := styles.card
	if i == c.cursor {
		style = styles.focus
	}
	body := styles.brand.Render(m.Title) + "\n" + styles.muted.Render(shared.FormatMinutes(m.Duration))
	return style.Render(body)
}
