package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

var (
	_ list.Item = movieItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("%d min", i.movie.Duration)
	if i.movie.PosterURL != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.PosterURL)
	}
	return desc
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

// newMovieList builds the admin movie list with the shell's keys taking precedence.
func newMovieList(movies []models.Movie, width, height int) list.Model {
	l := list.New(movieItems(movies), list.NewDefaultDelegate(), width, height)
	l.Title = "Movies"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

// scheduleLine renders one schedule row: movie title, date, time and price.
func scheduleLine(s models.Schedule, titles map[int]string, opts *Options) string {
	title, ok := titles[s.MovieID]
	if !ok {
		title = fmt.Sprintf("movie #%d", s.MovieID)
	}
	return fmt.Sprintf("%-24s %s %s  %s",
		title,
		s.ShowTime.In(opts.location()).Format("2006-01-02"),
		shared.FormatShowTime(s.ShowTime, opts.location()),
		shared.FormatPrice(s.Price),
	)
}
