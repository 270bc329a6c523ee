package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	adminFetchFailed    = "Failed to fetch data from the server."
	movieSaveFailed     = "A server error occurred."
	scheduleSaveFailed  = "Failed to add schedule."
	movieCreatedMessage = "New movie added!"
	movieUpdatedMessage = "Movie updated!"
	scheduleCreatedMsg  = "New schedule added!"
)

// FormMode is the admin form sub-state.
type FormMode int

const (
	FormClosed FormMode = iota
	FormMovieCreate
	FormMovieEdit
	FormScheduleCreate
)

const (
	movieTitle = iota
	movieDuration
	moviePoster
	movieSynopsis
)

const (
	scheduleMovie = iota
	scheduleShowTime
	schedulePrice
)

// AdminController manages the movie and schedule catalog.
//
// At most one form is open at a time; every successful write refetches both lists.
type AdminController struct {
	mount
	opts    *Options
	keys    keyMap
	spinner spinner.Model
	list    list.Model

	loading   bool
	busy      bool
	err       string
	message   string
	movies    []models.Movie
	schedules []models.Schedule

	mode    FormMode
	editing models.MovieDraft // set in FormMovieEdit; carries the movie id
	form    form
}

func newAdminController(opts *Options, keys keyMap) *AdminController {
	return &AdminController{
		mount:   newMount(),
		opts:    opts,
		keys:    keys,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		list:    newMovieList(nil, 60, 12),
		loading: true,
	}
}

func (c *AdminController) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, c.Refetch())
}

// Refetch reloads movies and schedules concurrently.
func (c *AdminController) Refetch() tea.Cmd {
	c.loading = true
	msg := c.issue(MsgAdminData)
	api, ctx := c.opts.API, c.opts.Context

	return func() tea.Msg {
		var data adminData
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			movies, err := api.ListMovies(gctx)
			data.movies = movies
			return err
		})
		g.Go(func() error {
			schedules, err := api.ListSchedules(gctx)
			data.schedules = schedules
			return err
		})
		data.err = g.Wait()
		return msg.with(data)
	}
}

// Mode returns the current form state.
func (c *AdminController) Mode() FormMode { return c.mode }

// OpenMovieCreate opens the movie form with an empty draft.
func (c *AdminController) OpenMovieCreate() tea.Cmd {
	return c.openMovie(FormMovieCreate, models.MovieDraft{})
}

// OpenMovieEdit opens the movie form pre-filled from movie.
func (c *AdminController) OpenMovieEdit(movie models.Movie) tea.Cmd {
	return c.openMovie(FormMovieEdit, models.MovieDraftFrom(movie))
}

func (c *AdminController) openMovie(mode FormMode, draft models.MovieDraft) tea.Cmd {
	c.message = ""
	c.err = ""
	c.mode = mode
	c.editing = draft
	c.form = newForm(
		textField("Title", draft.Title, ""),
		textField("Duration (minutes)", draft.Duration, "120"),
		textField("Poster URL", draft.PosterURL, "https://"),
		areaField("Synopsis", draft.Synopsis, ""),
	)
	return c.form.setFocus(movieTitle)
}

// OpenScheduleCreate opens the schedule form; the movie picker starts empty.
func (c *AdminController) OpenScheduleCreate() tea.Cmd {
	c.message = ""
	c.err = ""
	c.mode = FormScheduleCreate
	c.editing = models.MovieDraft{}

	options := make([]option, len(c.movies))
	for i, m := range c.movies {
		options[i] = option{label: m.Title, value: strconv.Itoa(m.ID)}
	}
	c.form = newForm(
		pickerField("Movie", "-- Choose a movie --", options),
		textField("Show time", "", models.LocalDateTimeLayout),
		textField("Ticket price", "", "50000"),
	)
	return c.form.setFocus(scheduleMovie)
}

// Close discards the open form and its draft. A save still in flight no longer affects the view.
func (c *AdminController) Close() {
	if c.busy {
		c.issue(MsgMovieSaved)
		c.issue(MsgScheduleSaved)
		c.busy = false
	}
	c.message = ""
	c.mode = FormClosed
	c.editing = models.MovieDraft{}
	c.form = form{}
}

// MovieDraft returns the movie form's current input.
func (c *AdminController) MovieDraft() models.MovieDraft {
	return models.MovieDraft{
		ID:        c.editing.ID,
		Title:     c.form.Value(movieTitle),
		Duration:  c.form.Value(movieDuration),
		PosterURL: c.form.Value(moviePoster),
		Synopsis:  c.form.Value(movieSynopsis),
	}
}

// ScheduleDraft returns the schedule form's current input.
func (c *AdminController) ScheduleDraft() models.ScheduleDraft {
	return models.ScheduleDraft{
		MovieID:  c.form.Value(scheduleMovie),
		ShowTime: c.form.Value(scheduleShowTime),
		Price:    c.form.Value(schedulePrice),
	}
}

// Submit sends the open form. The form stays open until the write succeeds.
func (c *AdminController) Submit() tea.Cmd {
	if c.busy || c.mode == FormClosed {
		return nil
	}

	c.busy = true
	c.message = ""
	c.err = ""

	token := c.opts.Store.Token()
	api, ctx := c.opts.API, c.opts.Context

	switch c.mode {
	case FormMovieCreate, FormMovieEdit:
		draft := c.MovieDraft()
		payload, err := draft.Payload()
		if err != nil {
			c.busy = false
			c.err = inputMessage(err)
			return nil
		}

		edit, id := draft.IsEdit(), draft.ID
		msg := c.issue(MsgMovieSaved)
		return func() tea.Msg {
			var err error
			if edit {
				_, err = api.UpdateMovie(ctx, token, id, payload)
			} else {
				_, err = api.CreateMovie(ctx, token, payload)
			}
			return msg.with(saveResult{edit: edit, err: err})
		}
	default:
		payload, err := c.ScheduleDraft().Payload(c.opts.location())
		if err != nil {
			c.busy = false
			c.err = inputMessage(err)
			return nil
		}

		msg := c.issue(MsgScheduleSaved)
		return func() tea.Msg {
			_, err := api.CreateSchedule(ctx, token, payload)
			return msg.with(saveResult{err: err})
		}
	}
}

// inputMessage strips the invalid-input prefix from a draft validation error.
func inputMessage(err error) string {
	return strings.TrimPrefix(err.Error(), shared.ErrInvalidInput.Error()+": ")
}

func (c *AdminController) Capturing() bool { return c.mode != FormClosed }

func (c *AdminController) Help() []key.Binding {
	if c.mode != FormClosed {
		return []key.Binding{c.keys.next, c.keys.submit, c.keys.back}
	}
	return []key.Binding{c.keys.up, c.keys.down, c.keys.newMovie, c.keys.edit, c.keys.schedule, c.keys.reload}
}

func (c *AdminController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.list.SetSize(max(msg.Width-4, 20), max(msg.Height/2, 6))
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
		return c.handleResult(msg)
	case tea.KeyMsg:
		if c.mode != FormClosed {
			return c.handleFormKey(msg)
		}
		return c.handleListKey(msg)
	}

	if c.mode != FormClosed {
		return c.form.Update(msg)
	}
	return nil
}

func (c *AdminController) handleResult(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgAdminData:
		data := msg.data.(adminData)
		c.loading = false
		if data.err != nil {
			c.opts.Logger.Warn("failed to fetch admin data", "error", data.err)
			c.err = services.Message(data.err, adminFetchFailed)
			return nil
		}
		c.movies = data.movies
		c.schedules = data.schedules
		c.list.SetItems(movieItems(c.movies))
	case MsgMovieSaved, MsgScheduleSaved:
		res := msg.data.(saveResult)
		c.busy = false
		if res.err != nil {
			fallback := movieSaveFailed
			if msg.kind == MsgScheduleSaved {
				fallback = scheduleSaveFailed
			}
			c.opts.Logger.Warn("admin write failed", "error", res.err)
			c.err = services.Message(res.err, fallback)
			return nil
		}

		switch {
		case msg.kind == MsgScheduleSaved:
			c.Close()
			c.message = scheduleCreatedMsg
		case res.edit:
			c.Close()
			c.message = movieUpdatedMessage
		default:
			c.Close()
			c.message = movieCreatedMessage
		}
		return c.Refetch()
	}
	return nil
}

func (c *AdminController) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.back):
		c.Close()
		return nil
	case key.Matches(msg, c.keys.submit):
		return c.Submit()
	case c.form.FocusedMultiline() && (msg.Type == tea.KeyEnter || msg.Type == tea.KeyUp || msg.Type == tea.KeyDown):
		return c.form.Update(msg)
	case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
		return c.form.Next()
	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		return c.form.Prev()
	case msg.Type == tea.KeyEnter:
		if c.form.Last() {
			return c.Submit()
		}
		return c.form.Next()
	case c.form.FocusedPicker() && (msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight):
		delta := 1
		if msg.Type == tea.KeyLeft {
			delta = -1
		}
		c.form.Cycle(delta)
		return nil
	}
	return c.form.Update(msg)
}

func (c *AdminController) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.newMovie):
		return c.OpenMovieCreate()
	case key.Matches(msg, c.keys.schedule):
		return c.OpenScheduleCreate()
	case key.Matches(msg, c.keys.edit):
		if item, ok := c.list.SelectedItem().(movieItem); ok {
			return c.OpenMovieEdit(item.movie)
		}
		return nil
	case key.Matches(msg, c.keys.reload):
		c.message = ""
		c.err = ""
		return c.Refetch()
	}

	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return cmd
}

func (c *AdminController) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Admin Panel"))
	b.WriteByte('\n')
	if sess := c.opts.Store.Current(); sess != nil {
		b.WriteString(styles.muted.Render(fmt.Sprintf("Welcome, %s.", sess.User.Email)))
		b.WriteString("\n\n")
	}

	if c.message != "" {
		b.WriteString(styles.ok.Render(c.message))
		b.WriteString("\n\n")
	}
	if c.err != "" {
		b.WriteString(styles.err.Render(c.err))
		b.WriteString("\n\n")
	}

	if c.mode != FormClosed {
		b.WriteString(c.formView())
		return b.String()
	}

	if c.loading {
		b.WriteString(c.spinner.View() + " Loading...")
		return b.String()
	}

	b.WriteString(c.list.View())
	b.WriteString("\n\n")
	b.WriteString(styles.brand.Render(fmt.Sprintf("Schedules (%d)", len(c.schedules))))
	b.WriteByte('\n')

	titles := make(map[int]string, len(c.movies))
	for _, m := range c.movies {
		titles[m.ID] = m.Title
	}
	for _, s := range c.schedules {
		b.WriteString(scheduleLine(s, titles, c.opts))
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *AdminController) formView() string {
	var title, action string
	switch c.mode {
	case FormMovieCreate:
		title, action = "Add New Movie", "Save Movie"
	case FormMovieEdit:
		title, action = "Edit Movie", "Save Movie"
	default:
		title, action = "Add New Schedule", "Save Schedule"
	}
	if c.busy {
		action = "Saving..."
	}

	return styles.brand.Render(title) + "\n\n" + c.form.View() + styles.ok.Render("[ctrl+s] "+action)
}
