package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/router"
	"github.com/desertthunder/marquee/internal/server"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/session"
	"github.com/desertthunder/marquee/internal/shared"
	tu "github.com/desertthunder/marquee/internal/testing"
)

var (
	adminSession = models.Session{User: models.User{ID: 100, Email: "admin@bioskop.test", Role: models.RoleAdmin}, AccessToken: "admin-token"}
	userSession  = models.Session{User: models.User{ID: 101, Email: "user@bioskop.test", Role: "user"}, AccessToken: "user-token"}
	dune         = models.Movie{ID: 1, Title: "Dune", Duration: 155}
)

func newStore(t *testing.T, sess *models.Session) (*session.Store, *session.MemoryStorage) {
	t.Helper()

	storage := session.NewMemoryStorage()
	store := session.NewStore(storage, "", nil)
	if sess != nil {
		if err := store.Set(*sess); err != nil {
			t.Fatalf("failed to set session: %v", err)
		}
	}
	return store, storage
}

func newOptions(t *testing.T, api services.API, sess *models.Session) *Options {
	t.Helper()

	store, _ := newStore(t, sess)
	return &Options{Context: context.Background(), API: api, Store: store, Location: time.UTC}
}

func newShell(t *testing.T, api services.API, sess *models.Session, path string) *Model {
	t.Helper()

	opts := newOptions(t, api, sess)
	opts.Path = path
	return NewModel(*opts)
}

// collect runs cmd and returns the messages it produces.
//
// Batches are expanded, spinner ticks are dropped, and commands that block on a timer
// (cursor blink) are abandoned.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch msg := msg.(type) {
		case nil, spinner.TickMsg:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, collect(t, c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// settle feeds cmd's messages back into the shell until nothing is left.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := collect(t, cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			t.Fatal("update loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		_, next := m.Update(msg)
		queue = append(queue, collect(t, next)...)
	}
}

// settleController does what [settle] does for a controller used on its own.
func settleController(t *testing.T, c controller, cmd tea.Cmd) {
	t.Helper()

	queue := collect(t, cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			t.Fatal("update loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		queue = append(queue, collect(t, c.Update(msg))...)
	}
}

func press(keys string) tea.KeyMsg {
	switch keys {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
}

func newTestBackend(t *testing.T) (*server.Backend, *services.Client) {
	t.Helper()

	backend := server.NewBackend(server.BackendOpts{
		Accounts: []server.Account{
			{User: adminSession.User, Password: "admin123"},
			{User: userSession.User, Password: "user123"},
		},
	})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, services.NewClient(services.ClientOpts{BaseURL: srv.URL})
}

func TestCatalog(t *testing.T) {
	t.Run("renders one card per movie", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		m := newShell(t, api, nil, "/")
		settle(t, m, m.Init())

		view := m.View()
		if got := strings.Count(view, "╭"); got != 1 {
			t.Errorf("expected exactly one card, got %d\n%s", got, view)
		}
		if !strings.Contains(view, "Dune") {
			t.Errorf("expected card titled Dune\n%s", view)
		}
		if !strings.Contains(view, "placehold.co") {
			t.Errorf("expected placeholder poster for a movie without one\n%s", view)
		}
	})

	t.Run("end to end against the backend", func(t *testing.T) {
		backend, client := newTestBackend(t)
		backend.AddMovie(dune)

		m := newShell(t, client, nil, "/")
		settle(t, m, m.Init())

		c := m.current.(*CatalogController)
		if len(c.movies) != 1 || c.movies[0].Title != "Dune" || c.movies[0].Duration != 155 {
			t.Errorf("unexpected movies %+v", c.movies)
		}
	})

	t.Run("fetch failure shows fallback message", func(t *testing.T) {
		api := tu.NewFakeAPI()
		api.SetErr("ListMovies", &services.APIError{Kind: services.KindNetwork})

		m := newShell(t, api, nil, "/")
		settle(t, m, m.Init())

		if !strings.Contains(m.View(), catalogFetchFailed) {
			t.Errorf("expected fallback error\n%s", m.View())
		}
	})

	t.Run("enter opens the selected movie", func(t *testing.T) {
		heat := models.Movie{ID: 2, Title: "Heat", Duration: 170}
		api := tu.NewFakeAPI(dune, heat)
		m := newShell(t, api, nil, "/")
		settle(t, m, m.Init())

		_, cmd := m.Update(press("right"))
		settle(t, m, cmd)
		_, cmd = m.Update(press("enter"))
		settle(t, m, cmd)

		if got := m.Route(); got.Destination != router.MovieDetail || got.MovieID != 2 {
			t.Errorf("expected movie 2 detail, got %+v", got)
		}
	})
}

func TestDetail(t *testing.T) {
	showTime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	withSchedules := models.Movie{
		ID: 1, Title: "Dune", Duration: 155,
		Schedules: []models.Schedule{
			{ID: 10, MovieID: 1, ShowTime: showTime, Price: 50000},
			{ID: 11, MovieID: 1, ShowTime: showTime.Add(3 * time.Hour), Price: 55000},
		},
	}

	t.Run("renders details", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(withSchedules), nil, "/movie/1")
		settle(t, m, m.Init())

		view := m.View()
		for _, want := range []string{"Duration: 155 minutes", synopsisMissing, "10:00", "Rp 50.000", "13:00", "Rp 55.000"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view\n%s", want, view)
			}
		}
	})

	t.Run("no schedules", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(models.Movie{ID: 1, Title: "Dune", Duration: 155, Synopsis: "Spice."}), nil, "/movie/1")
		settle(t, m, m.Init())

		view := m.View()
		if !strings.Contains(view, schedulesMissing) || !strings.Contains(view, "Spice.") {
			t.Errorf("unexpected view\n%s", view)
		}
	})

	t.Run("selecting a schedule is local", func(t *testing.T) {
		api := tu.NewFakeAPI(withSchedules)
		m := newShell(t, api, nil, "/movie/1")
		settle(t, m, m.Init())
		before := len(api.Calls())

		for _, k := range []string{"right", "enter"} {
			_, cmd := m.Update(press(k))
			settle(t, m, cmd)
		}

		selected, ok := m.current.(*DetailController).Selected()
		if !ok || selected.ID != 11 {
			t.Errorf("expected schedule 11 selected, got %+v (%v)", selected, ok)
		}
		if len(api.Calls()) != before {
			t.Errorf("selection should not call the API, got %+v", api.Calls())
		}
	})

	t.Run("missing movie", func(t *testing.T) {
		api := tu.NewFakeAPI()
		api.SetErr("GetMovie", &services.APIError{Kind: services.KindNotFound, StatusCode: 404, Message: "movie not found"})

		m := newShell(t, api, nil, "/movie/9")
		settle(t, m, m.Init())

		if !strings.Contains(m.View(), "movie not found") {
			t.Errorf("expected backend message\n%s", m.View())
		}
	})

	t.Run("poster opens placeholder", func(t *testing.T) {
		var opened string
		original := openPoster
		openPoster = func(url string) error { opened = url; return nil }
		t.Cleanup(func() { openPoster = original })

		m := newShell(t, tu.NewFakeAPI(dune), nil, "/movie/1")
		settle(t, m, m.Init())
		_, cmd := m.Update(press("p"))
		settle(t, m, cmd)

		if !strings.HasPrefix(opened, "https://placehold.co/400x600/222/fff?text=Dune") {
			t.Errorf("unexpected poster url %q", opened)
		}
	})

	t.Run("stale response is discarded", func(t *testing.T) {
		api := tu.NewFakeAPI(dune, models.Movie{ID: 2, Title: "Arrival", Duration: 116})
		m := newShell(t, api, nil, "/movie/1")

		first := collect(t, m.Init())
		if len(first) != 1 {
			t.Fatalf("expected one pending response, got %d", len(first))
		}

		_, cmd := m.Update(navigateMsg{path: "/movie/2"})
		second := collect(t, cmd)
		if len(second) != 1 {
			t.Fatalf("expected one pending response, got %d", len(second))
		}

		m.Update(second[0])
		m.Update(first[0])

		view := m.View()
		if !strings.Contains(view, "Arrival") || strings.Contains(view, "Dune") {
			t.Errorf("expected movie 2 to stay displayed\n%s", view)
		}
		if got := m.current.(*DetailController).MovieID(); got != 2 {
			t.Errorf("expected movie id 2, got %d", got)
		}
	})

	t.Run("response for unmounted view is dropped", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(dune), nil, "/")
		pending := collect(t, m.Init())

		settle(t, m, func() tea.Msg { return navigateMsg{path: "/login"} })
		for _, msg := range pending {
			m.Update(msg)
		}

		if m.Route().Destination != router.Login {
			t.Fatalf("expected login route, got %v", m.Route().Destination)
		}
		if strings.Contains(m.View(), "Dune") {
			t.Errorf("catalog response leaked into login view\n%s", m.View())
		}
	})
}

func TestAuth(t *testing.T) {
	fill := func(c *AuthController, email, password string) {
		c.form.fields[authEmail].input.SetValue(email)
		c.form.fields[authPassword].input.SetValue(password)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, client := newTestBackend(t)
		opts := newOptions(t, client, nil)
		c := newAuthController(opts, newKeyMap())

		fill(c, "admin@bioskop.test", "wrong")
		settleController(t, c, c.Submit())

		if c.err != "invalid credentials" {
			t.Errorf("expected backend message, got %q", c.err)
		}
		if !strings.Contains(c.View(), "invalid credentials") {
			t.Errorf("expected message in view\n%s", c.View())
		}
		if opts.Store.Current() != nil {
			t.Error("store must stay unset after a failed login")
		}
		if c.busy {
			t.Error("busy flag should clear")
		}
	})

	t.Run("success persists session and navigates home", func(t *testing.T) {
		_, client := newTestBackend(t)
		store, storage := newStore(t, nil)

		m := NewModel(Options{API: client, Store: store, Path: "/login"})
		settle(t, m, m.Init())

		c := m.current.(*AuthController)
		fill(c, "admin@bioskop.test", "admin123")
		for _, k := range []string{"enter", "enter"} {
			_, cmd := m.Update(press(k))
			settle(t, m, cmd)
		}

		if m.Route().Destination != router.Catalog {
			t.Errorf("expected catalog after login, got %v", m.Route().Destination)
		}
		if !strings.Contains(m.View(), "Hello, admin@bioskop.test!") {
			t.Errorf("expected greeting in navbar\n%s", m.View())
		}

		reloaded := session.NewStore(storage, "", nil).Load()
		if reloaded == nil || reloaded.User.Email != "admin@bioskop.test" || reloaded.AccessToken == "" {
			t.Errorf("expected session to survive reload, got %+v", reloaded)
		}
	})

	t.Run("required fields", func(t *testing.T) {
		api := tu.NewFakeAPI()
		c := newAuthController(newOptions(t, api, nil), newKeyMap())

		if cmd := c.Submit(); cmd != nil {
			t.Error("expected no request without credentials")
		}
		if c.err != loginRequired {
			t.Errorf("expected required message, got %q", c.err)
		}
		if len(api.Calls()) != 0 {
			t.Errorf("expected no API calls, got %+v", api.Calls())
		}
	})
}

func TestAdminGate(t *testing.T) {
	for name, sess := range map[string]*models.Session{"signed out": nil, "user role": &userSession} {
		t.Run(name, func(t *testing.T) {
			api := tu.NewFakeAPI(dune)
			m := newShell(t, api, sess, "/admin")
			settle(t, m, m.Init())

			if m.Route().Destination != router.AccessDenied {
				t.Errorf("expected access denied, got %v", m.Route().Destination)
			}
			if !strings.Contains(m.View(), "Access Denied") {
				t.Errorf("expected access denied view\n%s", m.View())
			}
			if calls := api.Calls(); len(calls) != 0 {
				t.Errorf("expected no API calls, got %+v", calls)
			}
			if strings.Contains(m.View(), "[a] Admin") {
				t.Error("admin entry must be hidden")
			}
		})
	}

	t.Run("admin role", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		m := newShell(t, api, &adminSession, "/admin")
		settle(t, m, m.Init())

		if m.Route().Destination != router.Admin {
			t.Fatalf("expected admin, got %v", m.Route().Destination)
		}
		if len(api.Calls("ListMovies")) != 1 || len(api.Calls("ListSchedules")) != 1 {
			t.Errorf("expected one concurrent refetch, got %+v", api.Calls())
		}
		if !strings.Contains(m.View(), "[a] Admin") {
			t.Error("admin entry should be shown")
		}
	})

	t.Run("logout re-resolves the current path", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(dune), &adminSession, "/admin")
		settle(t, m, m.Init())

		_, cmd := m.Update(press("L"))
		settle(t, m, cmd)

		if m.Route().Destination != router.AccessDenied {
			t.Errorf("expected access denied after logout, got %v", m.Route().Destination)
		}
		if !strings.Contains(m.View(), "[L] Login") {
			t.Errorf("expected login entry\n%s", m.View())
		}
	})
}

func TestAdminForms(t *testing.T) {
	newAdmin := func(t *testing.T, api *tu.FakeAPI) *AdminController {
		t.Helper()
		c := newAdminController(newOptions(t, api, &adminSession), newKeyMap())
		settleController(t, c, c.Refetch())
		return c
	}

	t.Run("create then cancel makes no call", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		c := newAdmin(t, api)

		c.OpenMovieCreate()
		c.form.fields[movieTitle].input.SetValue("Arrival")
		c.Update(press("esc"))

		if c.Mode() != FormClosed {
			t.Errorf("expected closed form, got %v", c.Mode())
		}
		if d := c.MovieDraft(); d != (models.MovieDraft{}) {
			t.Errorf("expected discarded draft, got %+v", d)
		}
		if calls := api.Calls("CreateMovie", "UpdateMovie", "CreateSchedule"); len(calls) != 0 {
			t.Errorf("expected no writes, got %+v", calls)
		}
	})

	t.Run("unmodified edit sends the movie's fields", func(t *testing.T) {
		movie := models.Movie{ID: 7, Title: "Dune", Duration: 155, Synopsis: "Spice.", PosterURL: "https://img.test/dune.jpg"}
		api := tu.NewFakeAPI(movie)
		c := newAdmin(t, api)

		c.OpenMovieEdit(movie)
		settleController(t, c, c.Submit())

		calls := api.Calls("UpdateMovie")
		if len(calls) != 1 {
			t.Fatalf("expected one update, got %+v", api.Calls())
		}
		want := models.MoviePayload{Title: movie.Title, Duration: movie.Duration, Synopsis: movie.Synopsis, PosterURL: movie.PosterURL}
		if calls[0].Payload != want || calls[0].ID != 7 || calls[0].Token != "admin-token" {
			t.Errorf("unexpected update call %+v", calls[0])
		}
		if c.Mode() != FormClosed || c.message != movieUpdatedMessage {
			t.Errorf("expected closed form with success message, got %v %q", c.Mode(), c.message)
		}
	})

	t.Run("unmodified edit keeps newlines and tabs", func(t *testing.T) {
		movie := models.Movie{ID: 8, Title: "Perfect Days", Duration: 124, Synopsis: "Line one.\nLine two.\tTabbed."}
		api := tu.NewFakeAPI(movie)
		c := newAdmin(t, api)

		c.OpenMovieEdit(movie)
		settleController(t, c, c.Submit())

		calls := api.Calls("UpdateMovie")
		if len(calls) != 1 {
			t.Fatalf("expected one update, got %+v", api.Calls())
		}
		if got := calls[0].Payload.(models.MoviePayload).Synopsis; got != movie.Synopsis {
			t.Errorf("synopsis changed: sent %q, want %q", got, movie.Synopsis)
		}
	})

	t.Run("enter in the synopsis inserts a newline", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		c := newAdmin(t, api)

		c.OpenMovieCreate()
		c.form.fields[movieTitle].input.SetValue("Arrival")
		c.form.fields[movieDuration].input.SetValue("116")
		c.form.setFocus(movieSynopsis)
		c.Update(press("a"))
		c.Update(press("enter"))
		c.Update(press("b"))

		if c.Mode() != FormMovieCreate || len(api.Calls("CreateMovie")) != 0 {
			t.Fatalf("enter should not submit from the synopsis, mode=%v calls=%+v", c.Mode(), api.Calls())
		}

		settleController(t, c, c.Submit())
		calls := api.Calls("CreateMovie")
		if len(calls) != 1 {
			t.Fatalf("expected one create, got %+v", api.Calls())
		}
		if got := calls[0].Payload.(models.MoviePayload).Synopsis; got != "a\nb" {
			t.Errorf("expected multi-line synopsis, got %q", got)
		}
	})

	t.Run("closing a form drops its pending save", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		c := newAdmin(t, api)

		c.OpenMovieCreate()
		c.form.fields[movieTitle].input.SetValue("Arrival")
		c.form.fields[movieDuration].input.SetValue("116")
		pending := c.Submit()
		if pending == nil {
			t.Fatal("expected a save request")
		}

		c.Update(press("esc"))
		c.OpenScheduleCreate()
		c.form.Cycle(1)
		c.form.fields[scheduleShowTime].input.SetValue("2024-01-01T10:00")
		c.form.fields[schedulePrice].input.SetValue("50000")

		settleController(t, c, pending)

		if c.Mode() != FormScheduleCreate {
			t.Fatalf("schedule form should stay open, got %v", c.Mode())
		}
		if d := c.ScheduleDraft(); d.Price != "50000" || d.MovieID != "1" {
			t.Errorf("schedule draft should be kept, got %+v", d)
		}
		if c.message != "" {
			t.Errorf("closed form's save should not report, got %q", c.message)
		}

		settleController(t, c, c.Submit())
		if len(api.Calls("CreateSchedule")) != 1 {
			t.Errorf("expected the schedule to be sent, got %+v", api.Calls())
		}
		if c.Mode() != FormClosed || c.message != scheduleCreatedMsg {
			t.Errorf("expected closed form with success message, got %v %q", c.Mode(), c.message)
		}
	})

	t.Run("opening one form closes the other", func(t *testing.T) {
		c := newAdmin(t, tu.NewFakeAPI(dune))

		c.OpenMovieCreate()
		c.OpenScheduleCreate()
		if c.Mode() != FormScheduleCreate {
			t.Errorf("expected schedule form, got %v", c.Mode())
		}
		if c.MovieDraft().Title != "" {
			t.Error("movie draft should be gone")
		}
	})

	t.Run("failed write keeps the draft", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		api.SetErr("CreateMovie", &services.APIError{Kind: services.KindValidation, StatusCode: 400, Message: "duration too long"})
		c := newAdmin(t, api)

		c.OpenMovieCreate()
		c.form.fields[movieTitle].input.SetValue("Arrival")
		c.form.fields[movieDuration].input.SetValue("116")
		settleController(t, c, c.Submit())

		if c.Mode() != FormMovieCreate {
			t.Errorf("form should stay open, got %v", c.Mode())
		}
		if c.err != "duration too long" || c.busy {
			t.Errorf("unexpected state err=%q busy=%v", c.err, c.busy)
		}
		if d := c.MovieDraft(); d.Title != "Arrival" || d.Duration != "116" {
			t.Errorf("draft should be preserved, got %+v", d)
		}
	})

	t.Run("generic message when backend gives none", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		api.SetErr("CreateSchedule", &services.APIError{Kind: services.KindServer, StatusCode: 500})
		c := newAdmin(t, api)

		c.OpenScheduleCreate()
		c.form.Cycle(1)
		c.form.fields[scheduleShowTime].input.SetValue("2024-01-01T10:00")
		c.form.fields[schedulePrice].input.SetValue("50000")
		settleController(t, c, c.Submit())

		if c.err != scheduleSaveFailed {
			t.Errorf("expected fallback message, got %q", c.err)
		}
	})

	t.Run("required fields are checked before sending", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		c := newAdmin(t, api)

		c.OpenMovieCreate()
		if cmd := c.Submit(); cmd != nil {
			t.Error("expected no request for an empty title")
		}
		if c.err != "title is required" {
			t.Errorf("unexpected error %q", c.err)
		}
		if len(api.Calls("CreateMovie")) != 0 {
			t.Error("expected no create call")
		}
	})

	t.Run("success message clears on next action", func(t *testing.T) {
		c := newAdmin(t, tu.NewFakeAPI(dune))

		c.OpenMovieEdit(dune)
		settleController(t, c, c.Submit())
		if c.message == "" {
			t.Fatal("expected success message")
		}

		c.OpenMovieCreate()
		if c.message != "" {
			t.Errorf("expected message to clear, got %q", c.message)
		}
	})

	t.Run("schedule creation refetches and closes the form", func(t *testing.T) {
		backend, client := newTestBackend(t)
		backend.AddMovie(dune)

		sess, err := client.Login(context.Background(), "admin@bioskop.test", "admin123")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		m := newShell(t, client, sess, "/admin")
		settle(t, m, m.Init())
		c := m.current.(*AdminController)

		_, cmd := m.Update(press("s"))
		settle(t, m, cmd)
		for _, k := range []string{"right", "tab"} {
			_, cmd = m.Update(press(k))
			settle(t, m, cmd)
		}
		c.form.fields[scheduleShowTime].input.SetValue("2024-01-01T10:00:00Z")
		c.form.fields[schedulePrice].input.SetValue("50000")

		if d := c.ScheduleDraft(); d.MovieID != "1" {
			t.Fatalf("expected movie 1 picked, got %+v", d)
		}

		_, cmd = m.Update(press("ctrl+s"))
		settle(t, m, cmd)

		if c.Mode() != FormClosed {
			t.Errorf("expected form to close, got %v", c.Mode())
		}
		if c.message != scheduleCreatedMsg {
			t.Errorf("expected success message, got %q", c.message)
		}

		want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		found := false
		for _, s := range c.schedules {
			if s.MovieID == 1 && s.Price == 50000 && s.ShowTime.Equal(want) {
				found = true
			}
		}
		if !found {
			t.Errorf("refetched schedules should include the new entry, got %+v", c.schedules)
		}
	})
}

func TestInputMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"strips the invalid input prefix", fmt.Errorf("%w: title is required", shared.ErrInvalidInput), "title is required"},
		{"keeps separators inside the message", fmt.Errorf("%w: price: must be a number", shared.ErrInvalidInput), "price: must be a number"},
		{"leaves other errors whole", errors.New("backend: down"), "backend: down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inputMessage(tt.err); got != tt.want {
				t.Errorf("inputMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShell(t *testing.T) {
	t.Run("path prompt navigates", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(dune), nil, "/")
		settle(t, m, m.Init())

		for _, k := range []string{"/", "login", "enter"} {
			_, cmd := m.Update(press(k))
			settle(t, m, cmd)
		}

		if m.Route().Destination != router.Login {
			t.Errorf("expected login, got %+v", m.Route())
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(), nil, "/movie/dune")
		settle(t, m, m.Init())

		if !strings.Contains(m.View(), "404 - Page Not Found") {
			t.Errorf("expected not found view\n%s", m.View())
		}
	})

	t.Run("same route keeps the mounted view", func(t *testing.T) {
		api := tu.NewFakeAPI(dune)
		m := newShell(t, api, nil, "/")
		settle(t, m, m.Init())

		before := m.current.MountID()
		settle(t, m, func() tea.Msg { return navigateMsg{path: "/"} })
		if m.current.MountID() != before {
			t.Error("expected catalog to stay mounted")
		}
		if got := len(api.Calls("ListMovies")); got != 1 {
			t.Errorf("expected a single fetch, got %d", got)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newShell(t, tu.NewFakeAPI(), nil, "/")
		settle(t, m, m.Init())

		_, cmd := m.Update(press("q"))
		msgs := collect(t, cmd)
		if len(msgs) != 1 {
			t.Fatalf("expected quit message, got %v", msgs)
		}
		if _, ok := msgs[0].(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg, got %T", msgs[0])
		}
	})
}
