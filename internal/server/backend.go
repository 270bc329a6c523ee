package server

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

// Account is a backend user with a password.
type Account struct {
	User     models.User
	Password string
}

// BackendOpts configures a [Backend].
type BackendOpts struct {
	Accounts []Account
	Logger   *log.Logger
}

// Backend is an in-memory implementation of the cinema REST surface.
//
// It backs the dev-server command and end-to-end tests; data lives only for the life of the process.
type Backend struct {
	mu        sync.RWMutex
	movies    []models.Movie
	schedules []models.Schedule
	accounts  map[string]Account
	tokens    map[string]models.User
	nextID    int
	logger    *log.Logger
	router    *BasicRouter
}

var _ Handler = (*Backend)(nil)

// NewBackend creates an empty [Backend].
func NewBackend(opts BackendOpts) *Backend {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	b := &Backend{
		accounts: make(map[string]Account, len(opts.Accounts)),
		tokens:   map[string]models.User{},
		nextID:   1,
		logger:   opts.Logger,
	}

	for _, a := range opts.Accounts {
		if a.User.ID == 0 {
			a.User.ID = b.allocID()
		}
		b.accounts[strings.ToLower(a.User.Email)] = a
	}

	b.router = NewBasicRouter()
	b.router.Use(RequestID(), Logging(opts.Logger))
	b.router.Handle(http.MethodGet, "/api/movies", http.HandlerFunc(b.listMovies))
	b.router.Handle(http.MethodGet, "/api/movies/{id}", http.HandlerFunc(b.getMovie))
	b.router.Handle(http.MethodPost, "/api/movies", b.requireAdmin(b.createMovie))
	b.router.Handle(http.MethodPut, "/api/movies/{id}", b.requireAdmin(b.updateMovie))
	b.router.Handle(http.MethodGet, "/api/schedules", http.HandlerFunc(b.listSchedules))
	b.router.Handle(http.MethodPost, "/api/schedules", b.requireAdmin(b.createSchedule))
	b.router.Handle(http.MethodPost, "/api/login", http.HandlerFunc(b.login))

	return b
}

// Routes returns the patterns served by the backend.
func (b *Backend) Routes() []string {
	return []string{
		"GET /api/movies",
		"GET /api/movies/{id}",
		"POST /api/movies",
		"PUT /api/movies/{id}",
		"GET /api/schedules",
		"POST /api/schedules",
		"POST /api/login",
	}
}

// ServeHTTP implements [http.Handler].
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// AddMovie seeds a movie and returns it with its assigned id.
func (b *Backend) AddMovie(m models.Movie) models.Movie {
	b.mu.Lock()
	defer b.mu.Unlock()

	m.ID = b.allocID()
	m.Schedules = nil
	b.movies = append(b.movies, m)
	return m
}

// AddSchedule seeds a schedule and returns it with its assigned id.
func (b *Backend) AddSchedule(s models.Schedule) models.Schedule {
	b.mu.Lock()
	defer b.mu.Unlock()

	s.ID = b.allocID()
	b.schedules = append(b.schedules, s)
	return s
}

// SeedDemo loads a small catalog for local demos.
func (b *Backend) SeedDemo(now time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	dune := b.AddMovie(models.Movie{Title: "Dune: Part Two", Duration: 166, Synopsis: "Paul Atreides unites with the Fremen."})
	b.AddMovie(models.Movie{Title: "Oppenheimer", Duration: 180})
	b.AddMovie(models.Movie{Title: "Perfect Days", Duration: 124, Synopsis: "A Tokyo toilet cleaner finds joy in routine."})

	for i, hour := range []int{10, 13, 19} {
		b.AddSchedule(models.Schedule{
			MovieID:  dune.ID,
			ShowTime: day.Add(time.Duration(hour) * time.Hour),
			Price:    45000 + i*5000,
		})
	}
}

func (b *Backend) allocID() int {
	id := b.nextID
	b.nextID++
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (b *Backend) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		b.mu.RLock()
		user, found := b.tokens[token]
		b.mu.RUnlock()

		if !found {
			writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if user.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	account, ok := b.accounts[strings.ToLower(creds.Email)]
	if !ok || account.Password != creds.Password {
		b.logger.Warn("login rejected", "email", creds.Email)
		writeMessage(w, http.StatusUnauthorized, shared.ErrInvalidCredentials.Error())
		return
	}

	token := shared.GenerateID()
	b.tokens[token] = account.User
	writeJSON(w, http.StatusOK, models.Session{User: account.User, AccessToken: token})
}

func (b *Backend) listMovies(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	movies := make([]models.Movie, len(b.movies))
	copy(movies, b.movies)
	writeJSON(w, http.StatusOK, movies)
}

// findMovie returns the index of the movie with the id in the path; callers hold the lock.
func (b *Backend) findMovie(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "movie not found")
		return 0, false
	}
	for i, m := range b.movies {
		if m.ID == id {
			return i, true
		}
	}
	writeMessage(w, http.StatusNotFound, "movie not found")
	return 0, false
}

func (b *Backend) getMovie(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	idx, ok := b.findMovie(w, r)
	if !ok {
		return
	}

	movie := b.movies[idx]
	movie.Schedules = []models.Schedule{}
	for _, s := range b.schedules {
		if s.MovieID == movie.ID {
			movie.Schedules = append(movie.Schedules, s)
		}
	}
	sort.SliceStable(movie.Schedules, func(i, j int) bool {
		return movie.Schedules[i].ShowTime.Before(movie.Schedules[j].ShowTime)
	})
	writeJSON(w, http.StatusOK, movie)
}

func validateMovie(p models.MoviePayload) string {
	if strings.TrimSpace(p.Title) == "" {
		return "title is required"
	}
	if p.Duration <= 0 {
		return "duration must be a positive number of minutes"
	}
	return ""
}

func (b *Backend) createMovie(w http.ResponseWriter, r *http.Request) {
	var payload models.MoviePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if msg := validateMovie(payload); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	movie := b.AddMovie(models.Movie{
		Title:     payload.Title,
		Duration:  payload.Duration,
		Synopsis:  payload.Synopsis,
		PosterURL: payload.PosterURL,
	})
	writeJSON(w, http.StatusCreated, movie)
}

func (b *Backend) updateMovie(w http.ResponseWriter, r *http.Request) {
	var payload models.MoviePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx, ok := b.findMovie(w, r)
	if !ok {
		return
	}
	if msg := validateMovie(payload); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	m := &b.movies[idx]
	m.Title = payload.Title
	m.Duration = payload.Duration
	m.Synopsis = payload.Synopsis
	m.PosterURL = payload.PosterURL
	writeJSON(w, http.StatusOK, *m)
}

func (b *Backend) listSchedules(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	schedules := make([]models.Schedule, len(b.schedules))
	copy(schedules, b.schedules)
	writeJSON(w, http.StatusOK, schedules)
}

func (b *Backend) createSchedule(w http.ResponseWriter, r *http.Request) {
	var payload models.SchedulePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	showTime, err := time.Parse(time.RFC3339, payload.ShowTime)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "show_time must be an ISO-8601 timestamp")
		return
	}
	if payload.Price <= 0 {
		writeMessage(w, http.StatusBadRequest, "price must be positive")
		return
	}

	b.mu.Lock()
	exists := false
	for _, m := range b.movies {
		if m.ID == payload.MovieID {
			exists = true
			break
		}
	}
	if !exists {
		b.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "movie_id does not reference a movie")
		return
	}
	schedule := models.Schedule{ID: b.allocID(), MovieID: payload.MovieID, ShowTime: showTime, Price: payload.Price}
	b.schedules = append(b.schedules, schedule)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, schedule)
}
