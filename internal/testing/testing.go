// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/marquee/internal/models"
)

// Call records one invocation of a [FakeAPI] method.
type Call struct {
	Method  string
	Token   string
	ID      int
	Payload any
}

// FakeAPI is an in-memory test double for [services.API].
//
// Set the exported fields to control results; Errs is keyed by method name ("GetMovie", "Login", ...).
type FakeAPI struct {
	mu sync.Mutex

	Movies    []models.Movie
	Details   map[int]*models.Movie
	Schedules []models.Schedule
	Session   *models.Session
	Errs      map[string]error

	calls []Call
}

// NewFakeAPI creates a [FakeAPI] that serves the given movies.
func NewFakeAPI(movies ...models.Movie) *FakeAPI {
	details := make(map[int]*models.Movie, len(movies))
	for i := range movies {
		m := movies[i]
		details[m.ID] = &m
	}
	return &FakeAPI{Movies: movies, Details: details, Errs: map[string]error{}}
}

func (f *FakeAPI) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.Errs[c.Method]
}

// SetErr makes every later call to method fail with err.
func (f *FakeAPI) SetErr(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Errs == nil {
		f.Errs = map[string]error{}
	}
	f.Errs[method] = err
}

// Calls returns the recorded calls, optionally filtered by method name.
func (f *FakeAPI) Calls(methods ...string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(methods) == 0 {
		return append([]Call(nil), f.calls...)
	}

	var out []Call
	for _, c := range f.calls {
		for _, m := range methods {
			if c.Method == m {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (f *FakeAPI) ListMovies(ctx context.Context) ([]models.Movie, error) {
	if err := f.record(Call{Method: "ListMovies"}); err != nil {
		return nil, err
	}
	return append([]models.Movie(nil), f.Movies...), nil
}

func (f *FakeAPI) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	if err := f.record(Call{Method: "GetMovie", ID: id}); err != nil {
		return nil, err
	}
	m, ok := f.Details[id]
	if !ok {
		return nil, errors.New("movie not found")
	}
	copied := *m
	return &copied, nil
}

func (f *FakeAPI) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	if err := f.record(Call{Method: "ListSchedules"}); err != nil {
		return nil, err
	}
	return append([]models.Schedule(nil), f.Schedules...), nil
}

func (f *FakeAPI) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := f.record(Call{Method: "Login", Payload: models.Credentials{Email: email, Password: password}}); err != nil {
		return nil, err
	}
	if f.Session == nil {
		return nil, errors.New("no session configured")
	}
	sess := *f.Session
	return &sess, nil
}

func (f *FakeAPI) CreateMovie(ctx context.Context, token string, payload models.MoviePayload) (*models.Movie, error) {
	if err := f.record(Call{Method: "CreateMovie", Token: token, Payload: payload}); err != nil {
		return nil, err
	}
	return &models.Movie{ID: len(f.Movies) + 100, Title: payload.Title, Duration: payload.Duration,
		Synopsis: payload.Synopsis, PosterURL: payload.PosterURL}, nil
}

func (f *FakeAPI) UpdateMovie(ctx context.Context, token string, id int, payload models.MoviePayload) (*models.Movie, error) {
	if err := f.record(Call{Method: "UpdateMovie", Token: token, ID: id, Payload: payload}); err != nil {
		return nil, err
	}
	return &models.Movie{ID: id, Title: payload.Title, Duration: payload.Duration,
		Synopsis: payload.Synopsis, PosterURL: payload.PosterURL}, nil
}

func (f *FakeAPI) CreateSchedule(ctx context.Context, token string, payload models.SchedulePayload) (*models.Schedule, error) {
	if err := f.record(Call{Method: "CreateSchedule", Token: token, Payload: payload}); err != nil {
		return nil, err
	}
	return &models.Schedule{ID: len(f.Schedules) + 100, MovieID: payload.MovieID, Price: payload.Price}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
