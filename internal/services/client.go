// Cinema backend implementation of [API]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://localhost:3001"

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // per request; zero leaves the http.Client's own timeout in effect
	// RequestsPerSecond throttles outgoing requests; zero or less disables throttling.
	RequestsPerSecond float64
	Logger            *log.Logger
}

// Client talks JSON over HTTP to the cinema backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a new [Client] instance.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// BaseURL returns the backend origin requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListMovies fetches all movie summaries.
func (c *Client) ListMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := c.do(ctx, http.MethodGet, "/api/movies", "", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetMovie fetches one movie with its schedules.
func (c *Client) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodGet, moviePath(id), "", nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListSchedules fetches all schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := c.do(ctx, http.MethodGet, "/api/schedules", "", nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var sess models.Session
	body := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", "", body, &sess); err != nil {
		return nil, err
	}

	if err := sess.Validate(); err != nil {
		return nil, &APIError{
			Kind:       KindServer,
			Method:     http.MethodPost,
			Path:       "/api/login",
			StatusCode: http.StatusOK,
			Err:        err,
		}
	}
	return &sess, nil
}

// CreateMovie creates a movie.
func (c *Client) CreateMovie(ctx context.Context, token string, payload models.MoviePayload) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodPost, "/api/movies", token, payload, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// UpdateMovie updates a movie.
func (c *Client) UpdateMovie(ctx context.Context, token string, id int, payload models.MoviePayload) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodPut, moviePath(id), token, payload, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// CreateSchedule creates a schedule.
func (c *Client) CreateSchedule(ctx context.Context, token string, payload models.SchedulePayload) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := c.do(ctx, http.MethodPost, "/api/schedules", token, payload, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func moviePath(id int) string {
	return "/api/movies/" + strconv.Itoa(id)
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends a JSON request and decodes a 2xx JSON response into result.
//
// A non-empty token is sent as a bearer Authorization header.
func (c *Client) do(ctx context.Context, method, path, token string, body, result any) error {
	fail := func(kind Kind, status int, msg string, err error) error {
		return &APIError{Kind: kind, Method: method, Path: path, StatusCode: status, Message: msg, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(KindNetwork, 0, "", fmt.Errorf("rate limiter: %w", err))
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(KindServer, 0, "", fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fail(KindServer, 0, "", fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return fail(KindNetwork, 0, "", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(KindNetwork, resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("request completed", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Message == "" {
			eb.Message = eb.Error
		}
		return fail(kindForStatus(resp.StatusCode), resp.StatusCode, eb.Message, nil)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fail(KindServer, resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
