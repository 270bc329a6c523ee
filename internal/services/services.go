// package services defines interface API for the cinema backend
package services

import (
	"context"

	"github.com/desertthunder/marquee/internal/models"
)

// API defines the operations the client performs against the cinema backend.
type API interface {
	// ListMovies returns movie summaries in backend order.
	ListMovies(ctx context.Context) ([]models.Movie, error)

	// GetMovie returns a movie with its schedules.
	GetMovie(ctx context.Context, id int) (*models.Movie, error)

	// ListSchedules returns all schedules in backend order.
	ListSchedules(ctx context.Context) ([]models.Schedule, error)

	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (*models.Session, error)

	// CreateMovie creates a movie. Requires an admin token.
	CreateMovie(ctx context.Context, token string, payload models.MoviePayload) (*models.Movie, error)

	// UpdateMovie replaces the editable fields of a movie. Requires an admin token.
	UpdateMovie(ctx context.Context, token string, id int, payload models.MoviePayload) (*models.Movie, error)

	// CreateSchedule creates a schedule. Requires an admin token.
	CreateSchedule(ctx context.Context, token string, payload models.SchedulePayload) (*models.Schedule, error)
}

var _ API = (*Client)(nil)
