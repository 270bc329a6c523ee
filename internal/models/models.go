// package models defines the data model for the cinema client
package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/shared"
)

// RoleAdmin is the role allowed into the admin view and admin-only writes.
const RoleAdmin = "admin"

// Movie is a catalog entry. Schedules is only populated by the detail endpoint and is a snapshot taken at fetch time.
type Movie struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Duration  int        `json:"duration"`
	Synopsis  string     `json:"synopsis,omitempty"`
	PosterURL string     `json:"poster_url,omitempty"`
	Schedules []Schedule `json:"schedules,omitempty"`
}

// Schedule is a showing of a movie.
type Schedule struct {
	ID       int       `json:"id"`
	MovieID  int       `json:"movie_id"`
	ShowTime time.Time `json:"show_time"`
	Price    int       `json:"price"`
}

// User is the authenticated account.
type User struct {
	ID    int    `json:"id,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

// Session is the authenticated identity and bearer token held by the client.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// Validate checks that the session carries a token and a role.
func (s Session) Validate() error {
	if s.AccessToken == "" {
		return fmt.Errorf("%w: missing access token", shared.ErrInvalidSession)
	}
	if s.User.Role == "" {
		return fmt.Errorf("%w: missing role", shared.ErrInvalidSession)
	}
	return nil
}

// IsAdmin reports whether the session's user has the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == RoleAdmin
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MoviePayload is the body for movie create and update requests.
type MoviePayload struct {
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Synopsis  string `json:"synopsis"`
	PosterURL string `json:"poster_url"`
}

// SchedulePayload is the body for schedule create requests. ShowTime is an ISO-8601 (RFC 3339) string.
type SchedulePayload struct {
	MovieID  int    `json:"movie_id"`
	ShowTime string `json:"show_time"`
	Price    int    `json:"price"`
}
