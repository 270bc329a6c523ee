// Package router maps navigation paths to the views of the terminal client.
//
// Resolution is pure: the same path and session always produce the same [Route].
// The admin destination is gated on the session's role and falls back to [AccessDenied].
package router

import (
	"strconv"
	"strings"

	"github.com/desertthunder/marquee/internal/models"
)

// Destination identifies a view.
type Destination int

const (
	NotFound Destination = iota
	Catalog
	MovieDetail
	Login
	Admin
	AccessDenied
)

func (d Destination) String() string {
	switch d {
	case Catalog:
		return "catalog"
	case MovieDetail:
		return "movie"
	case Login:
		return "login"
	case Admin:
		return "admin"
	case AccessDenied:
		return "access-denied"
	default:
		return "not-found"
	}
}

const (
	HomePath  = "/"
	LoginPath = "/login"
	AdminPath = "/admin"
)

// Route is the result of resolving a path.
type Route struct {
	Destination Destination
	MovieID     int    // set for [MovieDetail]
	Path        string // normalized path
}

// MoviePath returns the detail path for a movie id.
func MoviePath(id int) string {
	return "/movie/" + strconv.Itoa(id)
}

// Normalize cleans user-entered paths: surrounding space, query and fragment are dropped,
// a leading slash is added and trailing slashes are removed.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Resolve maps path to a [Route] for the given session, which may be nil.
func Resolve(path string, sess *models.Session) Route {
	path = Normalize(path)
	route := Route{Destination: NotFound, Path: path}

	switch {
	case path == HomePath:
		route.Destination = Catalog
	case path == LoginPath:
		route.Destination = Login
	case path == AdminPath:
		if sess.IsAdmin() {
			route.Destination = Admin
		} else {
			route.Destination = AccessDenied
		}
	case strings.HasPrefix(path, "/movie/"):
		if id, ok := parseID(strings.TrimPrefix(path, "/movie/")); ok {
			route.Destination = MovieDetail
			route.MovieID = id
		}
	}

	return route
}

// parseID accepts only plain decimal digits.
func parseID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	return id, err == nil
}
