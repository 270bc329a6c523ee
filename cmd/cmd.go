// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatUsage() string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return "Output format (" + strings.Join(names, ", ") + ")"
}

// listingFlags are shared by every command that prints movies or schedules.
func listingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   formatUsage(),
			Value:   string(formatter.FormatTable),
		},
	}
}

func movieFields(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Usage:    "Movie title",
			Required: required,
		},
		&cli.StringFlag{
			Name:     "duration",
			Usage:    "Running time in minutes",
			Required: required,
		},
		&cli.StringFlag{
			Name:  "synopsis",
			Usage: "Short synopsis",
		},
		&cli.StringFlag{
			Name:  "poster-url",
			Usage: "Poster image URL",
		},
	}
}

// setupCommand handles setup operations for config and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configFile(),
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles the persisted backend session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the backend session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and persist the session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted without echo when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the current session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalog operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"movie", "m"},
		Usage:   "Browse and manage the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List movies in the catalog",
				Flags: append(listingFlags(),
					&cli.BoolFlag{
						Name:  "with-schedules",
						Usage: "Fetch each movie's detail to include showtimes",
					},
				),
				Action: r.MoviesList,
			},
			{
				Name:      "show",
				Usage:     "Show a movie with its schedules",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(listingFlags(),
					&cli.StringFlag{
						Name:  "poster-out",
						Usage: "Download the poster to this path",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the poster in the browser",
					},
				),
				Action: r.MoviesShow,
			},
			{
				Name:   "create",
				Usage:  "Create a movie (admin)",
				Flags:  append(movieFields(true), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}),
				Action: r.MoviesCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a movie; unset flags keep their current values (admin)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     append(movieFields(false), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}),
				Action:    r.MoviesUpdate,
			},
			{
				Name:  "export",
				Usage: "Export every movie to its own file with a manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: catalog_export_{timestamp})",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   formatUsage(),
						Value:   string(formatter.FormatMarkdown),
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent writers (max 10)",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Detail requests per second",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download each movie's poster next to its file",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}

// schedulesCommand handles showing operations
func schedulesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "schedules",
		Aliases: []string{"schedule", "s"},
		Usage:   "Browse and manage showings",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all schedules",
				Flags: append(listingFlags(),
					&cli.StringFlag{
						Name:  "movie",
						Usage: "Only list schedules for this movie id",
					},
				),
				Action: r.SchedulesList,
			},
			{
				Name:  "create",
				Usage: "Create a schedule (admin)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "movie",
						Usage:    "Movie id",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "show-time",
						Usage:    "Show time as RFC 3339 or local 2006-01-02T15:04",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "price",
						Usage:    "Ticket price",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SchedulesCreate,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Aliases:   []string{"interactive", "ui"},
		Usage:     "Launch the interactive cinema browser",
		Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
		Action:    r.TUI,
	}
}

// devServerCommand runs the in-memory backend for local demos.
func devServerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev-server",
		Usage: "Run an in-memory cinema backend seeded with demo data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to dev_server host and port from config)",
			},
			&cli.BoolFlag{
				Name:  "empty",
				Usage: "Start without demo data",
			},
		},
		Action: r.DevServer,
	}
}
