package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// detailFetchLimit bounds concurrent detail requests for `movies list --with-schedules`.
const detailFetchLimit = 4

func parseID(name, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, value)
	}
	return id, nil
}

// MoviesList prints the catalog.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	api := r.client()
	movies, err := api.ListMovies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	r.logger.Debug("fetched movies", "count", len(movies))

	if cmd.Bool("with-schedules") {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(detailFetchLimit)

		for i := range movies {
			g.Go(func() error {
				detail, err := api.GetMovie(gctx, movies[i].ID)
				if err != nil {
					return fmt.Errorf("failed to fetch movie %d: %w", movies[i].ID, err)
				}
				movies[i] = *detail
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	return formatter.WriteMovies(r.output, format, movies, r.formatOptions(cmd))
}

// MoviesShow prints one movie with its schedules and optionally downloads or opens its poster.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	movie, err := r.client().GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	if path := cmd.String("poster-out"); path != "" {
		saved, err := formatter.WritePoster(ctx, r.httpClient, *movie, path)
		if err != nil {
			return err
		}
		r.logger.Info("poster saved", "path", saved)
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(shared.PosterURL(movie.PosterURL, movie.Title)); err != nil {
			r.logger.Warn("failed to open poster", "error", err)
		}
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}
	return formatter.WriteMovies(r.output, format, []models.Movie{*movie}, r.formatOptions(cmd))
}

// MoviesCreate creates a movie. Requires an admin session; nothing is sent otherwise.
func (r *Runner) MoviesCreate(ctx context.Context, cmd *cli.Command) error {
	_, token, err := r.requireAdmin()
	if err != nil {
		return err
	}

	draft := models.MovieDraft{
		Title:     cmd.String("title"),
		Duration:  cmd.String("duration"),
		Synopsis:  cmd.String("synopsis"),
		PosterURL: cmd.String("poster-url"),
	}
	payload, err := draft.Payload()
	if err != nil {
		return err
	}

	movie, err := r.client().CreateMovie(ctx, token, payload)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	r.logger.Info("movie created", "id", movie.ID, "title", movie.Title)

	if cmd.Bool("json") {
		return r.writeJSON(movie, false)
	}
	return r.writePlain("✓ Movie created: %s (id %d)\n", movie.Title, movie.ID)
}

// MoviesUpdate replaces a movie's editable fields. Flags that are not set keep the movie's current values.
func (r *Runner) MoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	_, token, err := r.requireAdmin()
	if err != nil {
		return err
	}

	id, err := parseID("id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	api := r.client()
	current, err := api.GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	draft := models.MovieDraftFrom(*current)
	if cmd.IsSet("title") {
		draft.Title = cmd.String("title")
	}
	if cmd.IsSet("duration") {
		draft.Duration = cmd.String("duration")
	}
	if cmd.IsSet("synopsis") {
		draft.Synopsis = cmd.String("synopsis")
	}
	if cmd.IsSet("poster-url") {
		draft.PosterURL = cmd.String("poster-url")
	}

	payload, err := draft.Payload()
	if err != nil {
		return err
	}

	movie, err := api.UpdateMovie(ctx, token, draft.ID, payload)
	if err != nil {
		return fmt.Errorf("failed to update movie %d: %w", id, err)
	}

	r.logger.Info("movie updated", "id", movie.ID, "title", movie.Title)

	if cmd.Bool("json") {
		return r.writeJSON(movie, false)
	}
	return r.writePlain("✓ Movie updated: %s (id %d)\n", movie.Title, movie.ID)
}
