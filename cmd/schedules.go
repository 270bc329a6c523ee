package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// SchedulesList prints all schedules with their movie titles, optionally filtered to one movie.
func (r *Runner) SchedulesList(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	var movieID int
	if cmd.IsSet("movie") {
		if movieID, err = parseID("movie", cmd.String("movie")); err != nil {
			return err
		}
	}

	var (
		api       = r.client()
		movies    []models.Movie
		schedules []models.Schedule
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if movies, err = api.ListMovies(gctx); err != nil {
			return fmt.Errorf("failed to list movies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if schedules, err = api.ListSchedules(gctx); err != nil {
			return fmt.Errorf("failed to list schedules: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if movieID != 0 {
		filtered := schedules[:0]
		for _, s := range schedules {
			if s.MovieID == movieID {
				filtered = append(filtered, s)
			}
		}
		schedules = filtered
	}

	return formatter.WriteSchedules(r.output, format, schedules, formatter.Titles(movies), r.formatOptions(cmd))
}

// SchedulesCreate creates a schedule. Requires an admin session; nothing is sent otherwise.
//
// Local show times are read in the runner's location and sent as UTC.
func (r *Runner) SchedulesCreate(ctx context.Context, cmd *cli.Command) error {
	_, token, err := r.requireAdmin()
	if err != nil {
		return err
	}

	draft := models.ScheduleDraft{
		MovieID:  cmd.String("movie"),
		ShowTime: cmd.String("show-time"),
		Price:    cmd.String("price"),
	}
	payload, err := draft.Payload(r.location)
	if err != nil {
		return err
	}

	schedule, err := r.client().CreateSchedule(ctx, token, payload)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	r.logger.Info("schedule created", "id", schedule.ID, "movie_id", schedule.MovieID)

	if cmd.Bool("json") {
		return r.writeJSON(schedule, false)
	}
	return r.writePlain("✓ Schedule created: id %d for movie %d at %s\n",
		schedule.ID, schedule.MovieID, payload.ShowTime)
}
