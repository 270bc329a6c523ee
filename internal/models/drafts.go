package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/marquee/internal/shared"
)

// LocalDateTimeLayout matches the value of a datetime-local form field.
const LocalDateTimeLayout = "2006-01-02T15:04"

// MovieDraft holds in-progress movie form input. A zero ID means the draft creates a new movie.
type MovieDraft struct {
	ID        int
	Title     string
	Duration  string
	Synopsis  string
	PosterURL string
}

// MovieDraftFrom pre-fills a draft with the editable fields of m.
func MovieDraftFrom(m Movie) MovieDraft {
	return MovieDraft{
		ID:        m.ID,
		Title:     m.Title,
		Duration:  strconv.Itoa(m.Duration),
		Synopsis:  m.Synopsis,
		PosterURL: m.PosterURL,
	}
}

// IsEdit reports whether the draft updates an existing movie.
func (d MovieDraft) IsEdit() bool { return d.ID != 0 }

// Payload converts the draft into a request body. Title and duration are required.
func (d MovieDraft) Payload() (MoviePayload, error) {
	if strings.TrimSpace(d.Title) == "" {
		return MoviePayload{}, fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}

	duration, err := requiredInt("duration", d.Duration)
	if err != nil {
		return MoviePayload{}, err
	}

	return MoviePayload{
		Title:     d.Title,
		Duration:  duration,
		Synopsis:  d.Synopsis,
		PosterURL: d.PosterURL,
	}, nil
}

// ScheduleDraft holds in-progress schedule form input.
type ScheduleDraft struct {
	MovieID  string
	ShowTime string
	Price    string
}

// Payload converts the draft into a request body; all fields are required.
//
// ShowTime accepts RFC 3339 or [LocalDateTimeLayout] in loc (local time when nil) and is sent as UTC RFC 3339.
func (d ScheduleDraft) Payload(loc *time.Location) (SchedulePayload, error) {
	movieID, err := requiredInt("movie", d.MovieID)
	if err != nil {
		return SchedulePayload{}, err
	}

	showTime, err := ParseShowTime(d.ShowTime, loc)
	if err != nil {
		return SchedulePayload{}, err
	}

	price, err := requiredInt("price", d.Price)
	if err != nil {
		return SchedulePayload{}, err
	}

	return SchedulePayload{
		MovieID:  movieID,
		ShowTime: showTime.UTC().Format(time.RFC3339),
		Price:    price,
	}, nil
}

// ParseShowTime parses form input for a show time.
func ParseShowTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: show time is required", shared.ErrInvalidInput)
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(LocalDateTimeLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: show time must look like %s", shared.ErrInvalidInput, LocalDateTimeLayout)
}

func requiredInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", shared.ErrInvalidInput, field)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", shared.ErrInvalidInput, field)
	}
	return n, nil
}
