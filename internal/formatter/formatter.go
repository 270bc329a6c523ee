// package formatter renders movie and schedule listings for CLI output (table, CSV, Markdown, HTML, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Format names an output format accepted by --format.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats lists every supported [Format] in the order shown in help text.
var Formats = []Format{FormatTable, FormatCSV, FormatMarkdown, FormatHTML, FormatJSON}

// ParseFormat validates a format name. "md" is accepted as an alias for markdown; empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case FormatTable, FormatCSV, FormatMarkdown, FormatHTML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Options controls rendering details shared by all formats.
type Options struct {
	// Location is used for show times; local time when nil.
	Location *time.Location
	// Pretty indents JSON output.
	Pretty bool
}

// mdRenderer converts Markdown exports to HTML. Raw HTML in titles or synopses is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// WriteMovies renders movies in format f to w.
func WriteMovies(w io.Writer, f Format, movies []models.Movie, opts Options) error {
	var (
		data []byte
		err  error
	)

	switch f {
	case FormatTable, "":
		data = []byte(MoviesTable(movies, opts) + "\n")
	case FormatCSV:
		data, err = ExportMoviesCSV(movies)
	case FormatMarkdown:
		data, err = ExportMoviesMarkdown(movies, opts)
	case FormatHTML:
		var md []byte
		if md, err = ExportMoviesMarkdown(movies, opts); err == nil {
			data, err = ToHTML(md)
		}
	case FormatJSON:
		data, err = ToJSON(movies, opts.Pretty)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}

	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteSchedules renders schedules in format f to w. titles maps movie ids to titles for display.
func WriteSchedules(w io.Writer, f Format, schedules []models.Schedule, titles map[int]string, opts Options) error {
	var (
		data []byte
		err  error
	)

	switch f {
	case FormatTable, "":
		data = []byte(SchedulesTable(schedules, titles, opts) + "\n")
	case FormatCSV:
		data, err = ExportSchedulesCSV(schedules, titles)
	case FormatMarkdown:
		data, err = ExportSchedulesMarkdown(schedules, titles, opts)
	case FormatHTML:
		var md []byte
		if md, err = ExportSchedulesMarkdown(schedules, titles, opts); err == nil {
			data, err = ToHTML(md)
		}
	case FormatJSON:
		data, err = ToJSON(schedules, opts.Pretty)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}

	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// MoviesTable renders movies as a bordered terminal table.
func MoviesTable(movies []models.Movie, opts Options) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "DURATION", "SHOWTIMES")

	for _, m := range movies {
		t.Row(strconv.Itoa(m.ID), m.Title, shared.FormatMinutes(m.Duration), showtimes(m.Schedules, opts.Location))
	}
	return t.Render()
}

// SchedulesTable renders schedules as a bordered terminal table.
func SchedulesTable(schedules []models.Schedule, titles map[int]string, opts Options) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "MOVIE", "DATE", "TIME", "PRICE")

	for _, s := range sortedSchedules(schedules) {
		t.Row(
			strconv.Itoa(s.ID),
			movieTitle(titles, s.MovieID),
			showDate(s.ShowTime, opts.Location),
			shared.FormatShowTime(s.ShowTime, opts.Location),
			shared.FormatPrice(s.Price),
		)
	}
	return t.Render()
}

// ExportMoviesCSV converts movies to CSV with columns: ID, Title, Duration, Synopsis, PosterURL
func ExportMoviesCSV(movies []models.Movie) ([]byte, error) {
	records := make([][]string, 0, len(movies))
	for _, m := range movies {
		records = append(records, []string{
			strconv.Itoa(m.ID),
			m.Title,
			strconv.Itoa(m.Duration),
			m.Synopsis,
			m.PosterURL,
		})
	}
	return writeCSV([]string{"ID", "Title", "Duration", "Synopsis", "PosterURL"}, records)
}

// ExportSchedulesCSV converts schedules to CSV with columns: ID, MovieID, Movie, ShowTime, Price.
//
// ShowTime is written as UTC RFC 3339 so the file round-trips through `schedules create`.
func ExportSchedulesCSV(schedules []models.Schedule, titles map[int]string) ([]byte, error) {
	records := make([][]string, 0, len(schedules))
	for _, s := range sortedSchedules(schedules) {
		records = append(records, []string{
			strconv.Itoa(s.ID),
			strconv.Itoa(s.MovieID),
			movieTitle(titles, s.MovieID),
			s.ShowTime.UTC().Format(time.RFC3339),
			strconv.Itoa(s.Price),
		})
	}
	return writeCSV([]string{"ID", "MovieID", "Movie", "ShowTime", "Price"}, records)
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportMoviesMarkdown converts movies to a Markdown document, one section per movie.
//
// Movies without a poster link to the placeholder poster. Schedules are listed when present (detail fetches).
func ExportMoviesMarkdown(movies []models.Movie, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Now Showing\n\n")
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n", len(movies)))

	for _, m := range movies {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", m.Title))
		buf.WriteString(fmt.Sprintf("![Poster](%s)\n\n", shared.PosterURL(m.PosterURL, m.Title)))
		buf.WriteString(fmt.Sprintf("**Duration**: %s\n\n", shared.FormatMinutes(m.Duration)))

		if m.Synopsis != "" {
			buf.WriteString(m.Synopsis + "\n")
		} else {
			buf.WriteString("_Synopsis not available yet._\n")
		}

		if len(m.Schedules) > 0 {
			buf.WriteString("\n### Showtimes\n\n")
			for _, s := range sortedSchedules(m.Schedules) {
				buf.WriteString(fmt.Sprintf("- %s %s (%s)\n",
					showDate(s.ShowTime, opts.Location),
					shared.FormatShowTime(s.ShowTime, opts.Location),
					shared.FormatPrice(s.Price)))
			}
		}
	}

	return buf.Bytes(), nil
}

// ExportSchedulesMarkdown converts schedules to a Markdown table.
func ExportSchedulesMarkdown(schedules []models.Schedule, titles map[int]string, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Schedules\n\n")
	buf.WriteString(fmt.Sprintf("**Showings**: %d\n\n", len(schedules)))
	buf.WriteString("| ID | Movie | Date | Time | Price |\n")
	buf.WriteString("|---:|---|---|---|---:|\n")

	for _, s := range sortedSchedules(schedules) {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			s.ID,
			strings.ReplaceAll(movieTitle(titles, s.MovieID), "|", `\|`),
			showDate(s.ShowTime, opts.Location),
			shared.FormatShowTime(s.ShowTime, opts.Location),
			shared.FormatPrice(s.Price)))
	}

	return buf.Bytes(), nil
}

// ToHTML renders a Markdown export as an HTML fragment.
func ToHTML(md []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// ToJSON marshals v, indented when pretty is set. The output ends in a newline.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DownloadPoster fetches the poster image at url and returns the raw bytes.
//
// client defaults to one with a 30 second timeout.
func DownloadPoster(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download poster: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read poster data: %w", err)
	}

	return imageData, nil
}

// WritePoster downloads a movie's poster (or its placeholder) to path.
//
// Defaults to poster_{movie.ID}.png as the filename.
func WritePoster(ctx context.Context, client *http.Client, movie models.Movie, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("poster_%d.png", movie.ID)
	}

	data, err := DownloadPoster(ctx, client, shared.PosterURL(movie.PosterURL, movie.Title))
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write poster file: %w", err)
	}
	return path, nil
}

func showtimes(schedules []models.Schedule, loc *time.Location) string {
	if len(schedules) == 0 {
		return "-"
	}
	times := make([]string, 0, len(schedules))
	for _, s := range sortedSchedules(schedules) {
		times = append(times, shared.FormatShowTime(s.ShowTime, loc))
	}
	return strings.Join(times, " ")
}

func showDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}

func movieTitle(titles map[int]string, id int) string {
	if title, ok := titles[id]; ok {
		return title
	}
	return fmt.Sprintf("#%d", id)
}

// sortedSchedules returns a copy of schedules ordered by show time.
func sortedSchedules(schedules []models.Schedule) []models.Schedule {
	out := append([]models.Schedule(nil), schedules...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ShowTime.Before(out[j].ShowTime) })
	return out
}

// Titles indexes movie titles by id for schedule rendering.
func Titles(movies []models.Movie) map[int]string {
	titles := make(map[int]string, len(movies))
	for _, m := range movies {
		titles[m.ID] = m.Title
	}
	return titles
}
