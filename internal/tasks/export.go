package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for catalog exports.
type ExportOpts struct {
	Format     formatter.Format // Per-movie file format (default: markdown)
	OutputDir  string           // Base output directory (default: catalog_export_{epoch})
	NumWorkers int              // Concurrent writers (default: 4, max 10)
	RateLimit  float64          // Detail requests per second (default: 5)
	Posters    bool             // Download each movie's poster (or placeholder) next to its file
	Location   *time.Location   // Show time zone for rendered files; local time when nil
}

// MovieExportResult is the outcome for one movie.
type MovieExportResult struct {
	MovieID      int      `json:"movie_id"`
	Title        string   `json:"title"`
	Success      bool     `json:"success"`
	Files        []string `json:"files"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// ExportResult summarizes a catalog export. It is also written as the manifest.
type ExportResult struct {
	TotalMovies       int                 `json:"total_movies"`
	SuccessfulExports int                 `json:"successful_exports"`
	FailedExports     int                 `json:"failed_exports"`
	OutputDirectory   string              `json:"output_directory"`
	ExportedAt        time.Time           `json:"exported_at"`
	ManifestPath      string              `json:"-"`
	Results           []MovieExportResult `json:"results"`
}

type exportJob struct {
	movie models.Movie
}

// Export fetches each movie's detail through a rate limiter and writes the files with a pool of workers.
//
// Individual failures are recorded in the result and do not stop the export. The manifest lists every movie
// ordered by id.
func (e *CatalogExporter) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatMarkdown
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("catalog_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	e.sendProgress(prog, fetchingCatalogUpdate())
	movies, err := e.api.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	e.sendProgress(prog, foundCatalogUpdate(len(movies)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalMovies:     len(movies),
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		Results:         make([]MovieExportResult, 0, len(movies)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(movies))
	results := make(chan MovieExportResult, len(movies))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, summary := range movies {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchingDetailUpdate(i+1, len(movies), summary.Title))

			detail, err := e.api.GetMovie(ctx, summary.ID)
			if err != nil {
				results <- failedResult(summary, fmt.Errorf("failed to fetch movie: %w", err))
				continue
			}

			jobs <- exportJob{movie: *detail}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(movies), res.Title, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("movie export failed", "id", res.MovieID, "error", res.Error)
			e.sendProgress(prog, exportFailedUpdate(completed, len(movies), res.Title, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].MovieID < result.Results[j].MovieID })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := formatter.ToJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// exportWorker is a worker goroutine that writes movies from the jobs channel.
func (e *CatalogExporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- MovieExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportMovie(ctx, job.movie, opts)
	}
}

// exportMovie writes one movie's file and, when requested, its poster. Poster failures are logged only.
func (e *CatalogExporter) exportMovie(ctx context.Context, movie models.Movie, opts ExportOpts) MovieExportResult {
	result := MovieExportResult{
		MovieID: movie.ID,
		Title:   movie.Title,
		Files:   []string{},
	}

	base := filepath.Join(opts.OutputDir, fmt.Sprintf("%03d-%s", movie.ID, slugify(movie.Title)))
	path := base + fileExtension(opts.Format)

	var (
		data []byte
		err  error
	)
	if opts.Format == formatter.FormatJSON {
		data, err = formatter.ToJSON(movie, true)
	} else {
		var buf strings.Builder
		err = formatter.WriteMovies(&buf, opts.Format, []models.Movie{movie}, formatter.Options{Location: opts.Location})
		data = []byte(buf.String())
	}
	if err != nil {
		return failedResult(movie, fmt.Errorf("%s export failed: %w", opts.Format, err))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return failedResult(movie, fmt.Errorf("failed to write %s: %w", path, err))
	}
	result.Files = append(result.Files, path)

	if opts.Posters {
		if poster, err := formatter.WritePoster(ctx, e.httpClient, movie, base+".png"); err != nil {
			e.logger.Warn("failed to download poster", "id", movie.ID, "error", err)
		} else {
			result.Files = append(result.Files, poster)
		}
	}

	result.Success = true
	return result
}

func failedResult(movie models.Movie, err error) MovieExportResult {
	return MovieExportResult{
		MovieID:      movie.ID,
		Title:        movie.Title,
		Files:        []string{},
		Error:        err,
		ErrorMessage: err.Error(),
	}
}

// slugify lowercases title and joins its letters and digits with dashes, e.g. "Dune: Part Two" -> "dune-part-two".
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "movie"
	}
	return slug
}
