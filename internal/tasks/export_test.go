package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	tu "github.com/desertthunder/marquee/internal/testing"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func catalog() *tu.FakeAPI {
	api := tu.NewFakeAPI(
		models.Movie{ID: 1, Title: "Dune: Part Two", Duration: 166, Synopsis: "Spice."},
		models.Movie{ID: 2, Title: "Oppenheimer", Duration: 180},
		models.Movie{ID: 3, Title: "Perfect Days", Duration: 124},
	)
	api.Details[1].Schedules = []models.Schedule{
		{ID: 10, MovieID: 1, ShowTime: day.Add(19 * time.Hour), Price: 55000},
	}
	return api
}

func fastOpts(dir string) ExportOpts {
	return ExportOpts{OutputDir: dir, RateLimit: 1000, Location: time.UTC}
}

func TestExport(t *testing.T) {
	t.Run("SuccessfulExport", func(t *testing.T) {
		tests := []struct {
			name   string
			format formatter.Format
			file   string
			want   string
		}{
			{"markdown by default", "", "001-dune-part-two.md", "- 2026-03-14 19:00 (Rp 55.000)"},
			{"html", formatter.FormatHTML, "001-dune-part-two.html", "<h2>Dune: Part Two</h2>"},
			{"json", formatter.FormatJSON, "001-dune-part-two.json", `"title": "Dune: Part Two"`},
			{"csv", formatter.FormatCSV, "001-dune-part-two.csv", "1,Dune: Part Two,166,Spice.,"},
			{"table", formatter.FormatTable, "001-dune-part-two.txt", "166 minutes"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				opts := fastOpts(dir)
				opts.Format = tt.format

				exporter := NewCatalogExporter(catalog(), nil, nil)
				result, err := exporter.Export(context.Background(), nil, opts)
				if err != nil {
					t.Fatalf("Export failed: %v", err)
				}

				if result.TotalMovies != 3 || result.SuccessfulExports != 3 || result.FailedExports != 0 {
					t.Errorf("unexpected counts: %+v", result)
				}

				path := filepath.Join(dir, tt.file)
				tu.AssertFileExists(t, path)
				if content := tu.MustReadFile(t, path); !strings.Contains(content, tt.want) {
					t.Errorf("%s missing %q, got:\n%s", tt.file, tt.want, content)
				}
				tu.AssertFileExists(t, result.ManifestPath)
			})
		}
	})

	t.Run("PartialFailures", func(t *testing.T) {
		api := catalog()
		delete(api.Details, 2)

		dir := t.TempDir()
		result, err := NewCatalogExporter(api, nil, nil).Export(context.Background(), nil, fastOpts(dir))
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 1 {
			t.Fatalf("expected 2 successes and 1 failure, got %+v", result)
		}

		failed := result.Results[1]
		if failed.MovieID != 2 || failed.Success || failed.Error == nil {
			t.Errorf("expected movie 2 to fail, got %+v", failed)
		}
		if !strings.Contains(failed.ErrorMessage, "failed to fetch movie") {
			t.Errorf("unexpected error message: %s", failed.ErrorMessage)
		}
	})

	t.Run("Manifest", func(t *testing.T) {
		api := catalog()
		delete(api.Details, 3)

		dir := t.TempDir()
		result, err := NewCatalogExporter(api, nil, nil).Export(context.Background(), nil, fastOpts(dir))
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		if result.ManifestPath != filepath.Join(dir, "export_manifest.json") {
			t.Errorf("unexpected manifest path: %s", result.ManifestPath)
		}

		var manifest ExportResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if manifest.TotalMovies != 3 || manifest.FailedExports != 1 || len(manifest.Results) != 3 {
			t.Errorf("unexpected manifest: %+v", manifest)
		}
		for i, res := range manifest.Results {
			if res.MovieID != i+1 {
				t.Errorf("expected results ordered by id, got %d at %d", res.MovieID, i)
			}
		}
		if manifest.Results[2].ErrorMessage == "" {
			t.Error("expected the failure message in the manifest")
		}
	})

	t.Run("ServiceError", func(t *testing.T) {
		api := catalog()
		api.SetErr("ListMovies", &services.APIError{Kind: services.KindNetwork})

		_, err := NewCatalogExporter(api, nil, nil).Export(context.Background(), nil, fastOpts(t.TempDir()))
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("NilAPI", func(t *testing.T) {
		_, err := NewCatalogExporter(nil, nil, nil).Export(context.Background(), nil, fastOpts(t.TempDir()))
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dir := t.TempDir()
		result, err := NewCatalogExporter(catalog(), nil, nil).Export(ctx, nil, fastOpts(dir))
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.SuccessfulExports != 0 {
			t.Errorf("expected an empty partial result, got %+v", result)
		}
		if _, err := os.Stat(filepath.Join(dir, "export_manifest.json")); !os.IsNotExist(err) {
			t.Error("expected no manifest for a cancelled export")
		}
	})

	t.Run("DefaultOptions", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := tu.MustGetwd(t)
		tu.MustChdir(t, tempDir)
		defer tu.MustChdir(t, originalDir)

		api := tu.NewFakeAPI(models.Movie{ID: 1, Title: "Aftersun", Duration: 102})
		result, err := NewCatalogExporter(api, nil, nil).Export(context.Background(), nil, ExportOpts{})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		if !strings.HasPrefix(result.OutputDirectory, "catalog_export_") {
			t.Errorf("expected default output directory, got %s", result.OutputDirectory)
		}
		tu.AssertFileExists(t, filepath.Join(result.OutputDirectory, "001-aftersun.md"))
	})

	t.Run("InvalidOutputDirectory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not-a-dir")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		_, err := NewCatalogExporter(catalog(), nil, nil).Export(context.Background(), nil, fastOpts(file))
		if err == nil || !strings.Contains(err.Error(), "failed to create output directory") {
			t.Errorf("expected directory error, got %v", err)
		}
	})

	t.Run("Posters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.png" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte("png"))
		}))
		defer server.Close()

		api := tu.NewFakeAPI(
			models.Movie{ID: 1, Title: "Aftersun", Duration: 102, PosterURL: server.URL + "/aftersun.png"},
			models.Movie{ID: 2, Title: "Past Lives", Duration: 105, PosterURL: server.URL + "/missing.png"},
		)

		dir := t.TempDir()
		opts := fastOpts(dir)
		opts.Posters = true

		result, err := NewCatalogExporter(api, server.Client(), nil).Export(context.Background(), nil, opts)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		if result.SuccessfulExports != 2 {
			t.Fatalf("poster failures should not fail the export, got %+v", result)
		}
		if len(result.Results[0].Files) != 2 {
			t.Errorf("expected file and poster for movie 1, got %v", result.Results[0].Files)
		}
		if got := tu.MustReadFile(t, filepath.Join(dir, "001-aftersun.png")); got != "png" {
			t.Errorf("unexpected poster contents: %q", got)
		}
		if len(result.Results[1].Files) != 1 {
			t.Errorf("expected only the movie file for movie 2, got %v", result.Results[1].Files)
		}
	})

	t.Run("WorkerPoolLimits", func(t *testing.T) {
		tests := []struct {
			name    string
			workers int
		}{
			{"zero uses default", 0},
			{"negative uses default", -3},
			{"above max is capped", 50},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				opts := fastOpts(t.TempDir())
				opts.NumWorkers = tt.workers

				result, err := NewCatalogExporter(catalog(), nil, nil).Export(context.Background(), nil, opts)
				if err != nil {
					t.Fatalf("Export failed: %v", err)
				}
				if result.SuccessfulExports != 3 {
					t.Errorf("expected all movies exported, got %+v", result)
				}
			})
		}
	})

	t.Run("ProgressUpdates", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 50)

		_, err := NewCatalogExporter(catalog(), nil, nil).Export(context.Background(), progress, fastOpts(t.TempDir()))
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		var messages []string
		for update := range progress {
			phases[update.Phase]++
			messages = append(messages, update.Message)
		}

		if phases[FetchCatalog] != 2 || phases[FetchDetail] != 3 || phases[ExportMovie] != 3 || phases[WriteManifest] != 1 {
			t.Errorf("unexpected phase counts: %v", phases)
		}
		joined := strings.Join(messages, "\n")
		for _, want := range []string{"Found 3 movies", "Fetching: Oppenheimer", "✓ Dune: Part Two (1 files)", "Manifest written"} {
			if !strings.Contains(joined, want) {
				t.Errorf("progress missing %q, got:\n%s", want, joined)
			}
		}
	})

	t.Run("FullProgressChannelDoesNotBlock", func(t *testing.T) {
		progress := make(chan ProgressUpdate)

		done := make(chan error, 1)
		go func() {
			_, err := NewCatalogExporter(catalog(), nil, nil).Export(context.Background(), progress, fastOpts(t.TempDir()))
			done <- err
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Export failed: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("export blocked on an unread progress channel")
		}
	})
}

func TestPhase(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchCatalog, "fetch_catalog"},
		{FetchDetail, "fetch_detail"},
		{ExportMovie, "export_movie"},
		{WriteManifest, "write_manifest"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dune: Part Two", "dune-part-two"},
		{"  Perfect   Days ", "perfect-days"},
		{"Spider-Man: Across the Spider-Verse", "spider-man-across-the-spider-verse"},
		{"Ódio", "ódio"},
		{"!!!", "movie"},
		{"", "movie"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := slugify(tt.in); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
