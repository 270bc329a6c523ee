package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MoviesExport writes every movie in the catalog to its own file, plus a manifest.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Posters:    cmd.Bool("posters"),
		Location:   r.location,
	}

	r.logger.Info("starting catalog export", "format", format, "dir", opts.OutputDir)
	r.writePlain("Exporting catalog as %s...\n\n", format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCatalog:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchDetail:
				r.logger.Debug(update.Message)
			case tasks.ExportMovie:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	exporter := tasks.NewCatalogExporter(r.client(), r.httpClient, r.logger)
	result, err := exporter.Export(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		if result != nil {
			r.writePlain("\nExport stopped after %d of %d movies\n", len(result.Results), result.TotalMovies)
		}
		return fmt.Errorf("catalog export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d movies\n", result.SuccessfulExports, result.TotalMovies)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d movies:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.Title, res.ErrorMessage)
			}
		}
	}

	return nil
}
