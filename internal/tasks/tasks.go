// package tasks implements long-running catalog operations against the cinema backend.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/services"
)

// Exporter defines bulk catalog operations.
type Exporter interface {
	// Export fetches every movie's detail and writes one file per movie plus a manifest.
	Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error)
}

// CatalogExporter implements [Exporter] over a [services.API].
type CatalogExporter struct {
	api        services.API
	httpClient *http.Client
	logger     *log.Logger
}

var _ Exporter = (*CatalogExporter)(nil)

// NewCatalogExporter creates a [CatalogExporter]. httpClient is used for poster downloads.
func NewCatalogExporter(api services.API, httpClient *http.Client, logger *log.Logger) *CatalogExporter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CatalogExporter{api: api, httpClient: httpClient, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// If the channel is nil or full, the update is dropped.
func (e *CatalogExporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// fileExtension maps an export format to the extension of the per-movie files.
func fileExtension(f formatter.Format) string {
	switch f {
	case formatter.FormatHTML:
		return ".html"
	case formatter.FormatJSON:
		return ".json"
	case formatter.FormatCSV:
		return ".csv"
	case formatter.FormatTable:
		return ".txt"
	default:
		return ".md"
	}
}
