// Package tasks runs bulk catalog operations against the cinema backend with real-time progress reporting.
//
// # Catalog Export
//
// [CatalogExporter.Export] backs `marquee movies export`:
//
//  1. Lists the catalog
//  2. Fetches each movie's detail (with schedules) through a [rate.Limiter]
//  3. Hands details to a bounded worker pool that writes one file per movie in the chosen
//     [formatter.Format], plus the poster when requested
//  4. Writes export_manifest.json summarizing successes and failures
//
// A failed detail fetch or write is recorded per movie and does not stop the export.
// Cancelling the context stops scheduling new work and returns the partial result with the context error.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking, so a slow reader drops updates rather than stalling the export.
package tasks
