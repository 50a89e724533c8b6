// Package core provides the business logic for the data profiler.
//
// It holds everything between an uploaded byte slice and a rendered report,
// independent of any UI or transport layer. Web handlers and the CLI both
// drive it.
//
// # Pipeline
//
// Every profiling run walks the same linear pipeline:
//
//  1. [ValidateUpload] checks the extension allow-list and the 10 MB ceiling.
//  2. [LoadFrame] parses CSV or the selected worksheet of an XLSX workbook.
//  3. The profiler computes per-column statistics and, unless the run is
//     minimal, correlations between numeric columns.
//  4. The report package renders the summary to a standalone HTML document.
//
// [Generate] runs the pipeline once for a file. [Service] adds per-session
// state on top: the current upload, a cache of rendered reports keyed by
// file hash and run options, a concurrency limiter and a run history.
//
// # Run States
//
// A run moves through Idle, FileReceived, Validated or Rejected, Loaded,
// Profiling and Rendered. Rejected is terminal: the caller must upload a
// new file. Load and profiling failures end the run with an error and are
// not retried.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Validation rejections keep their exact wording so the user sees which
// rule failed and, for oversized files, the measured size.
package core
