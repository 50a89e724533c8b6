package core

import (
	"errors"
	"fmt"
)

// Pipeline errors. Callers match them with errors.Is; the text of each is
// also what the user-message table keys on.
var (
	// ErrUnsupportedFormat is returned when the file extension is not on the
	// allow-list.
	ErrUnsupportedFormat = errors.New("unsupported format: only .csv and .xlsx are accepted")

	// ErrFileTooLarge matches any *FileTooLargeError.
	ErrFileTooLarge = errors.New("file too large")

	// ErrLoad wraps every parse failure in the loader.
	ErrLoad = errors.New("load error")

	// ErrSheetNotFound is wrapped by ErrLoad when a requested worksheet does
	// not exist in the workbook.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrEmptyInput is wrapped by ErrLoad when the file has no header row.
	ErrEmptyInput = errors.New("no columns to parse from file")

	// ErrProfiling wraps failures raised while computing the summary or
	// rendering the report.
	ErrProfiling = errors.New("profiling error")

	// ErrNoFile is returned when a request carries no file part.
	ErrNoFile = errors.New("no file provided")

	// ErrNoActiveUpload is returned when a run is requested for a session
	// that has not uploaded a file yet.
	ErrNoActiveUpload = errors.New("no active upload for session")

	// ErrReportNotFound is returned for unknown or expired report IDs.
	ErrReportNotFound = errors.New("report not found")
)

// FileTooLargeError reports an upload above the size ceiling together with
// the measured size in megabytes.
type FileTooLargeError struct {
	SizeMB float64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %.2f MB exceeds the %d MB limit", e.SizeMB, MaxFileSizeMB)
}

// Is lets errors.Is(err, ErrFileTooLarge) match.
func (e *FileTooLargeError) Is(target error) bool {
	return target == ErrFileTooLarge
}

// IsRejection reports whether err is a validation rejection, as opposed to
// a failure later in the pipeline.
func IsRejection(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrFileTooLarge)
}
