package core

import (
	"path/filepath"
	"strings"
)

// Extension is an accepted file extension tag, always lower-case.
type Extension string

const (
	ExtCSV  Extension = ".csv"
	ExtXLSX Extension = ".xlsx"
)

// MaxFileSizeMB is the upload ceiling in megabytes (1 MB = 1024*1024 bytes).
const MaxFileSizeMB = 10

const bytesPerMB = 1024 * 1024

// MaxFileSize is the upload ceiling in bytes.
const MaxFileSize int64 = MaxFileSizeMB * bytesPerMB

// UploadedFile is a file received from the user. It lives only as long as
// the session that owns it.
type UploadedFile struct {
	Name    string
	Size    int64
	Content []byte
}

// NewUploadedFile wraps content received under name.
func NewUploadedFile(name string, content []byte) UploadedFile {
	return UploadedFile{Name: name, Size: int64(len(content)), Content: content}
}

// SizeMB converts a byte count to megabytes.
func SizeMB(size int64) float64 {
	return float64(size) / bytesPerMB
}

// ValidateUpload checks a file name and size against the allow-list and the
// size ceiling. The extension is checked first, so an oversized file with a
// bad extension reports the format problem.
func ValidateUpload(name string, size int64) (Extension, error) {
	ext := Extension(strings.ToLower(filepath.Ext(name)))
	switch ext {
	case ExtCSV, ExtXLSX:
	default:
		return "", ErrUnsupportedFormat
	}

	if size > MaxFileSize {
		return "", &FileTooLargeError{SizeMB: SizeMB(size)}
	}
	return ext, nil
}
