package core

import (
	"errors"
	"testing"
)

func TestValidateUpload_Extension(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    Extension
		wantErr error
	}{
		{"lower csv", "data.csv", ExtCSV, nil},
		{"upper csv", "DATA.CSV", ExtCSV, nil},
		{"mixed xlsx", "Report.XlSx", ExtXLSX, nil},
		{"upper xlsx", "book.XLSX", ExtXLSX, nil},
		{"json rejected", "data.json", "", ErrUnsupportedFormat},
		{"xls rejected", "legacy.xls", "", ErrUnsupportedFormat},
		{"no extension", "README", "", ErrUnsupportedFormat},
		{"csv in middle", "data.csv.txt", "", ErrUnsupportedFormat},
		{"double extension", "archive.tar.csv", ExtCSV, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUpload(tt.file, 1024)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateUpload(%q) error = %v, want %v", tt.file, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateUpload(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestValidateUpload_SizeBoundary(t *testing.T) {
	tests := []struct {
		name   string
		size   int64
		accept bool
	}{
		{"empty", 0, true},
		{"one MB", 1024 * 1024, true},
		{"exactly ten MB", 10 * 1024 * 1024, true},
		{"one byte over", 10*1024*1024 + 1, false},
		{"twelve and a half MB", 12*1024*1024 + 512*1024, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateUpload("data.csv", tt.size)
			if tt.accept {
				if err != nil {
					t.Errorf("ValidateUpload(size=%d) error = %v, want nil", tt.size, err)
				}
				return
			}
			if !errors.Is(err, ErrFileTooLarge) {
				t.Fatalf("ValidateUpload(size=%d) error = %v, want ErrFileTooLarge", tt.size, err)
			}
			var tooLarge *FileTooLargeError
			if !errors.As(err, &tooLarge) {
				t.Fatalf("error is not *FileTooLargeError: %T", err)
			}
			if want := SizeMB(tt.size); tooLarge.SizeMB != want {
				t.Errorf("SizeMB = %v, want %v", tooLarge.SizeMB, want)
			}
		})
	}
}

func TestValidateUpload_ExtensionCheckedFirst(t *testing.T) {
	_, err := ValidateUpload("huge.json", 50*1024*1024)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
	if errors.Is(err, ErrFileTooLarge) {
		t.Error("oversized file with bad extension should not report size")
	}
}

func TestNewUploadedFile(t *testing.T) {
	f := NewUploadedFile("a.csv", []byte("a,b\n1,2\n"))
	if f.Size != 8 {
		t.Errorf("Size = %d, want 8", f.Size)
	}
}

func TestIsRejection(t *testing.T) {
	if !IsRejection(ErrUnsupportedFormat) {
		t.Error("IsRejection(ErrUnsupportedFormat) = false, want true")
	}
	if !IsRejection(&FileTooLargeError{SizeMB: 11}) {
		t.Error("IsRejection(*FileTooLargeError) = false, want true")
	}
	if IsRejection(ErrLoad) {
		t.Error("IsRejection(ErrLoad) = true, want false")
	}
}
