package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/profiler/internal/profile"
	"github.com/JonMunkholm/profiler/internal/report"
)

// Generate runs the whole pipeline once for file: validate, load, profile
// and render. It keeps no state and is what the CLI uses.
func Generate(ctx context.Context, p *profile.Profiler, file UploadedFile, opts RunOptions) (*ProfileReport, error) {
	u, err := accept(file)
	if err != nil {
		return nil, err
	}
	opts, err = normalizeOptions(u, opts)
	if err != nil {
		return nil, err
	}
	return render(ctx, p, u, opts)
}

// accept validates file and, for workbooks, lists its sheets.
func accept(file UploadedFile) (Upload, error) {
	ext, err := ValidateUpload(file.Name, file.Size)
	if err != nil {
		return Upload{}, err
	}
	u := Upload{File: file, Ext: ext, Checksum: ContentChecksum(file.Content)}
	if ext == ExtXLSX {
		if u.Sheets, err = SheetNames(file.Content); err != nil {
			return Upload{}, err
		}
	}
	return u, nil
}

// normalizeOptions resolves the theme and the sheet so that equivalent
// requests share a cache key.
func normalizeOptions(u Upload, opts RunOptions) (RunOptions, error) {
	opts.Theme = report.ParseTheme(string(opts.Theme))
	if u.Ext != ExtXLSX {
		opts.Sheet = ""
		return opts, nil
	}
	switch {
	case len(u.Sheets) == 0:
		return opts, fmt.Errorf("%w: %w", ErrLoad, ErrEmptyInput)
	case opts.Sheet == "":
		opts.Sheet = u.Sheets[0]
	case !slices.Contains(u.Sheets, opts.Sheet):
		return opts, fmt.Errorf("%w: %w: %q (available: %s)",
			ErrLoad, ErrSheetNotFound, opts.Sheet, strings.Join(u.Sheets, ", "))
	}
	return opts, nil
}

func render(ctx context.Context, p *profile.Profiler, u Upload, opts RunOptions) (*ProfileReport, error) {
	f, err := LoadFrame(u.File, u.Ext, opts.Sheet)
	if err != nil {
		return nil, err
	}

	summary, err := p.Profile(ctx, f, profile.Options{Minimal: opts.Minimal})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrProfiling, err)
	}

	html, err := report.Render(ctx, summary, opts.Theme)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfiling, err)
	}

	return &ProfileReport{
		ID:          uuid.NewString(),
		FileName:    u.File.Name,
		Checksum:    u.Checksum,
		Sheet:       opts.Sheet,
		Sheets:      u.Sheets,
		Options:     opts,
		Summary:     summary,
		HTML:        html,
		GeneratedAt: time.Now(),
	}, nil
}
