package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/profiler/internal/core"
	"github.com/JonMunkholm/profiler/internal/profile"
	"github.com/JonMunkholm/profiler/internal/report"
)

type profileFlags struct {
	sheet   string
	minimal bool
	theme   string
	output  string
	summary string
}

func newProfileCommand(root *rootOptions) *cobra.Command {
	f := &profileFlags{}

	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Generate an HTML profiling report for a .csv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *root.settings
			flags := cmd.Flags()
			if flags.Changed("minimal") {
				s.Minimal = f.minimal
			}
			if flags.Changed("theme") {
				s.Theme = f.theme
			}
			if flags.Changed("output") {
				s.Output = f.output
			}
			if flags.Changed("summary") {
				s.Summary = f.summary
			}
			return runProfile(cmd, args[0], f.sheet, s)
		},
	}

	cmd.Flags().StringVar(&f.sheet, "sheet", "", "worksheet to profile (default: first sheet)")
	cmd.Flags().BoolVar(&f.minimal, "minimal", false, "skip correlations and expensive statistics")
	cmd.Flags().StringVar(&f.theme, "theme", "", "report theme: standard, dark, orange")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "report path (default data_profile_report.html)")
	cmd.Flags().StringVar(&f.summary, "summary", "", "also print the summary to stdout: json or yaml")
	return cmd
}

func runProfile(cmd *cobra.Command, path, sheet string, s Settings) error {
	if s.Summary != "" && s.Summary != "json" && s.Summary != "yaml" {
		return fmt.Errorf("unsupported --summary %q (use json|yaml)", s.Summary)
	}

	file, err := readUpload(path)
	if err != nil {
		return err
	}

	p := profile.New(profile.WithDefaults(profile.Options{
		TopValues:     s.TopValues,
		HistogramBins: s.HistogramBins,
		SampleRows:    s.SampleRows,
	}))
	rep, err := core.Generate(cmd.Context(), p, file, core.RunOptions{
		Minimal: s.Minimal,
		Sheet:   sheet,
		Theme:   report.ParseTheme(s.Theme),
	})
	if err != nil {
		return userError(err)
	}

	if err := os.WriteFile(s.Output, rep.HTML, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	out := cmd.OutOrStdout()
	if s.Summary != "" {
		return writeSummary(out, s.Summary, rep.Summary)
	}
	ds := rep.Summary.Dataset
	fmt.Fprintf(out, "Profiled %s", rep.FileName)
	if rep.Sheet != "" {
		fmt.Fprintf(out, " (sheet %s)", rep.Sheet)
	}
	fmt.Fprintf(out, ": %d rows, %d columns, %d alerts\n", ds.Rows, ds.Columns, len(rep.Summary.Alerts))
	fmt.Fprintf(out, "Report written to %s\n", s.Output)
	return nil
}

func writeSummary(w io.Writer, format string, s *profile.Summary) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
}

// readUpload validates path like a browser upload, reading the content only
// once the name and size are accepted.
func readUpload(path string) (core.UploadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.UploadedFile{}, err
	}
	name := filepath.Base(path)
	if _, err := core.ValidateUpload(name, info.Size()); err != nil {
		return core.UploadedFile{}, userError(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return core.UploadedFile{}, err
	}
	return core.NewUploadedFile(name, content), nil
}

// userError keeps err for errors.Is while printing the user message.
func userError(err error) error {
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}
