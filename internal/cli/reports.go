package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/register/internal/core"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show attendance counts for the whole registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			sum, err := s.service.Summary(s.ctx)
			if err != nil {
				return s.fail("summary", err)
			}
			return s.out.Success(sum, func(w io.Writer) {
				fmt.Fprintf(w, "Registered:   %d\n", sum.Total)
				fmt.Fprintf(w, "Day 1:        %d\n", sum.Day1)
				fmt.Fprintf(w, "Day 2:        %d\n", sum.Day2)
				fmt.Fprintf(w, "Either day:   %d\n", sum.Either)
				fmt.Fprintf(w, "Both days:    %d\n", sum.Both)
				fmt.Fprintf(w, "Neither day:  %d\n", sum.Neither)
			})
		},
	}
}

// reportOutput is the JSON payload of the report command.
type reportOutput struct {
	Path   string       `json:"path"`
	Report *core.Report `json:"report"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the attendance report workbook",
		Long: `Write attendance_report_YYYYMMDD_HHMM.xlsx with Summary, By District,
By Province, By Association and Raw Data sheets. The registry is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := s.service.BuildReport(s.ctx)
			if err != nil {
				return s.fail("build report", err)
			}
			data, err := report.Bytes()
			if err != nil {
				return s.fail("render report", err)
			}

			path := filepath.Join(outDir, report.FileName())
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write report", err)
			}
			return s.out.Success(reportOutput{Path: path, Report: report}, func(w io.Writer) {
				fmt.Fprintf(w, "Report written to %s\n", path)
				for _, m := range report.Summary {
					fmt.Fprintf(w, "  %-22s %5d  %6.2f%%\n", m.Metric, m.Count, m.Rate)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the report into")

	return cmd
}

// NewDedupeCommand creates the dedupe command.
func NewDedupeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove stored duplicates, keeping the first of each",
		Long: `Remove rows whose name and district repeat an earlier row, keeping the
first in stored order. Only needed for registries edited by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := s.service.DedupeExisting(s.ctx)
			if err != nil {
				return s.fail("dedupe", err)
			}
			return s.out.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Removed %d duplicate(s); %d participant(s) kept\n", result.Removed, result.Kept)
			})
		},
	}
}
