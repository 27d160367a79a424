package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/register/internal/core"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a workbook or CSV file into the registry",
		Long: `Merge participants from an .xlsx or .csv file into the registry.

Rows missing a name or district, rows repeated within the file and people
already registered are skipped. New rows are numbered after the current
highest sequence number. Use --preview to see the outcome without writing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := os.Open(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "open import file", err)
			}
			defer f.Close()

			data, err := core.ReadUpload(f, s.service.MaxFileSize())
			if err != nil {
				return s.fail("read "+path, err)
			}
			name := filepath.Base(path)

			if preview {
				p, err := s.service.PreviewImport(s.ctx, name, data)
				if err != nil {
					return s.fail("preview "+name, err)
				}
				return s.out.Success(p, func(w io.Writer) {
					sum := p.Summary
					fmt.Fprintf(w, "%s: %d row(s), %d new, %d missing name or district, %d duplicate within file, %d already registered\n",
						name, sum.TotalRows, sum.NewRows, sum.EmptyRows, sum.DuplicateInFile, sum.AlreadyInStore)
					for _, r := range p.NewRowSamples {
						fmt.Fprintf(w, "  + row %d -> No. %d %s (%s)\n", r.Row, r.Participant.No, r.Participant.Name, r.Participant.District)
					}
					for _, r := range p.SkipSamples {
						fmt.Fprintf(w, "  - row %d skipped: %s\n", r.Row, r.Reason)
					}
				})
			}

			result, err := s.service.ImportBatch(s.ctx, name, data)
			if err != nil {
				return s.fail("import "+name, err)
			}
			return s.out.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d participant(s) from %s", result.Added, name)
				if result.Added > 0 {
					fmt.Fprintf(w, " as No. %d-%d", result.FirstNo, result.LastNo)
				}
				fmt.Fprintf(w, "; skipped %d (%d missing name or district, %d duplicate within file, %d already registered)\n",
					result.Skipped, result.SkippedEmpty, result.SkippedInternal, result.SkippedExisting)
			})
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "report what would be imported without writing")

	return cmd
}
