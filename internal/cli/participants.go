package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/register/internal/core"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var opts core.FilterOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List participants, optionally filtered",
		Long: `List registered participants in sequence-number order.

Filters match case-insensitive substrings; blank filters match everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := s.service.Filter(s.ctx, opts)
			if err != nil {
				return s.fail("list participants", err)
			}
			return s.out.Success(t, func(w io.Writer) { writeTable(w, t) })
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by name")
	cmd.Flags().StringVar(&opts.District, "district", "", "filter by district")
	cmd.Flags().StringVar(&opts.Association, "coop", "", "filter by co-operative/association")

	return cmd
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var req core.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register one participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := s.service.Register(s.ctx, req)
			if err != nil {
				return s.fail("register", err)
			}
			if !result.OK {
				return s.fail("register", errors.New(result.Message))
			}
			return s.out.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "%s No. %d: %s (%s)\n", result.Message, result.Participant.No, result.Participant.Name, result.Participant.District)
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "participant name (required)")
	cmd.Flags().StringVar(&req.District, "district", "", "district (required)")
	cmd.Flags().StringVar(&req.Province, "province", "", "province (required)")
	cmd.Flags().StringVar(&req.Association, "coop", "", "co-operative/association")

	return cmd
}

// NewCheckinCommand creates the checkin command.
func NewCheckinCommand(rootOpts *RootOptions) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "checkin <no>...",
		Short: "Mark participants as attended on a day",
		Long: `Mark one or more participants, by sequence number, as attended on --day.

Unknown numbers and participants already checked in are counted, not errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil || n <= 0 {
					return NewExitError(ExitCommandError, fmt.Sprintf("invalid sequence number %q", a))
				}
				ids = append(ids, n)
			}
			if !core.Day(day).Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --day %d: must be 1 or 2", day))
			}

			s, closeFn, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := s.service.CheckinBulk(s.ctx, ids, core.Day(day))
			if err != nil {
				return s.fail("check in", err)
			}
			return s.out.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Day %d: %d checked in, %d already checked in, %d not found\n",
					day, result.Updated, result.Already, result.NotFound)
			})
		},
	}

	cmd.Flags().IntVarP(&day, "day", "d", 1, "conference day (1 or 2)")

	return cmd
}
