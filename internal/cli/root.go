// Package cli implements registerctl, the admin command line for the
// participant registry. Every command opens the registry through the same
// store and service the HTTP server uses, so desks and admins share one lock.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/register/internal/config"
	"github.com/JonMunkholm/register/internal/core"
	"github.com/JonMunkholm/register/internal/logging"
	"github.com/JonMunkholm/register/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Store   string // registry file; overrides STORE_PATH
	Config  string // YAML config file; overrides REGISTER_CONFIG_FILE
	Format  string // "json" | "text"
	Verbose bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for registerctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "registerctl",
		Short: "Conference participant registry admin tool",
		Long: `Manage the conference participant registry from the command line.

The registry file (.xlsx, .csv or .db) is shared with the registration desks;
every command takes the same store lock they do.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Store, "store", "s", "", "registry file (default: STORE_PATH or "+store.DefaultPath+")")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML config file (default: $"+config.FileEnvVar+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log store and lock activity to stderr")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewCheckinCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewDedupeCommand(opts))

	return cmd
}

// session is an open registry for the duration of one command.
type session struct {
	ctx     context.Context
	service *core.Service
	store   *store.Store
	out     *OutputFormatter
}

// open loads configuration, applies the flag overrides and opens the store.
// The caller must call close.
func (o *RootOptions) open(cmd *cobra.Command) (*session, func(), error) {
	path := o.Config
	if path == "" {
		path = config.FileFromEnv()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if o.Store != "" {
		cfg.Store.Path = o.Store
	}

	level := cfg.Logging.Level
	if o.Verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	ctx := logging.WithLogger(cmd.Context(), logger)

	st, err := store.OpenConfigured(cfg)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open registry", err)
	}

	svc, err := core.NewService(st, core.ServiceConfig{
		MaxFileSize:          cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportMaxWait:        cfg.Import.MaxWait,
	})
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "start service", err)
	}

	s := &session{
		ctx:     core.WithRequester(ctx, core.Requester{UserAgent: "registerctl"}),
		service: svc,
		store:   st,
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   o.Verbose,
		},
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Warn("close registry", "error", err)
		}
	}
	return s, closeFn, nil
}

// fail reports err through the formatter and returns it with its exit code.
func (s *session) fail(message string, err error) error {
	uerr := core.NewUserError(err)
	s.out.UserError(message, uerr)
	return WrapExitError(ExitFailure, message, uerr)
}
