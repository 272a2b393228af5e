package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that set global flags, e.g.
// RQLSEARCH_CONFIG or RQLSEARCH_DB.
const EnvPrefix = "RQLSEARCH"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // rqlsearch.cue path; empty looks for the default file
	Locale  string // default locale, overriding the configuration
	DB      string // SQLite history path; empty disables history

	// Fs is where configuration, taxonomies and scenarios are read.
	// Nil means the operating system filesystem.
	Fs afero.Fs
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rqlsearch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "rqlsearch",
		Short: "rqlsearch - RQL to search query compiler",
		Long: `Compile RQL expressions into search-engine request bodies.

Fields resolve through the taxonomies and field mappings of an rqlsearch.cue
configuration file. Global flags can also be set from the environment with
the RQLSEARCH_ prefix, e.g. RQLSEARCH_CONFIG=/etc/rqlsearch/rqlsearch.cue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Config = v.GetString("config")
			opts.Locale = v.GetString("locale")
			opts.DB = v.GetString("db")

			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), opts.Verbose))
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.String("config", "", "configuration file (default ./rqlsearch.cue when present)")
	flags.String("locale", "", "default locale (overrides the configuration)")
	flags.String("db", "", "SQLite compilation history")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, name := range []string{"config", "locale", "db"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewJoinCommand(opts))
	cmd.AddCommand(NewAggsCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// Execute runs the root command with args and returns the process exit
// code. Errors not already reported by a command are printed to stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", failMark("error:"), err)
	}
	return GetExitCode(err)
}

// newLogger returns a text handler on w at Debug level when verbose, Warn
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
