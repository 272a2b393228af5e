package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/rqlsearch/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit       int
	Fingerprint string
	ID          string
}

// HistoryEntry is one compilation in command output.
type HistoryEntry struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Fingerprint string `json:"fingerprint"`
	Entity      string `json:"entity"`
	Scope       string `json:"scope"`
	Locale      string `json:"locale"`
	RQL         string `json:"rql"`
	Body        string `json:"body,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded compilations",
		Long: `List the compilations recorded by "compile --db", newest first.

--fingerprint lists every compilation of one expression, oldest first.
--id prints a single compilation including its body.

Examples:
  rqlsearch history --db history.db --limit 5
  rqlsearch history --db history.db --id 0b7c6e1e-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum entries (0 for all)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only compilations of this fingerprint")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show one compilation")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	if opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, "--db is required", nil)
	}
	// Opening would create an empty database.
	if exists, _ := afero.Exists(afero.NewOsFs(), opts.DB); !exists {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DB), nil)
	}
	if opts.Limit < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, "--limit must be non-negative", nil)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	var compilations []store.Compilation
	switch {
	case opts.ID != "":
		c, err := st.ReadCompilation(ctx, opts.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		compilations = []store.Compilation{c}
	case opts.Fingerprint != "":
		compilations, err = st.FindByFingerprint(ctx, opts.Fingerprint)
	default:
		compilations, err = st.ListCompilations(ctx, opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	entries := make([]HistoryEntry, len(compilations))
	for i, c := range compilations {
		entries[i] = HistoryEntry{
			ID:          c.ID,
			Seq:         c.Seq,
			Fingerprint: c.Fingerprint,
			Entity:      c.Entity,
			Scope:       c.Scope,
			Locale:      c.Locale,
			RQL:         c.RQL,
		}
		if opts.ID != "" {
			entries[i].Body = c.Body
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	if len(entries) == 0 {
		fmt.Fprintln(w, "No compilations recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%4d  %s  %-8s %-11s %-5s %s\n", e.Seq, e.ID, e.Entity, e.Scope, e.Locale, e.RQL)
		if e.Body != "" {
			fmt.Fprintf(w, "\n%s", e.Body)
		}
	}
	return nil
}
