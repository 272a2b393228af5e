package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rqlsearch/internal/esdsl"
	"github.com/roach88/rqlsearch/internal/join"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
)

// JoinOptions holds flags for the join command.
type JoinOptions struct {
	*RootOptions
	Scope string
}

// JoinResult is the JSON payload of the join command.
type JoinResult struct {
	Locale               string                    `json:"locale"`
	WithFacets           bool                      `json:"with_facets"`
	SearchOnNetworksOnly bool                      `json:"search_on_networks_only"`
	Bodies               map[string]map[string]any `json:"bodies"`
}

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JoinOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "join <rql>",
		Short: "Split a multi-entity expression into per-entity request bodies",
		Long: `Split an RQL expression into one compiled query per entity type.

Top-level entity nodes (variable, dataset, study, network) are compiled
with their own resolver; locale(...) sets the locale of every entity and
facet() requests facets. Entities the expression does not mention are
left out, except variable which is always searched.

Examples:
  rqlsearch join 'variable(in(Mlstr_area.Diseases,Cancer)),study(in(Mica_study.methods-design,cohort_study)),locale(fr)'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", string(esdsl.ScopeDetail), "request scope (detail|digest|aggregation)")

	return cmd
}

func runJoin(opts *JoinOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scope, err := esdsl.ParseScope(opts.Scope)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return failConfig(formatter, err)
	}
	factory, err := resolverFactory(opts.RootOptions, cfg)
	if err != nil {
		return failConfig(formatter, err)
	}

	root, err := rql.Parse(text)
	if err != nil {
		return failParse(formatter, err)
	}
	split, err := join.NewSplitter(factory, defaultLocale(opts.RootOptions, cfg)).SplitNode(root)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCompile, err.Error(), nil)
	}

	result := JoinResult{
		Locale:               split.Locale(),
		WithFacets:           split.WithFacets(),
		SearchOnNetworksOnly: split.SearchOnNetworksOnly(),
		Bodies:               make(map[string]map[string]any),
	}
	var order []string
	for _, entity := range resolver.Entities {
		q := split.Query(entity)
		if q.IsEmpty() {
			continue
		}
		body, err := buildBody(cfg, entity, q, scope)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeAggregation, err.Error(), nil)
		}
		result.Bodies[string(entity)] = body
		order = append(order, string(entity))
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "locale: %s\n", result.Locale)
	fmt.Fprintf(w, "facets: %t\n", result.WithFacets)
	if result.SearchOnNetworksOnly {
		fmt.Fprintln(w, "networks only: true")
	}
	for _, name := range order {
		data, err := esdsl.Marshal(result.Bodies[name])
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		fmt.Fprintf(w, "\n# %s\n%s", name, data)
	}
	return nil
}
