package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rqlsearch/internal/aggspec"
	"github.com/roach88/rqlsearch/internal/config"
	"github.com/roach88/rqlsearch/internal/esdsl"
	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
	"github.com/roach88/rqlsearch/internal/rqlquery"
	"github.com/roach88/rqlsearch/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Entity string // entity to compile for when the expression is not an entity node
	Scope  string // detail | digest | aggregation
}

// CompilationResult is the JSON payload of the compile command.
type CompilationResult struct {
	Entity      string         `json:"entity"`
	Locale      string         `json:"locale"`
	Fingerprint string         `json:"fingerprint"`
	HistoryID   string         `json:"history_id,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	Body        map[string]any `json:"body"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <rql>",
		Short: "Compile an RQL expression into a search request body",
		Long: `Compile an RQL expression for one entity into a search request body.

An expression rooted at an entity node (variable, dataset, study, network)
is compiled for that entity; anything else is compiled for --entity.
With --db the result is recorded in the compilation history.

Examples:
  rqlsearch compile 'variable(in(Mlstr_area.Diseases,Cancer),limit(0,20))'
  rqlsearch compile 'match(blood)' --entity study --scope digest
  rqlsearch compile 'eq(id,cls)' --entity network --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Entity, "entity", "e", string(resolver.EntityVariable), "entity for non-entity expressions")
	cmd.Flags().StringVar(&opts.Scope, "scope", string(esdsl.ScopeDetail), "request scope (detail|digest|aggregation)")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scope, err := esdsl.ParseScope(opts.Scope)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return failConfig(formatter, err)
	}

	root, err := rql.Parse(text)
	if err != nil {
		return failParse(formatter, err)
	}
	node, entity, err := entityNode(root, resolver.Entity(opts.Entity))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	locale := defaultLocale(opts.RootOptions, cfg)
	factory, err := resolverFactory(opts.RootOptions, cfg)
	if err != nil {
		return failConfig(formatter, err)
	}
	r, err := factory(entity, locale)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCompile, err.Error(), nil)
	}

	formatter.VerboseLog("Compiling %s for %s (locale %s, scope %s)", node, entity, locale, scope)

	q, err := rqlquery.Compile(node, r)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCompile, err.Error(), nil)
	}

	result := &CompilationResult{Entity: string(entity), Locale: locale}
	if q.HasQueryTree() {
		result.Warnings = querytree.Validate(q.QueryTree()).Warnings
	}
	if opts.Verbose {
		for _, w := range result.Warnings {
			formatter.Warn("%s", w)
		}
	}

	body, err := buildBody(cfg, entity, q, scope)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeAggregation, err.Error(), nil)
	}
	result.Body = body

	fingerprint, err := rql.Fingerprint(node)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	result.Fingerprint = fingerprint

	if opts.DB != "" {
		id, err := recordCompilation(ctx, opts.DB, store.Compilation{
			Fingerprint: fingerprint,
			RQL:         node.String(),
			Entity:      string(entity),
			Scope:       string(scope),
			Locale:      locale,
		}, body)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		result.HistoryID = id
		formatter.VerboseLog("Recorded compilation %s in %s", id, opts.DB)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	data, err := esdsl.Marshal(body)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	_, err = formatter.Writer.Write(data)
	return err
}

// buildBody assembles the request body of q, with the configured
// aggregations when the query asks for them.
func buildBody(cfg *config.Config, entity resolver.Entity, q rqlquery.Query, scope esdsl.Scope) (map[string]any, error) {
	reqOpts := esdsl.RequestOptions{Query: q, Scope: scope}
	if cfg != nil {
		reqOpts.MandatorySourceFields = cfg.Entity(entity).MandatorySourceFields
		if q.HasAggregate() {
			specs, err := cfg.Aggregations(entity, q.AggregationBuckets())
			if err != nil {
				return nil, err
			}
			reqOpts.Aggregations = aggspec.Select(specs, q.Aggregations())
		}
	}
	return esdsl.BuildRequest(reqOpts)
}

// recordCompilation stores body in the history database at path.
func recordCompilation(ctx context.Context, path string, c store.Compilation, body map[string]any) (string, error) {
	data, err := esdsl.Marshal(body)
	if err != nil {
		return "", err
	}
	c.Body = string(data)

	st, err := store.Open(path)
	if err != nil {
		return "", fmt.Errorf("open history: %w", err)
	}
	defer st.Close()

	written, err := st.WriteCompilation(ctx, c)
	if err != nil {
		return "", err
	}
	return written.ID, nil
}
