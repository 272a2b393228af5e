package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rqlsearch/internal/aggspec"
	"github.com/roach88/rqlsearch/internal/esdsl"
	"github.com/roach88/rqlsearch/internal/resolver"
)

// AggsOptions holds flags for the aggs command.
type AggsOptions struct {
	*RootOptions
	Buckets []string // bucket fields nesting the whole table
	Fields  []string // restrict to these aggregation fields
}

// NewAggsCommand creates the aggs command.
func NewAggsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AggsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "aggs <entity>",
		Short: "Print the configured aggregations of an entity",
		Long: `Parse the aggregation table of an entity and print it as DSL.

The table comes from the "aggregations" block of the entity in the
configuration file. --bucket nests every aggregation under each named
bucket field, as aggregate(...,bucket(field)) does.

Examples:
  rqlsearch aggs variable
  rqlsearch aggs study --bucket studyId --field populations.numberOfParticipants`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggs(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Buckets, "bucket", nil, "bucket fields")
	cmd.Flags().StringSliceVar(&opts.Fields, "field", nil, "only aggregations on these fields")

	return cmd
}

func runAggs(opts *AggsOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	entity, ok := resolver.ParseEntity(name)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag,
			fmt.Sprintf("unknown entity %q: expected one of %v", name, resolver.Entities), nil)
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return failConfig(formatter, err)
	}
	if cfg == nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "no configuration file: use --config", nil)
	}

	specs, err := cfg.Aggregations(entity, opts.Buckets)
	if err != nil {
		var cfgErr *aggspec.ConfigError
		if errors.As(err, &cfgErr) {
			return formatter.Fail(ExitCommandError, string(cfgErr.Code), err.Error(), map[string]string{
				"key":   cfgErr.Key,
				"value": cfgErr.Value,
			})
		}
		return formatter.Fail(ExitCommandError, ErrCodeAggregation, err.Error(), nil)
	}
	specs = aggspec.Select(specs, opts.Fields)

	formatter.VerboseLog("%d aggregation(s) for %s: %s", len(specs), entity, strings.Join(sortedKeys(specs), ", "))

	dsl := esdsl.Aggregations(specs)
	if formatter.IsJSON() {
		return formatter.Success(dsl)
	}
	data, err := esdsl.Marshal(dsl)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	_, err = formatter.Writer.Write(data)
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
