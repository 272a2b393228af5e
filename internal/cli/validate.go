package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rqlsearch/internal/aggspec"
	"github.com/roach88/rqlsearch/internal/config"
	"github.com/roach88/rqlsearch/internal/resolver"
)

// ValidationIssue is one problem found by validate.
type ValidationIssue struct {
	Entity  string `json:"entity,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EntitySummary describes what is configured for one entity.
type EntitySummary struct {
	Entity       string `json:"entity"`
	Taxonomies   int    `json:"taxonomies"`
	Fields       int    `json:"fields"`
	Aggregations int    `json:"aggregations"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Config   string            `json:"config"`
	Entities []EntitySummary   `json:"entities"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and its taxonomies",
		Long: `Validate the rqlsearch.cue configuration without compiling anything.

Checks the file against the configuration schema, loads every taxonomy it
references and parses every entity's aggregation table.

Exit codes:
  0 - Configuration valid
  1 - Taxonomy or aggregation problems found
  2 - Configuration missing or not valid CUE`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig(opts)
	if err != nil {
		return failConfig(formatter, err)
	}
	if cfg == nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("configuration not found: %s", config.DefaultPath), nil)
	}

	path := opts.Config
	if path == "" {
		path = config.DefaultPath
	}
	result := ValidationResult{Config: path}
	fs := opts.filesystem()

	for _, entity := range resolver.Entities {
		ec := cfg.Entity(entity)
		summary := EntitySummary{Entity: string(entity), Fields: len(ec.Fields)}

		taxonomies, err := cfg.LoadTaxonomies(fs, entity)
		if err != nil {
			result.Errors = append(result.Errors, issue(entity, err))
		} else {
			summary.Taxonomies = len(taxonomies)
			formatter.VerboseLog("%s: loaded %d taxonomies", entity, len(taxonomies))
		}

		specs, err := cfg.Aggregations(entity, nil)
		if err != nil {
			result.Errors = append(result.Errors, issue(entity, err))
		} else {
			summary.Aggregations = len(specs)
		}

		result.Entities = append(result.Entities, summary)
	}
	result.Valid = len(result.Errors) == 0

	return outputValidation(formatter, result)
}

func issue(entity resolver.Entity, err error) ValidationIssue {
	code := ErrCodeGeneric
	var loadErr *config.LoadError
	var aggErr *aggspec.ConfigError
	switch {
	case errors.As(err, &loadErr):
		code = loadErr.Code
	case errors.As(err, &aggErr):
		code = string(aggErr.Code)
	}
	return ValidationIssue{Entity: string(entity), Code: code, Message: err.Error()}
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		formatter.Pass("%s is valid", result.Config)
		for _, e := range result.Entities {
			fmt.Fprintf(formatter.Writer, "  %s: %d taxonomies, %d fields, %d aggregations\n",
				e.Entity, e.Taxonomies, e.Fields, e.Aggregations)
		}
	} else {
		fmt.Fprintf(formatter.Writer, "%s %s has %d error(s)\n\n", failMark("✗"), result.Config, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(formatter.Writer, "  %s [%s]: %s\n", e.Entity, e.Code, e.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}
