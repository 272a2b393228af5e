package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/rqlsearch/internal/aggspec"
	"github.com/roach88/rqlsearch/internal/config"
	"github.com/roach88/rqlsearch/internal/esdsl"
	"github.com/roach88/rqlsearch/internal/join"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rqlquery"
	"github.com/roach88/rqlsearch/internal/taxonomy"
)

// Harness is the scenario execution engine.
type Harness struct {
	fs     afero.Fs
	logger *slog.Logger
}

// New returns a harness reading configuration, taxonomies and scenarios
// from fs. A nil logger discards output.
func New(fs afero.Fs, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{fs: fs, logger: logger}
}

// Run executes a scenario against the operating system filesystem.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New(afero.NewOsFs(), nil).Run(ctx, scenario)
}

// RunAll executes scenarios with at most parallelism running at once and
// returns their results in input order. Parallelism below one runs them
// one at a time. The first execution error cancels the rest.
func RunAll(ctx context.Context, scenarios []*Scenario, parallelism int) ([]*Result, error) {
	return New(afero.NewOsFs(), nil).RunAll(ctx, scenarios, parallelism)
}

// RunAll is the harness-bound form of the package-level RunAll.
func (h *Harness) RunAll(ctx context.Context, scenarios []*Scenario, parallelism int) ([]*Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	results := make([]*Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			r, err := h.Run(ctx, s)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run compiles the scenario's expression for every entity and evaluates
// its expectations.
//
// Errors loading the configuration or parsing the expression are returned;
// unmet expectations are reported in the result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	env, err := h.environment(scenario)
	if err != nil {
		return nil, err
	}

	splitter := join.NewSplitter(env.factory, env.locale)
	split, err := splitter.Split(scenario.RQL)
	if err != nil {
		return nil, err
	}

	scope := esdsl.ScopeDetail
	if scenario.Scope != "" {
		scope = esdsl.Scope(scenario.Scope)
	}

	result := NewResult()
	result.Locale = split.Locale()
	result.WithFacets = split.WithFacets()

	for _, entity := range resolver.Entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q := split.Query(entity)
		if q.IsEmpty() {
			continue
		}
		body, err := env.body(entity, q, scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entity, err)
		}
		result.Bodies[string(entity)] = body
	}

	h.logger.Debug("scenario compiled",
		"scenario", scenario.Name,
		"locale", result.Locale,
		"entities", len(result.Bodies))

	for _, msg := range EvaluateExpectations(scenario, split, result) {
		result.AddError(msg)
	}
	return result, nil
}

// environment is everything needed to compile a scenario.
type environment struct {
	factory join.ResolverFactory
	locale  string
	cfg     *config.Config // nil without a config file
}

func (h *Harness) environment(s *Scenario) (*environment, error) {
	env := &environment{locale: s.Locale}

	switch {
	case s.Config != "":
		cfg, err := config.Load(h.fs, s.path(s.Config))
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		factory, err := cfg.ResolverFactory(h.fs)
		if err != nil {
			return nil, fmt.Errorf("load taxonomies: %w", err)
		}
		env.cfg = cfg
		env.factory = factory
		if env.locale == "" {
			env.locale = cfg.Locale
		}

	case s.Resolver != nil:
		paths := make([]string, len(s.Resolver.Taxonomies))
		for i, p := range s.Resolver.Taxonomies {
			paths[i] = s.path(p)
		}
		taxonomies, err := taxonomy.LoadAll(h.fs, paths)
		if err != nil {
			return nil, fmt.Errorf("load taxonomies: %w", err)
		}
		env.factory = inlineFactory(s.Resolver, taxonomies)

	default:
		env.factory = inlineFactory(&ResolverSpec{}, nil)
	}

	if env.locale == "" {
		env.locale = join.DefaultLocale
	}
	return env, nil
}

func inlineFactory(spec *ResolverSpec, taxonomies []taxonomy.Taxonomy) join.ResolverFactory {
	rules := make(map[string]resolver.FieldRule, len(spec.Fields))
	for name, f := range spec.Fields {
		rules[name] = resolver.FieldRule{
			Field:     f.Field,
			Analyzed:  f.Analyzed,
			Range:     f.Range,
			Localized: f.Localized,
		}
	}
	return func(entity resolver.Entity, locale string) (resolver.FieldResolver, error) {
		return resolver.NewMapping(resolver.MappingOptions{
			Entity:         entity,
			Locale:         locale,
			Taxonomies:     taxonomies,
			AnalyzedFields: spec.Analyzed,
			Rules:          rules,
		}), nil
	}
}

// body builds the search body of one entity as generic JSON values.
func (env *environment) body(entity resolver.Entity, q rqlquery.Query, scope esdsl.Scope) (map[string]any, error) {
	opts := esdsl.RequestOptions{Query: q, Scope: scope}
	if env.cfg != nil {
		opts.MandatorySourceFields = env.cfg.Entity(entity).MandatorySourceFields
		if q.HasAggregate() {
			specs, err := env.cfg.Aggregations(entity, q.AggregationBuckets())
			if err != nil {
				return nil, err
			}
			opts.Aggregations = aggspec.Select(specs, q.Aggregations())
		}
	}

	request, err := esdsl.BuildRequest(opts)
	if err != nil {
		return nil, err
	}
	return normalize(request)
}

// normalize round-trips v through JSON so bodies and expectations compare
// with the same value types.
func normalize(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return out, nil
}
