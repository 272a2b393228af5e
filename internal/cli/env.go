package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/roach88/rqlsearch/internal/config"
	"github.com/roach88/rqlsearch/internal/join"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
)

// filesystem returns the filesystem commands read from.
func (o *RootOptions) filesystem() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// loadConfig loads the configuration named by --config. Without the flag
// the default file is used when it exists; otherwise nil is returned and
// fields pass through unresolved.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	fs := opts.filesystem()
	path := opts.Config
	if path == "" {
		exists, err := afero.Exists(fs, config.DefaultPath)
		if err != nil || !exists {
			return nil, nil
		}
		path = config.DefaultPath
	}
	return config.Load(fs, path)
}

// resolverFactory builds field resolvers from cfg, or pass-through
// resolvers when cfg is nil.
func resolverFactory(opts *RootOptions, cfg *config.Config) (join.ResolverFactory, error) {
	if cfg == nil {
		return func(entity resolver.Entity, locale string) (resolver.FieldResolver, error) {
			return resolver.NewMapping(resolver.MappingOptions{Entity: entity, Locale: locale}), nil
		}, nil
	}
	return cfg.ResolverFactory(opts.filesystem())
}

// defaultLocale picks --locale, then the configured locale, then English.
func defaultLocale(opts *RootOptions, cfg *config.Config) string {
	switch {
	case opts.Locale != "":
		return opts.Locale
	case cfg != nil && cfg.Locale != "":
		return cfg.Locale
	}
	return join.DefaultLocale
}

// failConfig reports a configuration error with its own code and position.
func failConfig(f *OutputFormatter, err error) error {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		var details any
		if loadErr.Pos.IsValid() {
			details = map[string]any{
				"file":   loadErr.Pos.Filename(),
				"line":   loadErr.Pos.Line(),
				"column": loadErr.Pos.Column(),
			}
		}
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, details)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// failParse reports an RQL syntax error with its position.
func failParse(f *OutputFormatter, err error) error {
	var syntaxErr *rql.SyntaxError
	if errors.As(err, &syntaxErr) {
		return f.Fail(ExitCommandError, ErrCodeParse, syntaxErr.Error(), map[string]int{
			"offset": syntaxErr.Offset,
			"line":   syntaxErr.Line,
			"column": syntaxErr.Column,
		})
	}
	return f.Fail(ExitCommandError, ErrCodeParse, err.Error(), nil)
}

// entityNode returns the entity node to compile for root. An entity node is
// compiled as is; anything else becomes the body of an entity node of the
// given type.
func entityNode(root *rql.Node, entity resolver.Entity) (*rql.Node, resolver.Entity, error) {
	if typ, ok := root.Type(); ok && typ.IsEntity() {
		e, _ := resolver.ParseEntity(root.Name)
		return root, e, nil
	}
	entity, ok := resolver.ParseEntity(string(entity))
	if !ok {
		return nil, "", fmt.Errorf("unknown entity: expected one of %v", resolver.Entities)
	}
	if root.Name == "" {
		return rql.NewNode(string(entity), root.Args...), entity, nil
	}
	return rql.NewNode(string(entity), root), entity, nil
}
