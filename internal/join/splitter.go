package join

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
	"github.com/roach88/rqlsearch/internal/rqlquery"
)

// DefaultLocale is used when neither the Splitter nor the expression sets one.
const DefaultLocale = "en"

// ResolverFactory returns the field resolver for entity in locale.
type ResolverFactory func(entity resolver.Entity, locale string) (resolver.FieldResolver, error)

// Splitter compiles joined RQL expressions. It holds no per-call state and
// may be shared between goroutines if its factory may.
type Splitter struct {
	resolvers     ResolverFactory
	defaultLocale string
}

// NewSplitter creates a Splitter. An empty defaultLocale means DefaultLocale.
func NewSplitter(resolvers ResolverFactory, defaultLocale string) *Splitter {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	return &Splitter{resolvers: resolvers, defaultLocale: defaultLocale}
}

// Split parses text and splits it. Empty text yields a result whose variable
// query is compiled but has no tree.
func (s *Splitter) Split(text string) (*Result, error) {
	n, err := rql.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	return s.SplitNode(n)
}

// SplitNode splits an already parsed expression.
//
// Top-level entries that are not entity, locale or facet nodes are skipped
// and splitting continues. The only errors are resolver construction
// failures and range literal errors from compilation.
func (s *Splitter) SplitNode(root *rql.Node) (*Result, error) {
	if root == nil {
		root = &rql.Node{}
	}
	res := &Result{
		queries: make(map[resolver.Entity]rqlquery.Query, len(resolver.Entities)),
		locale:  s.extractLocale(root),
	}

	for _, n := range mainNodes(root) {
		typ, ok := n.Type()
		if !ok {
			slog.Debug("skipping unrecognized top-level node", "name", n.Name)
			continue
		}
		switch {
		case typ.IsEntity():
			entity := entityFor(typ)
			r, err := s.resolvers(entity, res.locale)
			if err != nil {
				return nil, fmt.Errorf("resolver for %s: %w", entity, err)
			}
			q, err := rqlquery.Compile(n, r)
			if err != nil {
				return nil, err
			}
			res.queries[entity] = q
		case typ == rql.TypeFacet:
			res.withFacets = true
		case typ == rql.TypeLocale:
			// applied before any entity was compiled
		default:
			slog.Debug("skipping top-level node", "name", n.Name)
		}
	}

	for _, e := range resolver.Entities {
		if _, ok := res.queries[e]; !ok {
			res.queries[e] = rqlquery.Empty{}
		}
	}
	return res, nil
}

// extractLocale finds the first locale(...) directive at the top level, or
// the root itself. An invalid language tag keeps the default.
func (s *Splitter) extractLocale(root *rql.Node) string {
	var directive *rql.Node
	if root.Name == "" {
		for _, child := range root.Children() {
			if typ, ok := child.Type(); ok && typ == rql.TypeLocale {
				directive = child
				break
			}
		}
	} else if typ, ok := root.Type(); ok && typ == rql.TypeLocale {
		directive = root
	}

	if directive == nil || directive.Len() == 0 {
		return s.defaultLocale
	}
	raw := directive.ArgString(0)
	tag, err := language.Parse(raw)
	if err != nil {
		slog.Warn("ignoring invalid locale", "locale", raw, "error", err)
		return s.defaultLocale
	}
	return tag.String()
}

// mainNodes returns the entity candidates of root. An unnamed root lists its
// node members plus a synthesized variable node when none is present.
func mainNodes(root *rql.Node) []*rql.Node {
	if root.Name != "" {
		return []*rql.Node{root}
	}
	nodes := root.Children()
	for _, n := range nodes {
		if typ, ok := n.Type(); ok && typ == rql.TypeVariable {
			return nodes
		}
	}
	return append(nodes, rql.NewNode(string(resolver.EntityVariable)))
}

func entityFor(typ rql.NodeType) resolver.Entity {
	switch typ {
	case rql.TypeDataset:
		return resolver.EntityDataset
	case rql.TypeStudy:
		return resolver.EntityStudy
	case rql.TypeNetwork:
		return resolver.EntityNetwork
	default:
		return resolver.EntityVariable
	}
}
