package rqlquery

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
)

// Facade is the compiled, immutable result of one entity's RQL sub-tree.
type Facade struct {
	tree         querytree.Node
	from         int
	size         int
	hasLimit     bool
	sorts        []SortDirective
	sourceFields []string
	restricted   bool
	hasAggregate bool
	aggregations []string
	queryBuckets []string
	buckets      []string
	terms        TaxonomyTerms
}

var _ Query = (*Facade)(nil)

// Compile compiles an RQL node into a Facade.
//
// When n is an entity node (variable, dataset, study, network) its children
// are dispatched by name:
//
//	limit            pagination
//	sort             sort directives, appended in order
//	aggregate        aggregation and bucket fields
//	select, fields   source-field list
//	filter           a clause held aside and ANDed in front of the main tree
//	anything else    a query clause; several are ANDed in order
//
// Dispatch stops at the first child whose name is not an RQL node type; what
// was compiled before it is kept. Any other node is compiled as a single
// query clause.
//
// The only error is a malformed range literal (see RangeError).
func Compile(n *rql.Node, r resolver.FieldResolver) (*Facade, error) {
	f := &Facade{
		from:  DefaultFrom,
		size:  DefaultSize,
		terms: NewTaxonomyTerms(),
	}
	if n == nil {
		return f, nil
	}

	if typ, ok := n.Type(); ok && typ.IsEntity() {
		if err := f.dispatch(n, r); err != nil {
			return nil, fmt.Errorf("compile %s: %w", n.Name, err)
		}
	} else {
		tree, err := CompileNode(n, r, f.terms)
		if err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
		f.tree = tree
	}

	f.buckets = slices.Clone(f.queryBuckets)
	return f, nil
}

// MustCompile is like Compile but panics on error. Intended for tests.
func MustCompile(n *rql.Node, r resolver.FieldResolver) *Facade {
	f, err := Compile(n, r)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Facade) dispatch(entity *rql.Node, r resolver.FieldResolver) error {
	var clauses []querytree.Node
	var filter querytree.Node

	for _, arg := range entity.Args {
		child, ok := arg.(*rql.Node)
		if !ok {
			slog.Debug("stopping dispatch at non-node argument", "entity", entity.Name, "arg", arg)
			break
		}
		typ, ok := child.Type()
		if !ok {
			slog.Debug("stopping dispatch at unrecognized node", "entity", entity.Name, "name", child.Name)
			break
		}

		switch typ {
		case rql.TypeLimit:
			f.from, f.size = CompileLimit(child)
			f.hasLimit = true
		case rql.TypeSort:
			f.sorts = append(f.sorts, CompileSort(child, r)...)
		case rql.TypeAggregate:
			aggs, buckets := CompileAggregate(child, r)
			f.hasAggregate = true
			f.aggregations = append(f.aggregations, aggs...)
			f.queryBuckets = append(f.queryBuckets, buckets...)
		case rql.TypeSelect, rql.TypeFields:
			f.sourceFields = CompileFields(child)
			f.restricted = true
		case rql.TypeFilter:
			inner, ok := child.Arg(0).(*rql.Node)
			if !ok {
				continue
			}
			tree, err := CompileNode(inner, r, f.terms)
			if err != nil {
				return err
			}
			filter = tree
		default:
			tree, err := CompileNode(child, r, f.terms)
			if err != nil {
				return err
			}
			if tree != nil {
				clauses = append(clauses, tree)
			}
		}
	}

	switch len(clauses) {
	case 0:
	case 1:
		f.tree = clauses[0]
	default:
		f.tree = querytree.And(clauses...)
	}

	if filter != nil {
		if f.tree != nil {
			f.tree = querytree.And(filter, f.tree)
		} else {
			f.tree = filter
		}
	}
	return nil
}

// EnsureAggregationBuckets returns a copy of f whose aggregation buckets are
// the query's bucket fields followed by extra, without duplicates.
func (f *Facade) EnsureAggregationBuckets(extra ...string) *Facade {
	out := *f
	out.buckets = nil
	for _, b := range append(slices.Clone(f.queryBuckets), extra...) {
		if !slices.Contains(out.buckets, b) {
			out.buckets = append(out.buckets, b)
		}
	}
	return &out
}

// IsEmpty implements Query. A compiled facade is never empty.
func (f *Facade) IsEmpty() bool { return false }

func (f *Facade) HasLimit() bool { return f.hasLimit }

func (f *Facade) From() int { return f.from }

func (f *Facade) Size() int { return f.size }

func (f *Facade) HasQueryTree() bool { return f.tree != nil }

func (f *Facade) QueryTree() querytree.Node { return f.tree }

func (f *Facade) Sorts() []SortDirective { return slices.Clone(f.sorts) }

func (f *Facade) SourceFields() ([]string, bool) {
	if !f.restricted {
		return nil, false
	}
	return slices.Clone(f.sourceFields), true
}

func (f *Facade) HasAggregate() bool { return f.hasAggregate }

func (f *Facade) Aggregations() []string { return slices.Clone(f.aggregations) }

func (f *Facade) AggregationBuckets() []string { return slices.Clone(f.buckets) }

func (f *Facade) QueryAggregationBuckets() []string { return slices.Clone(f.queryBuckets) }

// TaxonomyTerms returns a copy of the recorded terms.
func (f *Facade) TaxonomyTerms() TaxonomyTerms { return f.terms.Clone() }
