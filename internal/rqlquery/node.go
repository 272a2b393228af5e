package rqlquery

import (
	"log/slog"
	"strings"

	"github.com/roach88/rqlsearch/internal/querytree"
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rql"
	"github.com/roach88/rqlsearch/internal/taxonomy"
)

// Free-text constants.
const (
	AllField      = "_all"
	AnalyzedBoost = 5.0
)

// CompileNode compiles one query clause into a query tree.
//
// A nil node with a nil error means the clause contributes nothing: its name
// is unrecognized, it is a directive rather than a clause, or it lacks the
// arguments it needs. terms may be nil, in which case nothing is recorded.
func CompileNode(n *rql.Node, r resolver.FieldResolver, terms TaxonomyTerms) (querytree.Node, error) {
	c := &nodeCompiler{resolver: r, terms: terms}
	return c.compile(n)
}

// nodeCompiler carries the per-compilation context through recursion.
type nodeCompiler struct {
	resolver resolver.FieldResolver
	terms    TaxonomyTerms
}

func (c *nodeCompiler) compile(n *rql.Node) (querytree.Node, error) {
	if n == nil {
		return nil, nil
	}
	typ, ok := n.Type()
	if !ok {
		slog.Debug("ignoring unrecognized rql node", "name", n.Name)
		return nil, nil
	}

	switch typ {
	case rql.TypeAnd, rql.TypeFilter:
		return c.compileAnd(n)
	case rql.TypeNand:
		and, err := c.compileAnd(n)
		if err != nil {
			return nil, err
		}
		return querytree.Not(and), nil
	case rql.TypeOr:
		return c.compileOr(n)
	case rql.TypeNor:
		or, err := c.compileOr(n)
		if err != nil {
			return nil, err
		}
		return querytree.Not(or), nil
	case rql.TypeNot:
		return c.compileNot(n)
	case rql.TypeContains:
		return c.compileContains(n), nil
	case rql.TypeIn:
		return c.compileIn(n)
	case rql.TypeOut:
		return c.compileOut(n), nil
	case rql.TypeEq:
		return c.compileEq(n), nil
	case rql.TypeLe, rql.TypeLt, rql.TypeGe, rql.TypeGt:
		return c.compileBound(n, typ), nil
	case rql.TypeBetween:
		return c.compileBetween(n), nil
	case rql.TypeMatch:
		return c.compileMatch(n), nil
	case rql.TypeLike:
		return c.compileLike(n), nil
	case rql.TypeExists:
		return c.compileExists(n), nil
	case rql.TypeMissing:
		exists := c.compileExists(n)
		return querytree.Not(exists), nil
	case rql.TypeQuery:
		return c.compileQuery(n), nil
	default:
		slog.Debug("rql node is not a query clause", "name", n.Name)
		return nil, nil
	}
}

// compileChildren compiles every nested node argument in order, skipping
// those that contribute nothing.
func (c *nodeCompiler) compileChildren(n *rql.Node) ([]querytree.Node, error) {
	var out []querytree.Node
	for _, arg := range n.Args {
		child, ok := arg.(*rql.Node)
		if !ok {
			slog.Debug("ignoring non-clause argument", "node", n.Name, "arg", arg)
			continue
		}
		tree, err := c.compile(child)
		if err != nil {
			return nil, err
		}
		if tree != nil {
			out = append(out, tree)
		}
	}
	return out, nil
}

func (c *nodeCompiler) compileAnd(n *rql.Node) (querytree.Node, error) {
	children, err := c.compileChildren(n)
	if err != nil {
		return nil, err
	}
	return querytree.And(children...), nil
}

func (c *nodeCompiler) compileOr(n *rql.Node) (querytree.Node, error) {
	children, err := c.compileChildren(n)
	if err != nil {
		return nil, err
	}
	return querytree.Or(children...), nil
}

func (c *nodeCompiler) compileNot(n *rql.Node) (querytree.Node, error) {
	child, ok := n.Arg(0).(*rql.Node)
	if !ok {
		return nil, nil
	}
	tree, err := c.compile(child)
	if err != nil {
		return nil, err
	}
	return querytree.Not(tree), nil
}

// compileContains handles both forms:
//
//	contains(terms)        free-text AND of the terms over default fields
//	contains(field, terms) every term must match the field exactly
func (c *nodeCompiler) compileContains(n *rql.Node) querytree.Node {
	switch n.Len() {
	case 0:
		return nil
	case 1:
		return querytree.FullText{Query: toStringQuery(n.Arg(0), " AND ")}
	}

	field := c.field(n.ArgString(0))
	values := rql.Values(n.Arg(1))
	c.recordTerms(field, rql.Strings(n.Arg(1)))

	must := make([]querytree.Node, len(values))
	for i, v := range values {
		must[i] = querytree.Term{Field: field, Value: v}
	}
	return querytree.Bool{Must: must}
}

func (c *nodeCompiler) compileIn(n *rql.Node) (querytree.Node, error) {
	if n.Len() < 2 {
		return nil, nil
	}
	data := c.resolver.ResolveUnanalyzed(n.ArgString(0))
	if data.IsRange {
		return compileInRange(data.Field, n.Arg(1))
	}

	c.recordTerms(data.Field, rql.Strings(n.Arg(1)))
	return querytree.Terms{Field: data.Field, Values: rql.Values(n.Arg(1))}, nil
}

// compileInRange turns each "from:to" literal into a range clause and ORs
// them. A "*" bound is open; "*:*" contributes nothing.
func compileInRange(field string, arg rql.Value) (querytree.Node, error) {
	var ranges []querytree.Node
	for _, literal := range rql.Strings(arg) {
		from, to, err := splitRange(field, literal)
		if err != nil {
			return nil, err
		}

		r := querytree.Range{Field: field}
		switch {
		case from == "*" && to == "*":
			continue
		case from == "*":
			r.LT = rql.ParseScalar(to)
		case to == "*":
			r.GTE = rql.ParseScalar(from)
		default:
			r.GTE = rql.ParseScalar(from)
			r.LT = rql.ParseScalar(to)
		}
		ranges = append(ranges, r)
	}
	return querytree.Or(ranges...), nil
}

func splitRange(field, literal string) (string, string, error) {
	parts := strings.Split(literal, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &RangeError{Code: ErrCodeRangeFormat, Field: field, Literal: literal}
	}
	return parts[0], parts[1], nil
}

func (c *nodeCompiler) compileOut(n *rql.Node) querytree.Node {
	if n.Len() < 2 {
		return nil
	}
	field := c.field(n.ArgString(0))
	return querytree.Not(querytree.Terms{Field: field, Values: rql.Values(n.Arg(1))})
}

func (c *nodeCompiler) compileEq(n *rql.Node) querytree.Node {
	if n.Len() < 2 {
		return nil
	}
	field := c.field(n.ArgString(0))
	value := n.Arg(1)
	c.recordTerms(field, []string{value.String()})
	return querytree.Term{Field: field, Value: value}
}

func (c *nodeCompiler) compileBound(n *rql.Node, typ rql.NodeType) querytree.Node {
	if n.Len() < 2 {
		return nil
	}
	field := c.field(n.ArgString(0))
	c.recordVocabulary(field)

	r := querytree.Range{Field: field}
	v := n.Arg(1)
	switch typ {
	case rql.TypeLe:
		r.LTE = v
	case rql.TypeLt:
		r.LT = v
	case rql.TypeGe:
		r.GTE = v
	case rql.TypeGt:
		r.GT = v
	}
	return r
}

func (c *nodeCompiler) compileBetween(n *rql.Node) querytree.Node {
	bounds := rql.Values(n.Arg(1))
	if len(bounds) < 2 {
		return nil
	}
	field := c.field(n.ArgString(0))
	c.recordVocabulary(field)
	return querytree.Range{Field: field, GTE: bounds[0], LTE: bounds[1]}
}

// compileMatch builds a free-text query. With one argument it searches the
// catch-all field plus every analyzed field boosted; with two it searches
// exactly the given fields, unboosted.
func (c *nodeCompiler) compileMatch(n *rql.Node) querytree.Node {
	if n.Len() == 0 {
		return querytree.MatchAll{}
	}
	ft := querytree.FullText{Query: toStringQuery(n.Arg(0), " OR ")}

	if n.Len() > 1 {
		for _, f := range rql.Strings(n.Arg(1)) {
			ft.Fields = append(ft.Fields, querytree.Field{Name: c.resolver.Resolve(f).Field})
		}
		return ft
	}

	ft.Fields = append(ft.Fields, querytree.Field{Name: AllField})
	for _, f := range c.resolver.AnalyzedFields() {
		ft.Fields = append(ft.Fields, querytree.Field{Name: c.resolver.Resolve(f).Field, Boost: AnalyzedBoost})
	}
	return ft
}

func (c *nodeCompiler) compileLike(n *rql.Node) querytree.Node {
	if n.Len() < 2 {
		return nil
	}
	field := c.field(n.ArgString(0))
	c.recordVocabulary(field)
	return querytree.Wildcard{Field: field, Pattern: n.ArgString(1)}
}

func (c *nodeCompiler) compileExists(n *rql.Node) querytree.Node {
	if n.Len() < 1 {
		return nil
	}
	field := c.field(n.ArgString(0))
	c.recordVocabulary(field)
	return querytree.Exists{Field: field}
}

// compileQuery passes a raw query string through; "+" stands for a space.
func (c *nodeCompiler) compileQuery(n *rql.Node) querytree.Node {
	if n.Len() < 1 {
		return nil
	}
	return querytree.FullText{Query: strings.ReplaceAll(n.ArgString(0), "+", " ")}
}

// field resolves the exact-match variant used by term-level clauses.
func (c *nodeCompiler) field(name string) string {
	return c.resolver.ResolveUnanalyzed(name).Field
}

// recordTerms records explicit filter terms for an attribute field.
func (c *nodeCompiler) recordTerms(field string, terms []string) {
	key, ok := attributeKey(field)
	if !ok {
		return
	}
	c.terms.Add(key.Namespace, key.Name, terms...)
}

// recordVocabulary records every term of the attribute field's vocabulary.
func (c *nodeCompiler) recordVocabulary(field string) {
	key, ok := attributeKey(field)
	if !ok {
		return
	}
	var all []string
	if v, found := taxonomy.Find(c.resolver.Taxonomies(), key.Namespace, key.Name); found {
		all = v.TermNames()
	}
	c.terms.Add(key.Namespace, key.Name, all...)
}

// attributeKey extracts the namespace/vocabulary key from an attribute field
// of the form "attributes.<key>.und". Keys without a namespace are ignored.
func attributeKey(field string) (taxonomy.AttributeKey, bool) {
	if !strings.HasPrefix(field, resolver.AttributesPath) || !strings.HasSuffix(field, "."+resolver.UndLocale) {
		return taxonomy.AttributeKey{}, false
	}
	inner := strings.TrimPrefix(field, resolver.AttributesPath)
	inner = strings.TrimSuffix(inner, "."+resolver.UndLocale)
	key := taxonomy.ParseAttributeKey(inner)
	return key, key.HasNamespace()
}

// toStringQuery joins terms into a query string, closing any term whose
// double quote is opened but not closed (or the reverse). If any term needed
// fixing the terms are joined with AND whatever joiner was requested, since
// a phrase split across terms must match as a whole.
func toStringQuery(arg rql.Value, joiner string) string {
	terms := rql.Strings(arg)
	unbalanced := false
	for i, t := range terms {
		fixed, changed := balanceQuotes(t)
		terms[i] = fixed
		unbalanced = unbalanced || changed
	}
	if unbalanced {
		joiner = " AND "
	}
	return strings.Join(terms, joiner)
}

func balanceQuotes(t string) (string, bool) {
	starts := strings.HasPrefix(t, `"`)
	ends := strings.HasSuffix(t, `"`)
	switch {
	case starts && !ends:
		return t + `"`, true
	case !starts && ends:
		return `"` + t, true
	}
	return t, false
}
