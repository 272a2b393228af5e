// Package rqlquery compiles one entity's RQL sub-tree into a search query.
//
// # Architecture
//
// Each RQL concern has its own pure compile function, all dispatching on the
// shared rql.NodeType enumeration:
//
//	CompileNode      query clauses (and, or, in, eq, match, ...) -> querytree.Node
//	CompileSort      sort(...)                                   -> []SortDirective
//	CompileLimit     limit(from, size)                           -> (from, size)
//	CompileAggregate aggregate(..., bucket(...), re(...))        -> field lists
//	CompileFields    select(...) / fields(...)                   -> source fields
//
// Compile drives them over the children of an entity node such as
// variable(...) and returns an immutable Facade. Combine ANDs several
// compiled queries into one.
//
// # Leniency
//
// An unrecognized node name is not an error. Inside a clause it contributes
// nothing (CompileNode returns a nil node and a nil error). At the top level
// of an entity node it ends dispatch: everything compiled before it is kept,
// everything after it is ignored. The only compile-time errors are malformed
// range literals (RangeError), which callers should surface as bad requests.
//
// # Taxonomy terms
//
// Clauses on attribute fields ("attributes.<ns>__<voc>.und") record the
// terms they filter on in a TaxonomyTerms accumulator. Clauses that carry
// no explicit terms (exists, missing, like, ranges) record every term of
// the matching vocabulary. The accumulator is created per compilation and
// never shared.
package rqlquery
