// Package join fans one RQL expression out into a compiled query per entity
// type.
//
// A joined search spans four indices (variable, dataset, study and network).
// Every entity sub-tree is compiled with that entity's own field resolver in
// the request locale. Entities the expression does not mention get an empty
// query, so callers always see all four.
//
// Processing order:
//
//	parse       RQL text to a node tree
//	locale      the first locale(...) directive, applied before any entity
//	entities    each entity node compiled into an rqlquery.Facade
//	finalize    rqlquery.Empty for every entity left uncompiled
//
// An unnamed root (a bare top-level sequence) always queries variables: when
// no variable(...) member is present an empty one is synthesized.
package join
