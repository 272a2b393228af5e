// Package rql provides the abstract syntax tree and parser for RQL
// (resource query language) expressions.
//
// An RQL expression is a tree of named calls with positional arguments:
//
//	variable(and(in(Mlstr_area.Diseases,(Cancer,Diabetes)),match(blood)),limit(0,20),sort(-name))
//
// This package owns the AST only. Compilation into search queries lives in
// rqlquery (single entity) and join (multi-entity). Every package that
// consumes RQL imports rql; rql imports nothing internal.
//
// Key constraints:
//   - Nodes are immutable once parsed. Compilers read them, never rewrite them.
//   - Argument values form a sealed union (String, Int, Float, Bool, Null,
//     List, *Node) so compilers can switch over them exhaustively.
//   - Node names are matched case-insensitively through LookupType.
package rql
