// Package esdsl serializes compiled queries into the Elasticsearch JSON
// query DSL.
//
// Output is built from plain maps and slices so it can be marshaled with
// encoding/json; Marshal fixes the formatting (sorted keys, two-space
// indent, no HTML escaping) so that output is byte-stable for golden files.
//
// Query tree shapes:
//
//	MatchAll   {"match_all": {}}
//	Term       {"term": {field: value}}
//	Terms      {"terms": {field: [values]}}
//	Range      {"range": {field: {"gte": v, "lt": v, ...}}}
//	Exists     {"exists": {"field": field}}
//	FullText   {"query_string": {"query": q, "fields": ["f^5.0"]}}
//	Wildcard   {"wildcard": {field: {"value": pattern}}}
//	Bool       {"bool": {"must": [...], "should": [...], "must_not": [...]}}
//
// An empty Bool serializes as {"bool": {}}, which the engine evaluates as
// match-all.
package esdsl
