// Package harness runs conformance scenarios against the RQL compiler.
//
// A scenario is a YAML file naming an RQL expression, the field mapping to
// compile it with, and expectations on the per-entity search bodies the
// join splitter produces.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	config: ../config/rqlsearch.cue   # or an inline resolver block
//	resolver:
//	  analyzed: [name]
//	  taxonomies: [../taxonomies/area.yaml]
//	  fields:
//	    size: { field: stats.size, range: true }
//	locale: en
//	scope: detail
//	rql: "variable(in(Mlstr_area.Diseases,Cancer)),locale(fr)"
//	expect_locale: fr
//	expect_facets: false
//	expect:
//	  - entity: variable
//	    has_query: true
//	    from: 0
//	    size: 10
//	    taxonomy_terms: { Mlstr_area: { Diseases: [Cancer] } }
//	    source_fields: [id, name]
//	    sorts: ["-name"]
//	    query: { terms: { attributes.Mlstr_area__Diseases.und: [Cancer] } }
//	  - entity: study
//	    empty: true
//
// Paths are relative to the scenario file. The query block is a subset
// match against the compiled "query" object: every key it names must be
// present with an equal value, extra keys are ignored, and lists compare
// element by element.
//
// # Determinism
//
// Compilation is pure, so bodies are identical across runs and can be
// snapshotted with RunWithGolden:
//
//	go test ./internal/harness -update
package harness
