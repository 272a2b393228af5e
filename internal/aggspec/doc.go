// Package aggspec builds nested aggregation specifications from a flat,
// dotted-suffix property table.
//
// Each aggregated field is declared by a family of keys sharing the field
// name as prefix:
//
//	<field>            declares a terms aggregation (value ignored)
//	<field>.localized  "true" fans out one aggregation per locale
//	<field>.alias      comma-separated aggregation names
//	<field>.type       comma-separated kinds, parallel to the aliases:
//	                   terms, stats or range
//	<field>.ranges     comma-separated from:to pairs for range kinds; "*" is
//	                   an open bound
//
// A localized field always aggregates as terms, whatever type is configured.
// Localized aggregations are named <name>.<locale> over <field>.<locale>,
// plus <name>.und over <field>.und.
//
// A second table, keyed by aggregated field name, holds the sub-aggregations
// nested under that field. Sub-tables do not nest further, and a child
// aggregating the parent's own field is dropped.
package aggspec
