package join

import (
	"github.com/roach88/rqlsearch/internal/resolver"
	"github.com/roach88/rqlsearch/internal/rqlquery"
)

// Result holds one query per entity type plus the shared directives.
// Every entity has a query; unreferenced ones are rqlquery.Empty.
type Result struct {
	queries    map[resolver.Entity]rqlquery.Query
	locale     string
	withFacets bool
}

// Query returns the query compiled for entity. Unknown entities yield
// rqlquery.Empty.
func (r *Result) Query(entity resolver.Entity) rqlquery.Query {
	if q, ok := r.queries[entity]; ok {
		return q
	}
	return rqlquery.Empty{}
}

func (r *Result) Variable() rqlquery.Query { return r.Query(resolver.EntityVariable) }
func (r *Result) Dataset() rqlquery.Query  { return r.Query(resolver.EntityDataset) }
func (r *Result) Study() rqlquery.Query    { return r.Query(resolver.EntityStudy) }
func (r *Result) Network() rqlquery.Query  { return r.Query(resolver.EntityNetwork) }

// Locale returns the locale every entity was compiled in.
func (r *Result) Locale() string { return r.locale }

// WithFacets reports whether a facet() directive was present.
func (r *Result) WithFacets() bool { return r.withFacets }

// SearchOnNetworksOnly reports whether only the network query restricts
// anything: the network query has a tree and no other entity does.
func (r *Result) SearchOnNetworksOnly() bool {
	if !r.Network().HasQueryTree() {
		return false
	}
	for _, e := range []resolver.Entity{resolver.EntityVariable, resolver.EntityDataset, resolver.EntityStudy} {
		if r.Query(e).HasQueryTree() {
			return false
		}
	}
	return true
}
