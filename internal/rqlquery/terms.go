package rqlquery

import (
	"slices"
)

// TaxonomyTerms maps namespace -> vocabulary -> terms, in recording order.
type TaxonomyTerms map[string]map[string][]string

// NewTaxonomyTerms returns an empty accumulator.
func NewTaxonomyTerms() TaxonomyTerms {
	return make(TaxonomyTerms)
}

// Add appends terms under namespace/vocabulary, creating the entry even when
// no terms are given. Adding to a nil TaxonomyTerms is a no-op.
func (t TaxonomyTerms) Add(namespace, vocabulary string, terms ...string) {
	if t == nil {
		return
	}
	vocabularies, ok := t[namespace]
	if !ok {
		vocabularies = make(map[string][]string)
		t[namespace] = vocabularies
	}
	vocabularies[vocabulary] = append(vocabularies[vocabulary], terms...)
}

// Get returns the terms recorded for namespace/vocabulary.
func (t TaxonomyTerms) Get(namespace, vocabulary string) []string {
	return t[namespace][vocabulary]
}

// Has reports whether an entry exists for namespace/vocabulary.
func (t TaxonomyTerms) Has(namespace, vocabulary string) bool {
	_, ok := t[namespace][vocabulary]
	return ok
}

// Merge appends every entry of other into t.
func (t TaxonomyTerms) Merge(other TaxonomyTerms) {
	for ns, vocabularies := range other {
		for voc, terms := range vocabularies {
			t.Add(ns, voc, terms...)
		}
	}
}

// Clone returns a deep copy.
func (t TaxonomyTerms) Clone() TaxonomyTerms {
	out := make(TaxonomyTerms, len(t))
	for ns, vocabularies := range t {
		inner := make(map[string][]string, len(vocabularies))
		for voc, terms := range vocabularies {
			inner[voc] = slices.Clone(terms)
		}
		out[ns] = inner
	}
	return out
}

// Namespaces returns the recorded namespaces in sorted order.
func (t TaxonomyTerms) Namespaces() []string {
	var keys []string
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
