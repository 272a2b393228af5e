package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Errors describes each failed expectation.
	Errors []string `json:"errors,omitempty"`

	// Locale and WithFacets are reported by the join splitter.
	Locale     string `json:"locale"`
	WithFacets bool   `json:"with_facets"`

	// Bodies holds the search body of every entity the expression
	// referenced, keyed by entity name, as generic JSON values.
	Bodies map[string]any `json:"bodies"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Bodies: make(map[string]any),
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
