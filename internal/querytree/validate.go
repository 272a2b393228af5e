package querytree

import "fmt"

// ValidationResult reports suspicious but legal constructs in a tree.
//
// None of the warned constructs is rejected by the search engine; they
// usually point at RQL that compiled into less than its author intended
// (an "or" whose children were all unrecognized, a range with no bounds).
type ValidationResult struct {
	// Valid is true when no warnings were raised.
	Valid bool

	// Warnings describes each finding, in traversal order.
	Warnings []string
}

// Validate walks a tree and collects warnings.
//
// Checks:
//  1. Empty Bool nodes (they evaluate as match-all)
//  2. Range nodes with no bound
//  3. FullText nodes with an empty query
//  4. Term, Terms, Range, Exists and Wildcard nodes with an empty field
//  5. Terms nodes with no values (they match nothing)
//  6. nil children inside Bool clauses
//
// Validate is a pure function with no side effects.
func Validate(n Node) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateNode(n, "$")

	return ValidationResult{
		Valid:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateNode(n Node, path string) {
	switch node := n.(type) {
	case nil:
		v.addWarning("%s: nil query node", path)
	case MatchAll, *MatchAll:
		// always valid
	case Term:
		v.checkField(node.Field, path, "term")
	case Terms:
		v.checkField(node.Field, path, "terms")
		if len(node.Values) == 0 {
			v.addWarning("%s: terms on '%s' has no values and matches nothing", path, node.Field)
		}
	case Range:
		v.checkField(node.Field, path, "range")
		if !node.HasBound() {
			v.addWarning("%s: range on '%s' has no bound", path, node.Field)
		}
	case Exists:
		v.checkField(node.Field, path, "exists")
	case FullText:
		if node.Query == "" {
			v.addWarning("%s: full-text query is empty", path)
		}
	case Wildcard:
		v.checkField(node.Field, path, "wildcard")
	case Bool:
		v.validateBool(node, path)
	case *Bool:
		if node != nil {
			v.validateBool(*node, path)
		}
	default:
		v.addWarning("%s: unknown query node type %T", path, n)
	}
}

func (v *validator) validateBool(b Bool, path string) {
	if b.IsEmpty() {
		v.addWarning("%s: bool has no clauses and evaluates as match-all", path)
		return
	}
	v.validateClauses(b.Must, path+".must")
	v.validateClauses(b.Should, path+".should")
	v.validateClauses(b.MustNot, path+".must_not")
}

func (v *validator) validateClauses(nodes []Node, path string) {
	for i, child := range nodes {
		v.validateNode(child, fmt.Sprintf("%s[%d]", path, i))
	}
}

func (v *validator) checkField(field, path, kind string) {
	if field == "" {
		v.addWarning("%s: %s has an empty field", path, kind)
	}
}
