package rql

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// rqlLexer tokenizes RQL text. Values are any run of characters that are not
// structural; quotes carry no meaning to the lexer and stay inside the value.
var rqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Amp", Pattern: `&`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "Value", Pattern: `[^(),&|\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// rawQuery is the parse tree matching the grammar; it is converted to *Node
// after parsing.
type rawQuery struct {
	Expr *rawOr `@@?`
}

type rawOr struct {
	Head *rawAnd   `@@`
	Tail []*rawAnd `( "|" @@ )*`
}

type rawAnd struct {
	Head *rawPrimary   `@@`
	Tail []*rawAndTail `@@*`
}

type rawAndTail struct {
	Op   string      `@( "&" | "," )`
	Term *rawPrimary `@@`
}

type rawPrimary struct {
	Call  *rawCall `  @@`
	Group *rawOr   `| "(" @@ ")"`
}

type rawCall struct {
	Pos  lexer.Position
	Name string    `@Value "("`
	Args []*rawArg `( @@ ( "," @@ )* )? ")"`
}

type rawArg struct {
	Call  *rawCall `  @@`
	List  *rawList `| @@`
	Value *string  `| @Value`
}

type rawList struct {
	Open  string    `@"("`
	Items []*rawArg `( @@ ( "," @@ )* )? ")"`
}

var parser = participle.MustBuild[rawQuery](
	participle.Lexer(rqlLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4),
)

// SyntaxError reports malformed RQL text.
type SyntaxError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rql syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// Parse parses RQL text into a node tree.
//
// Grammar:
//
//	query   := [ or ]
//	or      := and { "|" and }
//	and     := primary { ("&" | ",") primary }
//	primary := call | "(" or ")"
//	call    := NAME "(" [ arg { "," arg } ] ")"
//	arg     := call | "(" [ arg { "," arg } ] ")" | VALUE
//
// A top-level comma sequence yields an unnamed node whose arguments are the
// sequence members. "&" yields an "and" node and "|" an "or" node. Empty
// text yields an unnamed node with no arguments.
func Parse(text string) (*Node, error) {
	raw, err := parser.ParseString("", text)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			return nil, &SyntaxError{
				Offset:  pos.Offset,
				Line:    pos.Line,
				Column:  pos.Column,
				Message: perr.Message(),
			}
		}
		return nil, fmt.Errorf("parse rql: %w", err)
	}
	if raw.Expr == nil {
		return &Node{}, nil
	}

	root := convertOr(raw.Expr, true)
	if n, ok := root.(*Node); ok {
		return n, nil
	}
	// Unreachable with the grammar above: primaries are always calls or groups.
	return &Node{Args: []Value{root}}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(text string) *Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

func convertOr(r *rawOr, root bool) Value {
	if len(r.Tail) == 0 {
		return convertAnd(r.Head, root)
	}
	args := make([]Value, 0, len(r.Tail)+1)
	args = append(args, convertAnd(r.Head, false))
	for _, t := range r.Tail {
		args = append(args, convertAnd(t, false))
	}
	return &Node{Name: "or", Args: args}
}

func convertAnd(r *rawAnd, root bool) Value {
	if len(r.Tail) == 0 {
		return convertPrimary(r.Head)
	}
	name := ""
	args := make([]Value, 0, len(r.Tail)+1)
	args = append(args, convertPrimary(r.Head))
	for _, t := range r.Tail {
		if t.Op == "&" || !root {
			name = "and"
		}
		args = append(args, convertPrimary(t.Term))
	}
	return &Node{Name: name, Args: args}
}

func convertPrimary(p *rawPrimary) Value {
	if p.Group != nil {
		return convertOr(p.Group, false)
	}
	return convertCall(p.Call)
}

func convertCall(c *rawCall) *Node {
	n := &Node{Name: c.Name}
	if len(c.Args) > 0 {
		n.Args = make([]Value, len(c.Args))
		for i, a := range c.Args {
			n.Args[i] = convertArg(a)
		}
	}
	return n
}

func convertArg(a *rawArg) Value {
	switch {
	case a.Call != nil:
		return convertCall(a.Call)
	case a.List != nil:
		items := make(List, len(a.List.Items))
		for i, item := range a.List.Items {
			items[i] = convertArg(item)
		}
		return items
	case a.Value != nil:
		return ParseScalar(decode(*a.Value))
	default:
		return Null{}
	}
}

// decode percent-decodes a value token. "+" is kept literally: query()
// interprets it as a space itself, other operators treat it as text.
func decode(raw string) string {
	if !strings.Contains(raw, "%") {
		return raw
	}
	s, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return s
}
