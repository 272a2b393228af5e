package rql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical renders an RQL value as canonical JSON for hashing.
//
// Nodes become {"args":[...],"name":"..."} with keys in fixed sorted order,
// lists become arrays, strings are NFC normalized and never HTML-escaped.
// Node names are lower-cased so that "EQ(a,1)" and "eq(a,1)" share one
// identity, matching the case-insensitive dispatch of the compilers.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("nil value is not canonicalizable")
	case *Node:
		if val == nil {
			return fmt.Errorf("nil node is not canonicalizable")
		}
		buf.WriteString(`{"args":[`)
		for i, a := range val.Args {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, a); err != nil {
				return fmt.Errorf("%s[%d]: %w", val.Name, i, err)
			}
		}
		buf.WriteString(`],"name":`)
		name := val.Name
		if t, ok := LookupType(name); ok {
			name = t.String()
		}
		return writeCanonicalString(buf, name)
	case List:
		buf.WriteByte('[')
		for i, a := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, a); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case String:
		return writeCanonicalString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case Float:
		buf.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
		return nil
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
		return nil
	case Null:
		buf.WriteString("null")
		return nil
	default:
		return fmt.Errorf("unsupported value type: %T", v)
	}
}

// writeCanonicalString writes s as a JSON string after NFC normalization.
// <, > and & are not escaped.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}
