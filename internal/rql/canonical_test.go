package rql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Node(t *testing.T) {
	n := NewNode("eq", String("name"), Int(3))

	out, err := MarshalCanonical(n)
	require.NoError(t, err)
	assert.Equal(t, `{"args":["name",3],"name":"eq"}`, string(out))
}

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"html not escaped", String("a<b&c"), `"a<b&c"`},
		{"int", Int(-12), "-12"},
		{"float", Float(2.5), "2.5"},
		{"bool", Bool(true), "true"},
		{"null", Null{}, "null"},
		{"empty list", List{}, "[]"},
		{"list", List{String("a"), Int(1)}, `["a",1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as e + combining acute accent vs precomposed
	decomposed, err := MarshalCanonical(String("e\u0301"))
	require.NoError(t, err)
	composed, err := MarshalCanonical(String("\u00e9"))
	require.NoError(t, err)

	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonical_NilRejected(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(NewNode("and", nil))
	assert.Error(t, err)
}

func TestFingerprint_Stability(t *testing.T) {
	a, err := Fingerprint(MustParse("variable(EQ(a,1),limit(0,10))"))
	require.NoError(t, err)
	b, err := Fingerprint(MustParse(" variable( eq(a,1), limit(0,10) ) "))
	require.NoError(t, err)
	c, err := Fingerprint(MustParse("variable(eq(a,2),limit(0,10))"))
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b, "case and whitespace do not change identity")
	assert.NotEqual(t, a, c)
}
