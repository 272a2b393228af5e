package taxonomy

import "strings"

// KeySeparator joins namespace and vocabulary name in attribute map keys,
// e.g. "Mlstr_area__Diseases".
const KeySeparator = "__"

// AttributeKey identifies a vocabulary within a namespace (taxonomy).
type AttributeKey struct {
	Namespace string
	Name      string
}

// ParseAttributeKey splits an attribute map key into namespace and name.
//
// "ns__voc" is the indexed form. "ns.voc" is accepted as well so that keys
// written in logical notation resolve to the same vocabulary. A key with
// neither separator has no namespace.
func ParseAttributeKey(key string) AttributeKey {
	if ns, name, ok := strings.Cut(key, KeySeparator); ok {
		return AttributeKey{Namespace: ns, Name: name}
	}
	if ns, name, ok := strings.Cut(key, "."); ok {
		return AttributeKey{Namespace: ns, Name: name}
	}
	return AttributeKey{Name: key}
}

// HasNamespace reports whether the key carries a namespace component.
func (k AttributeKey) HasNamespace() bool {
	return k.Namespace != ""
}

// MapKey renders the key in indexed form.
func (k AttributeKey) MapKey() string {
	if k.Namespace == "" {
		return k.Name
	}
	return k.Namespace + KeySeparator + k.Name
}
