package aggspec

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Property key suffixes.
const (
	SuffixLocalized = ".localized"
	SuffixAlias     = ".alias"
	SuffixType      = ".type"
	SuffixRanges    = ".ranges"
)

// Locale suffixes.
const (
	DefaultLocale = "en"
	UndLocale     = "und"
)

var suffixes = []string{SuffixLocalized, SuffixAlias, SuffixType, SuffixRanges}

// Parser turns property tables into aggregation specs.
type Parser struct {
	// Locales lists the locales localized fields fan out to. Empty means
	// DefaultLocale only.
	Locales []string

	// MinDocCount applies to every terms aggregation. Negative values are
	// treated as zero.
	MinDocCount int
}

// Parse builds the aggregations declared by props. sub maps an aggregated
// field name to the property table of its sub-aggregations. Either may be
// nil.
func (p Parser) Parse(props map[string]string, sub map[string]map[string]string) (map[string]Spec, error) {
	return p.parse(props, sub)
}

// family gathers the properties of one aggregated field.
type family struct {
	prefix    string
	localized bool
	aliases   []string
	types     []string
	ranges    string
	hasRanges bool
}

func (p Parser) parse(props map[string]string, sub map[string]map[string]string) (map[string]Spec, error) {
	out := make(map[string]Spec)
	families := group(props)

	var prefixes []string
	for k := range families {
		prefixes = append(prefixes, k)
	}
	slices.Sort(prefixes)
	for _, prefix := range prefixes {
		specs, err := p.build(families[prefix], sub)
		if err != nil {
			return nil, err
		}
		maps.Copy(out, specs)
	}
	return out, nil
}

// group collects keys by field prefix.
func group(props map[string]string) map[string]*family {
	families := make(map[string]*family)
	get := func(prefix string) *family {
		f, ok := families[prefix]
		if !ok {
			f = &family{prefix: prefix}
			families[prefix] = f
		}
		return f
	}

	for key, value := range props {
		prefix, suffix := splitKey(key)
		f := get(prefix)
		switch suffix {
		case SuffixLocalized:
			f.localized = strings.EqualFold(strings.TrimSpace(value), "true")
		case SuffixAlias:
			f.aliases = splitList(value)
		case SuffixType:
			f.types = splitList(value)
		case SuffixRanges:
			f.ranges = value
			f.hasRanges = true
		}
	}
	return families
}

func splitKey(key string) (prefix, suffix string) {
	for _, s := range suffixes {
		if strings.HasSuffix(key, s) {
			return strings.TrimSuffix(key, s), s
		}
	}
	return key, ""
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func (p Parser) build(f *family, sub map[string]map[string]string) (map[string]Spec, error) {
	types := f.types
	if len(types) == 0 {
		types = []string{string(KindTerms)}
	}

	out := make(map[string]Spec)
	for i, typ := range types {
		kind := p.kind(f, typ)
		alias := ""
		if i < len(f.aliases) {
			alias = f.aliases[i]
		}

		for _, target := range p.targets(f, alias) {
			slog.Debug("building aggregation", "name", target.name, "kind", kind)

			spec := Spec{Name: target.name, Kind: kind, Field: target.field}
			switch kind {
			case KindTerms:
				spec.Size = TermsSize
				spec.MinDocCount = max(p.MinDocCount, 0)
			case KindRange:
				buckets, err := parseRanges(f)
				if err != nil {
					return nil, err
				}
				spec.Ranges = buckets
			}

			if sub != nil {
				if table, ok := sub[target.field]; ok {
					children, err := p.parse(table, nil)
					if err != nil {
						return nil, fmt.Errorf("sub-aggregations of %s: %w", target.field, err)
					}
					for name, child := range children {
						if name == target.field || child.Field == target.field {
							delete(children, name)
						}
					}
					if len(children) > 0 {
						spec.Children = children
					}
				}
			}
			out[spec.Name] = spec
		}
	}
	return out, nil
}

// kind maps a configured type to an aggregation kind. Localized fields
// always aggregate as terms; unknown types fall back to terms.
func (p Parser) kind(f *family, typ string) Kind {
	k := Kind(strings.ToLower(typ))
	if f.localized {
		if k == KindStats || k == KindRange {
			slog.Warn("localized aggregation overrides configured type",
				"field", f.prefix, "type", typ, "using", KindTerms)
		}
		return KindTerms
	}
	switch k {
	case KindTerms, KindStats, KindRange:
		return k
	case "":
		return KindTerms
	default:
		slog.Debug("unknown aggregation type, using terms", "field", f.prefix, "type", typ)
		return KindTerms
	}
}

type target struct {
	name  string
	field string
}

// targets lists the (name, field) pairs one declared type produces.
func (p Parser) targets(f *family, alias string) []target {
	name := alias
	if name == "" {
		name = f.prefix
	}
	if !f.localized {
		return []target{{name: name, field: f.prefix}}
	}

	locales := p.Locales
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}
	out := make([]target, 0, len(locales)+1)
	for _, l := range locales {
		out = append(out, target{name: name + "." + l, field: f.prefix + "." + l})
	}
	return append(out, target{name: name + "." + UndLocale, field: f.prefix + "." + UndLocale})
}

// parseRanges parses "from:to,from:to". A "*:*" entry adds no window.
func parseRanges(f *family) ([]Bucket, error) {
	key := f.prefix + SuffixRanges
	if !f.hasRanges {
		return nil, &ConfigError{Code: ErrCodeRangeFormat, Key: key, Message: "range aggregation requires ranges"}
	}

	var out []Bucket
	for _, entry := range splitList(f.ranges) {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			return nil, &ConfigError{Code: ErrCodeRangeFormat, Key: key, Value: entry, Message: "range from and to are not defined"}
		}
		from, err := parseBound(key, parts[0])
		if err != nil {
			return nil, err
		}
		to, err := parseBound(key, parts[1])
		if err != nil {
			return nil, err
		}
		if from == nil && to == nil {
			continue
		}
		out = append(out, Bucket{From: from, To: to})
	}

	if len(out) == 0 {
		return nil, &ConfigError{Code: ErrCodeRangeFormat, Key: key, Value: f.ranges, Message: "range aggregation has no bounded window"}
	}
	return out, nil
}

func parseBound(key, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "*" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ConfigError{Code: ErrCodeRangeValue, Key: key, Value: raw, Message: "range bound is not a number"}
	}
	return &v, nil
}

// BucketTables returns a sub-aggregation table that nests props under each
// bucket field: every bucket aggregation then breaks down by every declared
// aggregation.
func BucketTables(buckets []string, props map[string]string) map[string]map[string]string {
	if len(buckets) == 0 {
		return nil
	}
	out := make(map[string]map[string]string, len(buckets))
	for _, b := range buckets {
		out[b] = props
	}
	return out
}
