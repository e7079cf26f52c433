package reporter

import (
	"sort"
	"strings"
)

// Tag is a single key-value label attached to a metric.
type Tag struct {
	Key   string
	Value string
}

// Tags is an immutable set of tags with unique keys.
// The zero value is an empty set and is ready to use.
type Tags struct {
	// sorted by Key, keys unique
	pairs []Tag
}

// NewTags builds a tag set. When the same key appears more than once the last value wins.
func NewTags(tags ...Tag) Tags {
	if len(tags) == 0 {
		return Tags{}
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	return TagsFromMap(m)
}

// TagsFromMap builds a tag set from a plain key/value mapping. The map is copied.
func TagsFromMap(m map[string]string) Tags {
	if len(m) == 0 {
		return Tags{}
	}
	pairs := make([]Tag, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, Tag{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return Tags{pairs: pairs}
}

// MergeTags returns base with override merged in. Keys present in override replace
// same-keyed entries of base; keys only present in base are preserved.
func MergeTags(base, override Tags) Tags {
	return base.Merge(override)
}

// Merge returns a new set holding t with override merged in; override wins on key collision.
func (t Tags) Merge(override Tags) Tags {
	switch {
	case len(override.pairs) == 0:
		return t
	case len(t.pairs) == 0:
		return override
	}
	out := make([]Tag, 0, len(t.pairs)+len(override.pairs))
	i, j := 0, 0
	for i < len(t.pairs) && j < len(override.pairs) {
		a, b := t.pairs[i], override.pairs[j]
		switch {
		case a.Key < b.Key:
			out = append(out, a)
			i++
		case a.Key > b.Key:
			out = append(out, b)
			j++
		default:
			out = append(out, b)
			i++
			j++
		}
	}
	out = append(out, t.pairs[i:]...)
	out = append(out, override.pairs[j:]...)
	return Tags{pairs: out}
}

// Len returns the number of tags in the set.
func (t Tags) Len() int { return len(t.pairs) }

// Get returns the value stored for key.
func (t Tags) Get(key string) (string, bool) {
	i := sort.Search(len(t.pairs), func(i int) bool { return t.pairs[i].Key >= key })
	if i < len(t.pairs) && t.pairs[i].Key == key {
		return t.pairs[i].Value, true
	}
	return "", false
}

// Map returns a copy of the set as a map. It returns nil for an empty set.
func (t Tags) Map() map[string]string {
	if len(t.pairs) == 0 {
		return nil
	}
	m := make(map[string]string, len(t.pairs))
	for _, p := range t.pairs {
		m[p.Key] = p.Value
	}
	return m
}

// Slice returns a copy of the tags sorted by key.
func (t Tags) Slice() []Tag {
	if len(t.pairs) == 0 {
		return nil
	}
	out := make([]Tag, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// Equal reports whether both sets hold the same key-value pairs.
func (t Tags) Equal(other Tags) bool {
	if len(t.pairs) != len(other.pairs) {
		return false
	}
	for i := range t.pairs {
		if t.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

// String returns the canonical "k1=v1,k2=v2" form, sorted by key.
func (t Tags) String() string {
	var b strings.Builder
	for i, p := range t.pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// identity returns an unambiguous encoding of the set, used in registration keys.
func (t Tags) identity() string {
	var b strings.Builder
	for _, p := range t.pairs {
		b.WriteString(p.Key)
		b.WriteByte('\x1f')
		b.WriteString(p.Value)
		b.WriteByte('\x1e')
	}
	return b.String()
}
