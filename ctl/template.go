package ctl

import (
	"strconv"
	"strings"
)

// BoundFunc reports the exclusive upper bound for an index slot, for example
// the current arena count. Bounds are consulted only when a resolution
// actually reaches the native surface (cache misses and stale re-binds), so
// they may issue native calls without taxing the hot path.
type BoundFunc func() (uint64, error)

// segment is one dotted component of a key template: either a literal or an
// index slot.
type segment struct {
	lit  string
	slot bool
}

// Template is a key path with designated index slots, parsed once at
// construction. Slots are written in angle brackets, following the native
// documentation's convention:
//
//	stats.arenas.<i>.small.allocated
//
// The slot's spelled name (<i>, <j>, ...) is cosmetic; slots are positional.
// Resolution substitutes the indices, then translates the substituted name
// through the channel's MIB cache, hitting the native surface only on the
// first use of each distinct path.
type Template struct {
	pattern string
	segs    []segment
	arity   int
	bounds  []BoundFunc // len == arity; nil entries mean unbounded
}

// NewTemplate parses a key pattern. Patterns must be non-empty dotted paths;
// each component is either a literal or an angle-bracketed slot.
func NewTemplate(pattern string) (*Template, error) {
	if pattern == "" {
		return nil, localErr("resolve", pattern, ErrInvalidArgument)
	}
	parts := strings.Split(pattern, ".")
	t := &Template{pattern: pattern, segs: make([]segment, 0, len(parts))}
	for _, p := range parts {
		switch {
		case p == "":
			return nil, localErr("resolve", pattern, ErrInvalidArgument)
		case strings.HasPrefix(p, "<") && strings.HasSuffix(p, ">"):
			t.segs = append(t.segs, segment{slot: true})
			t.arity++
		default:
			t.segs = append(t.segs, segment{lit: p})
		}
	}
	t.bounds = make([]BoundFunc, t.arity)
	return t, nil
}

// MustTemplate is NewTemplate for catalog literals; it panics on a malformed
// pattern.
func MustTemplate(pattern string) *Template {
	t, err := NewTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// Arity returns the number of index slots.
func (t *Template) Arity() int { return t.arity }

// Pattern returns the original pattern string.
func (t *Template) Pattern() string { return t.pattern }

// Bind attaches a bound to the slot-th index slot (zero-based). Returns the
// template for chaining during catalog construction.
func (t *Template) Bind(slot int, bound BoundFunc) *Template {
	t.bounds[slot] = bound
	return t
}

// Name returns the fully substituted dotted name.
func (t *Template) Name(indices ...uint64) (string, error) {
	if len(indices) != t.arity {
		return "", localErr("resolve", t.pattern, ErrInvalidArgument)
	}
	var b strings.Builder
	b.Grow(len(t.pattern) + 8*t.arity)
	next := 0
	for i, s := range t.segs {
		if i > 0 {
			b.WriteByte('.')
		}
		if s.slot {
			b.WriteString(strconv.FormatUint(indices[next], 10))
			next++
		} else {
			b.WriteString(s.lit)
		}
	}
	return b.String(), nil
}

// Resolve substitutes the indices and returns the MIB for the resulting
// path, consulting the channel's cache first.
func (t *Template) Resolve(c *Channel, indices ...uint64) (MIB, error) {
	mib, _, err := t.resolve(c, indices)
	return mib, err
}

// resolve is Resolve plus a cache-hit flag, which the knob layer needs to
// distinguish a stale cached handle from a genuinely unknown name.
func (t *Template) resolve(c *Channel, indices []uint64) (MIB, bool, error) {
	name, err := t.Name(indices...)
	if err != nil {
		return nil, false, err
	}
	if mib, ok := c.cache.lookup(name); ok {
		return mib, true, nil
	}
	mib, err := t.bind(c, name, indices)
	return mib, false, err
}

// rebind drops any cached entry for the substituted path and performs a
// fresh native lookup. Used exactly once when a cached handle turns stale.
func (t *Template) rebind(c *Channel, indices []uint64) (MIB, error) {
	name, err := t.Name(indices...)
	if err != nil {
		return nil, err
	}
	c.cache.drop(name)
	return t.bind(c, name, indices)
}

// bind checks slot bounds, performs the native lookup, and stores the
// result. Bounds are validated here, before the native call, so an
// out-of-range index never produces a malformed native lookup.
func (t *Template) bind(c *Channel, name string, indices []uint64) (MIB, error) {
	for slot, bound := range t.bounds {
		if bound == nil {
			continue
		}
		limit, err := bound()
		if err != nil {
			return nil, err
		}
		if indices[slot] >= limit {
			return nil, localErr("resolve", name, ErrInvalidArgument)
		}
	}
	return c.cache.resolve(name, func() (MIB, error) {
		mib, code := c.s.NameToMIB(name)
		if code != ErrnoOK {
			return nil, nativeErr("resolve", name, code)
		}
		return mib, nil
	})
}
