// Package symtype implements the symbolic type algebra used throughout the
// resolver: primitive kinds, arrays, objects addressed by FQN, and
// compound unions.
package symtype

import "github.com/roblourens/php-language-server/fqn"

// Kind discriminates the cases of Type. The zero Kind is Mixed, so a
// zero-value Type is always the "unknown" type rather than some arbitrary
// primitive.
type Kind int

const (
	Mixed Kind = iota
	Boolean
	Integer
	Float
	String
	ArrayKind
	ObjectKind
	SelfKind
	StaticKind
	ThisKind
	CompoundKind
)

// Type is a symbolic type: either a scalar kind, an Array with optional
// key/value element types, an Object addressed by an optional FQSEN, or a
// Compound union of two or more distinct component types. Values are
// immutable once constructed; every combinator returns a new Type.
type Type struct {
	kind     Kind
	fqsen    fqn.FQN // ObjectKind only; empty means an anonymous class instance
	hasFqsen bool
	elemVal  *Type // ArrayKind only
	elemKey  *Type // ArrayKind only
	compound []Type
}

// NewMixed returns the unknown type.
func NewMixed() Type { return Type{kind: Mixed} }

// NewBoolean, NewInteger, NewFloat, NewString return the corresponding
// scalar type.
func NewBoolean() Type { return Type{kind: Boolean} }
func NewInteger() Type { return Type{kind: Integer} }
func NewFloat() Type   { return Type{kind: Float} }
func NewString() Type  { return Type{kind: String} }

// NewSelf, NewStatic, NewThis return the corresponding contextual type.
func NewSelf() Type   { return Type{kind: SelfKind} }
func NewStatic() Type { return Type{kind: StaticKind} }
func NewThis() Type   { return Type{kind: ThisKind} }

// NewObject returns an Object type bound to fqsen. An anonymous class
// instance is represented by NewAnonymousObject.
func NewObject(f fqn.FQN) Type {
	return Type{kind: ObjectKind, fqsen: f, hasFqsen: true}
}

// NewAnonymousObject returns an Object type with no FQSEN.
func NewAnonymousObject() Type {
	return Type{kind: ObjectKind}
}

// NewArray returns an Array type. Either element type may be nil, meaning
// "unknown for that side".
func NewArray(value, key *Type) Type {
	return Type{kind: ArrayKind, elemVal: value, elemKey: key}
}

// NewCompound builds a union of ts, flattening any nested Compound members
// and deduplicating. If exactly one distinct type results, that single
// type is returned directly rather than a one-element Compound, so a
// Compound value always has at least two distinct members.
func NewCompound(ts ...Type) Type {
	flat := make([]Type, 0, len(ts))
	for _, t := range ts {
		if t.kind == CompoundKind {
			flat = append(flat, t.compound...)
			continue
		}
		flat = append(flat, t)
	}
	uniq := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, u := range uniq {
			if t.Equal(u) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, t)
		}
	}
	if len(uniq) == 1 {
		return uniq[0]
	}
	return Type{kind: CompoundKind, compound: uniq}
}

// Kind reports the discriminant of t.
func (t Type) Kind() Kind { return t.kind }

// IsMixed reports whether t is the unknown type.
func (t Type) IsMixed() bool { return t.kind == Mixed }

// IsCompound reports whether t is a Compound union.
func (t Type) IsCompound() bool { return t.kind == CompoundKind }

// Components returns the members of a Compound type, or a single-element
// slice containing t itself for any other kind. Used by call sites that
// want to treat every type uniformly as "a list of alternatives".
func (t Type) Components() []Type {
	if t.kind == CompoundKind {
		out := make([]Type, len(t.compound))
		copy(out, t.compound)
		return out
	}
	return []Type{t}
}

// FQSEN returns the Object type's bound class name and whether one is
// present. Calling it on a non-Object type returns ("", false).
func (t Type) FQSEN() (fqn.FQN, bool) {
	if t.kind != ObjectKind {
		return "", false
	}
	return t.fqsen, t.hasFqsen
}

// ArrayValue and ArrayKey return the element types of an Array type, or
// nil if unknown or if t is not an Array.
func (t Type) ArrayValue() *Type {
	if t.kind != ArrayKind {
		return nil
	}
	return t.elemVal
}

func (t Type) ArrayKey() *Type {
	if t.kind != ArrayKind {
		return nil
	}
	return t.elemKey
}

// Equal reports whether t and other denote the same type. Compound types
// are equal when they contain the same set of components irrespective of
// order.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case ObjectKind:
		return t.hasFqsen == other.hasFqsen && t.fqsen == other.fqsen
	case ArrayKind:
		return typePtrEqual(t.elemVal, other.elemVal) && typePtrEqual(t.elemKey, other.elemKey)
	case CompoundKind:
		if len(t.compound) != len(other.compound) {
			return false
		}
		for _, a := range t.compound {
			found := false
			for _, b := range other.compound {
				if a.Equal(b) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func typePtrEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// FqnsFromType returns every object FQN mentioned by t, recursing into
// Compound members and Array element types. Anonymous objects (no FQSEN)
// contribute nothing.
func FqnsFromType(t Type) []fqn.FQN {
	var out []fqn.FQN
	collectFqns(t, &out)
	return out
}

func collectFqns(t Type, out *[]fqn.FQN) {
	switch t.kind {
	case ObjectKind:
		if t.hasFqsen {
			*out = append(*out, t.fqsen)
		}
	case CompoundKind:
		for _, c := range t.compound {
			collectFqns(c, out)
		}
	case ArrayKind:
		if t.elemVal != nil {
			collectFqns(*t.elemVal, out)
		}
		if t.elemKey != nil {
			collectFqns(*t.elemKey, out)
		}
	}
}

// FQSENToFQN converts a parser-supplied FQSEN (leading-backslash form) to
// the FQN form this module uses everywhere else, by stripping a single
// leading backslash.
func FQSENToFQN(fqsen string) fqn.FQN {
	if len(fqsen) > 0 && fqsen[0] == '\\' {
		return fqn.FQN(fqsen[1:])
	}
	return fqn.FQN(fqsen)
}
