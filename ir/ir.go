// Package ir defines the tree-structured object used to persist corpus
// values.
//
// An Object is either an atom (an unsigned integer, a float or a string), an
// ordered sequence of child objects, or None. Objects are immutable values.
package ir

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the shape of an Object.
type Kind int

const (
	KindNone Kind = iota
	KindUint
	KindFloat
	KindString
	KindSeq
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSeq:
		return "seq"
	default:
		return "unknown"
	}
}

// Object is a node of the IR tree.
type Object struct {
	kind Kind
	u    uint64
	f    float64
	s    string
	seq  []Object
}

// None returns the empty object.
func None() Object {
	return Object{}
}

// Uint returns an unsigned integer atom.
func Uint(v uint64) Object {
	return Object{kind: KindUint, u: v}
}

// Float returns a floating point atom.
func Float(v float64) Object {
	return Object{kind: KindFloat, f: v}
}

// String returns a string atom.
func String(v string) Object {
	return Object{kind: KindString, s: v}
}

// Seq returns a sequence node holding a copy of children.
func Seq(children ...Object) Object {
	seq := make([]Object, len(children))
	copy(seq, children)
	return Object{kind: KindSeq, seq: seq}
}

// Kind reports the shape of o.
func (o Object) Kind() Kind {
	return o.kind
}

// IsNone reports whether o is the empty object.
func (o Object) IsNone() bool {
	return o.kind == KindNone
}

// AsUint returns the integer payload, or false when o is not a uint atom.
func (o Object) AsUint() (uint64, bool) {
	return o.u, o.kind == KindUint
}

// AsFloat returns the float payload, or false when o is not a float atom.
func (o Object) AsFloat() (float64, bool) {
	return o.f, o.kind == KindFloat
}

// AsString returns the string payload, or false when o is not a string atom.
func (o Object) AsString() (string, bool) {
	return o.s, o.kind == KindString
}

// AsSeq returns a copy of the children, or false when o is not a sequence.
func (o Object) AsSeq() ([]Object, bool) {
	if o.kind != KindSeq {
		return nil, false
	}
	seq := make([]Object, len(o.seq))
	copy(seq, o.seq)
	return seq, true
}

// Len returns the number of children of a sequence and 0 for anything else.
func (o Object) Len() int {
	return len(o.seq)
}

// Child returns the i-th child of a sequence.
func (o Object) Child(i int) (Object, bool) {
	if o.kind != KindSeq || i < 0 || i >= len(o.seq) {
		return Object{}, false
	}
	return o.seq[i], true
}

// Equal reports whether o and other have the same shape and payloads.
// Float atoms compare bitwise, so NaN payloads equal themselves.
func (o Object) Equal(other Object) bool {
	if o.kind != other.kind {
		return false
	}
	switch o.kind {
	case KindNone:
		return true
	case KindUint:
		return o.u == other.u
	case KindFloat:
		return math.Float64bits(o.f) == math.Float64bits(other.f)
	case KindString:
		return o.s == other.s
	case KindSeq:
		if len(o.seq) != len(other.seq) {
			return false
		}
		for i := range o.seq {
			if !o.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Format renders o in a compact debugging form, e.g. "(u:3 (u:1))".
func (o Object) Format() string {
	var sb strings.Builder
	o.format(&sb)
	return sb.String()
}

func (o Object) format(sb *strings.Builder) {
	switch o.kind {
	case KindNone:
		sb.WriteString("none")
	case KindUint:
		fmt.Fprintf(sb, "u:%d", o.u)
	case KindFloat:
		fmt.Fprintf(sb, "f:%g", o.f)
	case KindString:
		fmt.Fprintf(sb, "s:%q", o.s)
	case KindSeq:
		sb.WriteByte('(')
		for i, child := range o.seq {
			if i > 0 {
				sb.WriteByte(' ')
			}
			child.format(sb)
		}
		sb.WriteByte(')')
	}
}
