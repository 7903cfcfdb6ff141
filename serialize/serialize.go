// Package serialize converts IR objects to and from JSON and YAML text so
// corpus values can be stored in files and read back.
//
// Both encodings share one shape. Every node is a mapping with at most one
// key: {} is None, {"u": 3} an unsigned integer, {"f": 0.5} a float,
// {"s": "x"} a string, {"seq": [...]} a sequence. Non-finite floats are
// written as the strings "NaN", "+Inf" and "-Inf".
package serialize

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/lex00/fuzzdomain-go/ir"
)

const (
	keyUint   = "u"
	keyFloat  = "f"
	keyString = "s"
	keySeq    = "seq"
)

// Option configures serialization behavior.
type Option func(*options)

type options struct {
	indent bool
}

// Indent pretty-prints JSON output. YAML output is always block formatted.
var Indent Option = func(o *options) {
	o.indent = true
}

// ToJSON serializes an IR object to JSON bytes with the given options.
func ToJSON(obj ir.Object, opts ...Option) ([]byte, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	doc, err := encodeJSON(obj)
	if err != nil {
		return nil, err
	}
	if o.indent {
		return pretty.Pretty([]byte(doc)), nil
	}
	return []byte(doc), nil
}

// FromJSON parses JSON bytes produced by ToJSON.
func FromJSON(data []byte) (ir.Object, error) {
	if !gjson.ValidBytes(data) {
		return ir.None(), fmt.Errorf("invalid JSON")
	}
	return decodeJSON(gjson.ParseBytes(data), "$")
}

func encodeJSON(obj ir.Object) (string, error) {
	switch obj.Kind() {
	case ir.KindNone:
		return "{}", nil
	case ir.KindUint:
		u, _ := obj.AsUint()
		return sjson.SetRaw("{}", keyUint, strconv.FormatUint(u, 10))
	case ir.KindFloat:
		f, _ := obj.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return sjson.Set("{}", keyFloat, formatNonFinite(f))
		}
		return sjson.SetRaw("{}", keyFloat, strconv.FormatFloat(f, 'g', -1, 64))
	case ir.KindString:
		s, _ := obj.AsString()
		return sjson.Set("{}", keyString, s)
	case ir.KindSeq:
		doc := `{"seq":[]}`
		children, _ := obj.AsSeq()
		for i, child := range children {
			raw, err := encodeJSON(child)
			if err != nil {
				return "", fmt.Errorf("seq[%d]: %w", i, err)
			}
			doc, err = sjson.SetRaw(doc, keySeq+".-1", raw)
			if err != nil {
				return "", fmt.Errorf("seq[%d]: %w", i, err)
			}
		}
		return doc, nil
	default:
		return "", fmt.Errorf("unsupported IR kind: %s", obj.Kind())
	}
}

func decodeJSON(node gjson.Result, path string) (ir.Object, error) {
	if !node.IsObject() {
		return ir.None(), fmt.Errorf("%s: expected an object", path)
	}

	var keys []string
	var value gjson.Result
	node.ForEach(func(key, v gjson.Result) bool {
		keys = append(keys, key.Str)
		value = v
		return true
	})
	if len(keys) == 0 {
		return ir.None(), nil
	}
	if len(keys) > 1 {
		return ir.None(), fmt.Errorf("%s: expected at most one key, got %d", path, len(keys))
	}

	switch keys[0] {
	case keyUint:
		if value.Type != gjson.Number {
			return ir.None(), fmt.Errorf("%s.u: expected a number", path)
		}
		u, err := strconv.ParseUint(value.Raw, 10, 64)
		if err != nil {
			return ir.None(), fmt.Errorf("%s.u: %w", path, err)
		}
		return ir.Uint(u), nil
	case keyFloat:
		var text string
		switch value.Type {
		case gjson.Number:
			text = value.Raw
		case gjson.String:
			text = value.Str
		default:
			return ir.None(), fmt.Errorf("%s.f: expected a number", path)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ir.None(), fmt.Errorf("%s.f: %w", path, err)
		}
		return ir.Float(f), nil
	case keyString:
		if value.Type != gjson.String {
			return ir.None(), fmt.Errorf("%s.s: expected a string", path)
		}
		return ir.String(value.Str), nil
	case keySeq:
		if !value.IsArray() {
			return ir.None(), fmt.Errorf("%s.seq: expected an array", path)
		}
		elems := value.Array()
		children := make([]ir.Object, 0, len(elems))
		for i, elem := range elems {
			child, err := decodeJSON(elem, fmt.Sprintf("%s.seq[%d]", path, i))
			if err != nil {
				return ir.None(), err
			}
			children = append(children, child)
		}
		return ir.Seq(children...), nil
	default:
		return ir.None(), fmt.Errorf("%s: unknown key %q", path, keys[0])
	}
}

func formatNonFinite(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f > 0:
		return "+Inf"
	default:
		return "-Inf"
	}
}
