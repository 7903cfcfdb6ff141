package serialize

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lex00/fuzzdomain-go/ir"
)

// ToYAML serializes an IR object to YAML bytes.
func ToYAML(obj ir.Object) ([]byte, error) {
	node, err := encodeYAML(obj)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// FromYAML parses YAML bytes produced by ToYAML.
func FromYAML(data []byte) (ir.Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ir.None(), fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return ir.None(), fmt.Errorf("expected a single YAML document")
	}
	return decodeYAML(doc.Content[0], "$")
}

func encodeYAML(obj ir.Object) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	switch obj.Kind() {
	case ir.KindNone:
		mapping.Style = yaml.FlowStyle
		return mapping, nil
	case ir.KindUint:
		u, _ := obj.AsUint()
		mapping.Content = pair(keyUint, scalar("!!int", strconv.FormatUint(u, 10)))
	case ir.KindFloat:
		f, _ := obj.AsFloat()
		mapping.Content = pair(keyFloat, scalar("!!float", formatYAMLFloat(f)))
	case ir.KindString:
		s, _ := obj.AsString()
		mapping.Content = pair(keyString, scalar("!!str", s))
	case ir.KindSeq:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		children, _ := obj.AsSeq()
		for i, child := range children {
			node, err := encodeYAML(child)
			if err != nil {
				return nil, fmt.Errorf("seq[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, node)
		}
		mapping.Content = pair(keySeq, seq)
	default:
		return nil, fmt.Errorf("unsupported IR kind: %s", obj.Kind())
	}
	return mapping, nil
}

func decodeYAML(node *yaml.Node, path string) (ir.Object, error) {
	if node.Kind != yaml.MappingNode {
		return ir.None(), fmt.Errorf("%s: expected a mapping", path)
	}
	if len(node.Content) == 0 {
		return ir.None(), nil
	}
	if len(node.Content) > 2 {
		return ir.None(), fmt.Errorf("%s: expected at most one key, got %d", path, len(node.Content)/2)
	}

	key, value := node.Content[0].Value, node.Content[1]
	switch key {
	case keyUint:
		if value.Kind != yaml.ScalarNode {
			return ir.None(), fmt.Errorf("%s.u: expected a scalar", path)
		}
		u, err := strconv.ParseUint(value.Value, 10, 64)
		if err != nil {
			return ir.None(), fmt.Errorf("%s.u: %w", path, err)
		}
		return ir.Uint(u), nil
	case keyFloat:
		var f float64
		if err := value.Decode(&f); err != nil {
			return ir.None(), fmt.Errorf("%s.f: %w", path, err)
		}
		return ir.Float(f), nil
	case keyString:
		if value.Kind != yaml.ScalarNode {
			return ir.None(), fmt.Errorf("%s.s: expected a scalar", path)
		}
		return ir.String(value.Value), nil
	case keySeq:
		if value.Kind != yaml.SequenceNode {
			return ir.None(), fmt.Errorf("%s.seq: expected a sequence", path)
		}
		children := make([]ir.Object, 0, len(value.Content))
		for i, elem := range value.Content {
			child, err := decodeYAML(elem, fmt.Sprintf("%s.seq[%d]", path, i))
			if err != nil {
				return ir.None(), err
			}
			children = append(children, child)
		}
		return ir.Seq(children...), nil
	default:
		return ir.None(), fmt.Errorf("%s: unknown key %q", path, key)
	}
}

func pair(key string, value *yaml.Node) []*yaml.Node {
	return []*yaml.Node{scalar("!!str", key), value}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
