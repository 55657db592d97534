package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLAdapter edits nested-mapping YAML documents. It works on the yaml.Node
// tree rather than a map so key order and comments survive re-serialization.
type YAMLAdapter struct{}

func (YAMLAdapter) Load(path string, locator string) (float64, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, &StoreIOError{Path: path, Op: "read", Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, false, &StoreFormatError{Path: path, Err: err}
	}

	node := mappingRoot(&doc)
	for _, seg := range strings.Split(locator, ".") {
		if node == nil || node.Kind != yaml.MappingNode {
			return 0, false, nil
		}
		node = mappingValue(node, seg)
	}
	if node == nil || node.Kind != yaml.ScalarNode {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		// Non-numeric leaf; the caller falls back to the declared default.
		return 0, false, nil
	}
	return v, true, nil
}

func (YAMLAdapter) Write(path string, locator string, value any) error {
	var doc yaml.Node
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return &StoreFormatError{Path: path, Err: err}
		}
	case errors.Is(err, os.ErrNotExist):
		// Absent file: start from an empty document and create it below.
	default:
		return &StoreIOError{Path: path, Op: "read", Err: err}
	}

	root := mappingRoot(&doc)
	if root == nil {
		root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	}

	segs := strings.Split(locator, ".")
	node := root
	for _, seg := range segs[:len(segs)-1] {
		child := mappingValue(node, seg)
		if child == nil || child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			setMappingValue(node, seg, child)
		}
		node = child
	}
	setMappingValue(node, segs[len(segs)-1], numericScalar(value))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		enc.Close()
		return &StoreFormatError{Path: path, Err: err}
	}
	if err := enc.Close(); err != nil {
		return &StoreFormatError{Path: path, Err: err}
	}

	if err := writeFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return &StoreIOError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// mappingRoot returns the top-level mapping of a parsed document, or nil when
// the document is empty or not a mapping.
func mappingRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}

// mappingValue returns the value node for key inside a mapping, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// setMappingValue replaces the value for key, or appends the pair so new keys
// land at the end of the mapping and existing key order is untouched. An
// existing value node is mutated in place, which keeps any comment attached
// to it.
func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			old := m.Content[i+1]
			old.Kind = value.Kind
			old.Tag = value.Tag
			old.Value = value.Value
			old.Content = value.Content
			old.Style = 0
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// numericScalar builds a scalar node carrying the value as its native numeric
// type, never a quoted string.
func numericScalar(value any) *yaml.Node {
	switch v := value.(type) {
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%v", v)}
	}
}

// formatFloat renders a float with an explicit decimal point so it stays a
// float on re-parse (1 -> "1.0", 0.73 -> "0.73").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
