package store

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
)

// ValueKind is the grammar of a value literal inside a pattern-text file.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
)

// Anchor declares one editable literal in a pattern-text file: the key token
// plus the grammar of the value that follows it. Anchors are independent of
// each other, so new keys are added without touching existing ones.
type Anchor struct {
	Key  string
	Kind ValueKind
}

// compile builds the anchored pattern: the quoted key token and delimiter are
// captured verbatim, the value literal is captured separately so only that
// span is ever rewritten.
func (a Anchor) compile() *regexp.Regexp {
	valuePat := `-?\d+(?:\.\d+)?`
	if a.Kind == ValueInt {
		valuePat = `-?\d+`
	}
	return regexp.MustCompile(`("` + regexp.QuoteMeta(a.Key) + `"\s*:\s*)(` + valuePat + `)`)
}

type compiledAnchor struct {
	Anchor
	re *regexp.Regexp
}

// PatternAdapter edits a source-like text file through per-key anchored
// substitutions. Everything outside the substituted value literals is
// byte-identical before and after a write.
type PatternAdapter struct {
	anchors []compiledAnchor
	byKey   map[string]compiledAnchor
}

// NewPatternAdapter compiles the given anchor declarations.
func NewPatternAdapter(anchors []Anchor) *PatternAdapter {
	p := &PatternAdapter{byKey: make(map[string]compiledAnchor, len(anchors))}
	for _, a := range anchors {
		ca := compiledAnchor{Anchor: a, re: a.compile()}
		p.anchors = append(p.anchors, ca)
		p.byKey[a.Key] = ca
	}
	return p
}

// Load extracts the current literal for every declared anchor. Keys whose
// anchor matches nothing are simply absent from the result.
func (p *PatternAdapter) Load(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]float64{}, nil
		}
		return nil, &StoreIOError{Path: path, Op: "read", Err: err}
	}

	values := make(map[string]float64)
	for _, ca := range p.anchors {
		m := ca.re.FindSubmatch(data)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			continue
		}
		values[ca.Key] = v
	}
	return values, nil
}

// Apply substitutes key's value literal in text, first match only. found is
// false when the anchor matches nothing, and text is returned unchanged — a
// miss never produces a partial edit.
func (p *PatternAdapter) Apply(text string, key string, value float64) (string, bool, error) {
	ca, ok := p.byKey[key]
	if !ok {
		return text, false, fmt.Errorf("no anchor declared for key %q", key)
	}
	idx := ca.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return text, false, nil
	}
	// idx[4:6] is the span of the captured value literal; the anchor text
	// before it stays verbatim.
	return text[:idx[4]] + formatLiteral(ca.Kind, value) + text[idx[5]:], true, nil
}

// WriteFile applies the substitution for every key in values, then persists
// the modified text atomically in one shot. Keys whose anchor was not found
// are returned in missing; the file is still written for the keys that did
// match. When nothing matched the file is left untouched.
func (p *PatternAdapter) WriteFile(path string, values map[string]float64) (missing []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreIOError{Path: path, Op: "read", Err: err}
	}
	text := string(data)

	changed := false
	for _, ca := range p.anchors {
		v, ok := values[ca.Key]
		if !ok {
			continue
		}
		updated, found, err := p.Apply(text, ca.Key, v)
		if err != nil {
			return missing, err
		}
		if !found {
			missing = append(missing, ca.Key)
			continue
		}
		text = updated
		changed = true
	}

	if !changed {
		return missing, nil
	}
	if err := writeFileAtomic(path, []byte(text), 0644); err != nil {
		return missing, &StoreIOError{Path: path, Op: "write", Err: err}
	}
	return missing, nil
}

// formatLiteral renders a value in the grammar its anchor declares. Integral
// floats collapse to integer form, everything else keeps two decimals,
// matching how the file's literals are written by hand.
func formatLiteral(kind ValueKind, v float64) string {
	if kind == ValueInt {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
