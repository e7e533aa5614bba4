// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package envfilter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xmidt-org/tracekit/tracing"
)

// Directive is a single parsed filtering clause.
type Directive struct {
	// Target restricts the directive to spans and events whose target is
	// this value or a subpackage of it.  Empty matches every target.
	Target string

	// SpanName restricts the directive to activity inside spans with this
	// name.  Empty with no Fields means the directive is static.
	SpanName string

	// Fields restricts the directive to spans that recorded matching
	// field values.
	Fields []FieldMatch

	// Level is the verbosity floor this directive enables.
	Level tracing.LevelFilter
}

// FieldMatch matches one recorded span field.  An empty Value matches mere
// presence of the field.
type FieldMatch struct {
	Name  string
	Value string
}

// dynamic reports whether this directive depends on span scope.
func (d Directive) dynamic() bool {
	return len(d.SpanName) > 0 || len(d.Fields) > 0
}

// specificity orders directives so the most specific match wins.
func (d Directive) specificity() int {
	s := len(d.Target)
	if len(d.SpanName) > 0 {
		s += 100
	}

	s += 100 * len(d.Fields)
	return s
}

// caresAbout tests the target clause against metadata.  Target prefixes
// respect path boundaries: "mypkg" matches "mypkg/internal" but not
// "mypkgother".
func (d Directive) caresAbout(meta *tracing.Metadata) bool {
	if len(d.Target) == 0 {
		return true
	}

	if meta.Target == d.Target {
		return true
	}

	return strings.HasPrefix(meta.Target, d.Target+"/") ||
		strings.HasPrefix(meta.Target, d.Target+".")
}

// matchesSpan tests whether this dynamic directive applies to a span with
// the given metadata.
func (d Directive) matchesSpan(meta *tracing.Metadata) bool {
	if !d.caresAbout(meta) {
		return false
	}

	return len(d.SpanName) == 0 || d.SpanName == meta.Name
}

func (d Directive) String() string {
	if len(d.Target) == 0 && !d.dynamic() {
		return strings.ToLower(d.Level.String())
	}

	var b strings.Builder
	b.WriteString(d.Target)

	if d.dynamic() {
		b.WriteRune('[')
		b.WriteString(d.SpanName)
		if len(d.Fields) > 0 {
			b.WriteRune('{')
			for i, f := range d.Fields {
				if i > 0 {
					b.WriteRune(',')
				}

				b.WriteString(f.Name)
				if len(f.Value) > 0 {
					b.WriteRune('=')
					b.WriteString(f.Value)
				}
			}
			b.WriteRune('}')
		}
		b.WriteRune(']')
	}

	fmt.Fprintf(&b, "=%s", strings.ToLower(d.Level.String()))
	return b.String()
}

const levelAlternates = `(?i:trace|debug|info|warn|warning|error|off)|[0-5]`

var (
	directiveRE = regexp.MustCompile(
		`^(?:` +
			`(?P<global_level>` + levelAlternates + `)` +
			`|` +
			`(?P<target>[\w:./\-]+)?(?P<span>\[[^\]]*\])?(?:=(?P<level>` + levelAlternates + `)?)?` +
			`)$`,
	)

	spanPartRE = regexp.MustCompile(`^(?P<name>[\w.\-]+)?(?:\{(?P<fields>[^\}]*)\})?$`)
)

// ParseDirective parses a single directive clause.
func ParseDirective(clause string) (Directive, error) {
	clause = strings.TrimSpace(clause)
	if len(clause) == 0 {
		return Directive{}, fmt.Errorf("empty filter directive")
	}

	m := match(directiveRE, clause)
	if m == nil {
		return Directive{}, fmt.Errorf("invalid filter directive: %q", clause)
	}

	if global := m["global_level"]; len(global) > 0 {
		level, err := tracing.ParseLevelFilter(global)
		if err != nil {
			return Directive{}, err
		}

		return Directive{Level: level}, nil
	}

	if len(m["target"]) == 0 && len(m["span"]) == 0 {
		return Directive{}, fmt.Errorf("invalid filter directive: %q", clause)
	}

	d := Directive{
		Target: m["target"],

		// a directive with no level clause enables everything it matches
		Level: tracing.LevelFilter(tracing.LevelTrace),
	}

	if level := m["level"]; len(level) > 0 {
		parsed, err := tracing.ParseLevelFilter(level)
		if err != nil {
			return Directive{}, err
		}

		d.Level = parsed
	}

	if span := m["span"]; len(span) > 0 {
		sm := match(spanPartRE, strings.Trim(span, "[]"))
		if sm == nil {
			return Directive{}, fmt.Errorf("invalid span clause in directive: %q", clause)
		}

		d.SpanName = sm["name"]
		fields, err := parseFieldMatches(sm["fields"])
		if err != nil {
			return Directive{}, fmt.Errorf("invalid field clause in directive %q: %s", clause, err)
		}

		d.Fields = fields
	}

	return d, nil
}

func parseFieldMatches(text string) ([]FieldMatch, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return nil, nil
	}

	var matches []FieldMatch
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}

		name, value, _ := strings.Cut(part, "=")
		if len(name) == 0 {
			return nil, fmt.Errorf("missing field name in %q", part)
		}

		matches = append(matches, FieldMatch{Name: name, Value: value})
	}

	return matches, nil
}

// ParseDirectives parses a comma-separated directive list.  All valid
// clauses are returned; errors for invalid clauses are joined and returned
// alongside.
func ParseDirectives(text string) ([]Directive, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return nil, nil
	}

	var (
		directives []Directive
		invalid    []string
	)

	for _, clause := range splitClauses(text) {
		d, err := ParseDirective(clause)
		if err != nil {
			invalid = append(invalid, err.Error())
			continue
		}

		directives = append(directives, d)
	}

	sortDirectives(directives)

	if len(invalid) > 0 {
		return directives, fmt.Errorf("ignoring invalid filter directives: %s", strings.Join(invalid, "; "))
	}

	return directives, nil
}

// splitClauses splits on commas outside of braces, so that field value
// clauses may not swallow their neighbors.
func splitClauses(text string) []string {
	var (
		clauses []string
		depth   int
		start   int
	)

	for i, r := range text {
		switch r {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				clauses = append(clauses, text[start:i])
				start = i + 1
			}
		}
	}

	if clause := strings.TrimSpace(text[start:]); len(clause) > 0 || len(clauses) == 0 {
		clauses = append(clauses, text[start:])
	}

	return clauses
}

// sortDirectives orders by ascending specificity so that iteration can let
// later, more specific directives win.
func sortDirectives(directives []Directive) {
	sort.SliceStable(directives, func(i, j int) bool {
		return directives[i].specificity() < directives[j].specificity()
	})
}

func match(re *regexp.Regexp, text string) map[string]string {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return nil
	}

	m := make(map[string]string, len(groups))
	for i, name := range re.SubexpNames() {
		if len(name) > 0 {
			m[name] = groups[i]
		}
	}

	return m
}
