package ember

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

// Stage names the pipeline phase that raised a Diagnostic: lexing,
// parsing, type checking, code generation, or file I/O.
type Stage string

const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageType    Stage = "type"
	StageCodegen Stage = "codegen"
	StageIO      Stage = "io"
)

// Diagnostic is a single reported problem: file/line location, a short
// message, and an optional "did you mean" suggestion.
type Diagnostic struct {
	Severity   Severity
	Stage      Stage
	File       string
	Line       int
	Message    string
	Suggestion string
}

func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%s:%d", d.File, d.Line)
	msg := fmt.Sprintf("[%s] %s: %s", d.Stage, loc, d.Message)
	if d.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", d.Suggestion)
	}
	return msg
}

// Diagnostics is the shared sink every stage is handed explicitly (never a
// package-level global, per the reference implementation's Result-style
// error design). Downstream stages consult HasErrors before running.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics returns an empty sink.
func NewDiagnostics() *Diagnostics { return &Diagnostics{} }

func (d *Diagnostics) add(sev Severity, stage Stage, file string, line int, msg, suggestion string) {
	d.items = append(d.items, Diagnostic{
		Severity: sev, Stage: stage, File: file, Line: line,
		Message: msg, Suggestion: suggestion,
	})
}

// Error records an error-severity Diagnostic.
func (d *Diagnostics) Error(stage Stage, tok Token, format string, args ...interface{}) {
	d.add(SevError, stage, tok.File, tok.Line, fmt.Sprintf(format, args...), "")
}

// ErrorWithSuggestion records an error-severity Diagnostic along with a
// "did you mean" computed by NearestMatch against candidates.
func (d *Diagnostics) ErrorWithSuggestion(stage Stage, tok Token, candidates []string, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	suggestion, _ := NearestMatch(tok.Lexeme, candidates)
	d.add(SevError, stage, tok.File, tok.Line, msg, suggestion)
}

// Warning records a warning-severity Diagnostic.
func (d *Diagnostics) Warning(stage Stage, tok Token, format string, args ...interface{}) {
	d.add(SevWarning, stage, tok.File, tok.Line, fmt.Sprintf(format, args...), "")
}

// HasErrors reports whether any error-severity Diagnostic has been
// recorded. Later stages consult this instead of an exception.
func (d *Diagnostics) HasErrors() bool {
	for _, it := range d.items {
		if it.Severity == SevError {
			return true
		}
	}
	return false
}

// All returns every recorded Diagnostic, in the order they were reported.
func (d *Diagnostics) All() []Diagnostic { return d.items }

// Strings renders every Diagnostic via its String method, suitable for
// writing to stderr.
func (d *Diagnostics) Strings() []string {
	out := make([]string, len(d.items))
	for i, it := range d.items {
		out[i] = it.String()
	}
	return out
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// NearestMatch finds the candidate closest to name by edit distance,
// accepting it only when the distance is within the threshold
// max(2, len(name)/3). Returns ok=false when no candidate clears the
// threshold.
func NearestMatch(name string, candidates []string) (best string, ok bool) {
	threshold := len(name) / 3
	if threshold < 2 {
		threshold = 2
	}
	bestDist := threshold + 1
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, c := range sorted {
		if strings.EqualFold(c, name) {
			continue
		}
		dist := levenshtein(strings.ToLower(name), strings.ToLower(c))
		if dist <= threshold && dist < bestDist {
			bestDist = dist
			best = c
			ok = true
		}
	}
	return best, ok
}
