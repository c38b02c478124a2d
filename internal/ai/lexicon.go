package ai

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the keyword weights used by the heuristic classifier.
// Positive weights push a signal toward higher risk, negative weights pull
// it down. Matching is case-insensitive substring containment.
type Lexicon struct {
	Base     int            `yaml:"base"`
	Keywords map[string]int `yaml:"keywords"`
}

// DefaultLexicon returns the built-in keyword weights.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Base: 40,
		Keywords: map[string]int{
			"bankruptcy":  30,
			"insolvency":  30,
			"layoff":      25,
			"retrench":    25,
			"fraud":       25,
			"closure":     20,
			"shutdown":    20,
			"winding up":  20,
			"lawsuit":     15,
			"strike":      15,
			"losses":      10,
			"debt":        10,
			"decline":     10,
			"resignation": 10,
			"profitable":  -15,
			"hiring":      -15,
			"expansion":   -15,
			"growth":      -10,
		},
	}
}

// LoadLexicon reads keyword overrides from a YAML file. An empty path keeps
// the defaults; a file overriding only some fields inherits the rest.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Lexicon{}, fmt.Errorf("lexicon: unmarshal %s: %w", path, err)
	}
	if override.Base > 0 {
		lex.Base = override.Base
	}
	if len(override.Keywords) > 0 {
		lex.Keywords = override.Keywords
	}
	return lex, nil
}

// Score returns the clamped 0-100 risk score for a text plus the matched
// keywords in sorted order, so identical input always produces identical
// output.
func (l Lexicon) Score(text string) (int, []string) {
	lowered := strings.ToLower(text)
	score := l.Base
	var matched []string
	for keyword, weight := range l.Keywords {
		if strings.Contains(lowered, keyword) {
			score += weight
			matched = append(matched, keyword)
		}
	}
	sort.Strings(matched)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, matched
}
