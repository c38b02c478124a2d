package ai

import (
	"context"
	"fmt"
	"strings"
)

// ThemeUnclassified marks signals judged without AI assistance.
const ThemeUnclassified = "UNCLASSIFIED"

// Heuristic is a deterministic TextGenerator built on keyword-weighted
// scoring. It backs two roles: the per-signal fallback when the live
// generator is unavailable, and a fully offline provider for tests and
// air-gapped deployments. It never returns an error.
type Heuristic struct {
	Lexicon Lexicon
}

// NewHeuristic returns a Heuristic with the built-in lexicon.
func NewHeuristic() *Heuristic {
	return &Heuristic{Lexicon: DefaultLexicon()}
}

// ClassifyBatch scores each signal against the lexicon.
func (h *Heuristic) ClassifyBatch(_ context.Context, _ string, signals []BatchSignal) ([]Classification, error) {
	out := make([]Classification, 0, len(signals))
	for _, signal := range signals {
		score, _ := h.Lexicon.Score(signal.Text)
		out = append(out, Classification{
			ID:            signal.ID,
			Severity:      SeverityForScore(score),
			RiskScore:     score,
			ThemeLabel:    ThemeUnclassified,
			RiskReasoning: "heuristic fallback",
		})
	}
	return out, nil
}

// SynthesizeNarrative composes a short deterministic summary from the
// aggregated primary signals.
func (h *Heuristic) SynthesizeNarrative(_ context.Context, company string, primaries []PrimarySummary) (string, error) {
	if len(primaries) == 0 {
		return fmt.Sprintf("Insufficient data to generate a hypothesis for %s.", company), nil
	}
	top := primaries[0]
	supporting := 0
	for _, p := range primaries {
		if p.RiskScore > top.RiskScore {
			top = p
		}
		supporting += p.SupportingCount
	}
	titles := make([]string, 0, len(primaries))
	for _, p := range primaries {
		titles = append(titles, p.Title)
	}
	return fmt.Sprintf(
		"%s exhibits risk indicators across %s. The dominant concern is %s at %d/100 (%s), backed by %d supporting signals in total.",
		company, strings.Join(titles, ", "), top.Title, top.RiskScore, top.RiskLevel, supporting,
	), nil
}
