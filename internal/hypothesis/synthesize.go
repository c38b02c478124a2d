package hypothesis

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"workforceintel/internal/ai"
)

// Synthesizer issues the single narrative call against the text generator.
// Failure here degrades only the major_hypothesis text; the rest of the
// analysis is untouched.
type Synthesizer struct {
	Generator ai.TextGenerator
	Timeout   time.Duration
}

// MajorHypothesis returns the narrative risk thesis, falling back to a
// deterministic template when the generator fails or returns nothing.
func (s Synthesizer) MajorHypothesis(ctx context.Context, company string, primaries []PrimarySignal, supporting []SupportingSignal) (string, *PartialDataWarning) {
	if len(primaries) == 0 {
		return fmt.Sprintf("Insufficient data to generate comprehensive hypothesis for %s.", company), nil
	}

	summaries := make([]ai.PrimarySummary, 0, len(primaries))
	for _, primary := range primaries {
		summaries = append(summaries, ai.PrimarySummary{
			Title:           primary.Title,
			RiskScore:       primary.RiskScore,
			RiskLevel:       primary.RiskLevel,
			KeyIndicators:   primary.KeyIndicators,
			SupportingCount: len(primary.SupportingSignalIDs),
			NewsCount:       primary.SourceDistribution.News,
			SocialCount:     primary.SourceDistribution.Social,
			FinancialCount:  primary.SourceDistribution.Financial,
		})
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	narrative, err := s.Generator.SynthesizeNarrative(callCtx, company, summaries)
	if err != nil || strings.TrimSpace(narrative) == "" {
		if err == nil {
			err = fmt.Errorf("empty narrative")
		}
		log.Printf("Synthesizer: falling back to template: %v", err)
		return templateHypothesis(company, primaries, supporting), &PartialDataWarning{Stage: "synthesis", Cause: err}
	}
	return narrative, nil
}

// templateHypothesis is the deterministic stand-in narrative.
func templateHypothesis(company string, primaries []PrimarySignal, supporting []SupportingSignal) string {
	top := primaries[0]
	for _, primary := range primaries {
		if primary.RiskScore > top.RiskScore {
			top = primary
		}
	}
	return fmt.Sprintf(
		"%s shows %s risk concentrated in %s (%d/100), supported by %d signals across %d source types.",
		company, levelForScore(top.RiskScore), top.Title, top.RiskScore, len(supporting), countFamilies(supporting),
	)
}
