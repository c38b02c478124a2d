package hypothesis

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"workforceintel/internal/ai"
)

// Engine runs the full risk-hypothesis pipeline: normalize, classify, group,
// validate, aggregate, synthesize, assemble. Each invocation owns its own
// draft and partition data; the only shared state is the orchestrator's
// response cache.
type Engine struct {
	Orchestrator  *Orchestrator
	Synthesizer   Synthesizer
	MinSupporting int
}

// NewEngine wires an engine around a text generator. The heuristic fallback
// always backs the orchestrator so the pipeline stays total under full AI
// outage.
func NewEngine(generator ai.TextGenerator) *Engine {
	return &Engine{
		Orchestrator:  NewOrchestrator(generator, ai.NewHeuristic()),
		Synthesizer:   Synthesizer{Generator: generator},
		MinSupporting: 5,
	}
}

// Analyze turns an unordered bag of raw signals into a structured,
// invariant-checked risk assessment. It returns ErrNoData when there is
// nothing to analyze and *ValidationError when an internal invariant breaks;
// AI failures never propagate, they degrade confidence instead.
func (e *Engine) Analyze(ctx context.Context, req AnalysisRequest) (*HypothesisAnalysis, error) {
	combined := req.Signals
	if req.Financial != nil {
		combined = append(append([]RawSignal{}, req.Signals...), financialSignal(req.Financial))
	}

	drafts, err := normalizeSignals(combined)
	if err != nil {
		return nil, err
	}
	log.Printf("Engine: analyzing %d signals for %s", len(drafts), req.CompanyName)

	classified, warnings, err := e.Orchestrator.Classify(ctx, req.CompanyName, drafts)
	if err != nil {
		return nil, err
	}

	supporting := buildSupportingSignals(classified)
	groups := groupDrafts(classified)
	primaries := buildPrimarySignals(groups, classified)

	if err := validateDistribution(primaries, supporting); err != nil {
		return nil, err
	}

	overall := overallRisk(primaries)
	narrative, synthWarning := e.Synthesizer.MajorHypothesis(ctx, req.CompanyName, primaries, supporting)
	if synthWarning != nil {
		warnings = append(warnings, *synthWarning)
	}
	overall.Confidence = computeConfidence(len(supporting), countFamilies(supporting), len(warnings) > 0, e.MinSupporting)

	if len(warnings) > 0 {
		log.Printf("Engine: %d partial-data warnings for %s, confidence %s", len(warnings), req.CompanyName, overall.Confidence)
	}

	analysis := &HypothesisAnalysis{
		AnalysisID:        uuid.NewString(),
		CompanyName:       req.CompanyName,
		AnalysisTimestamp: time.Now().UTC(),
		DataSources:       countDataSources(req),
		RiskSummary:       buildRiskSummary(req.CompanyName, primaries, overall),
		MajorHypothesis:   narrative,
		OverallRiskScore:  overall,
		PrimarySignals:    primaries,
		SupportingSignals: supporting,
	}

	if err := verifyAnalysis(analysis, len(combined)); err != nil {
		return nil, err
	}
	return analysis, nil
}

func countDataSources(req AnalysisRequest) DataSources {
	sources := DataSources{HasFinancialData: req.Financial != nil}
	for _, signal := range req.Signals {
		switch foldSource(signal.SourceType) {
		case FamilySocial:
			sources.SocialCount++
		case FamilyNews:
			sources.NewsCount++
		}
	}
	return sources
}
