package ai

import "context"

// BatchSignal is one signal excerpt submitted for classification.
type BatchSignal struct {
	ID         string `json:"id"`
	SourceType string `json:"source_type"`
	Text       string `json:"extracted_text"`
}

// Classification is the per-signal judgment returned by a generator.
// The ID echoes the submitted signal so callers can merge results
// regardless of response order.
type Classification struct {
	ID            string `json:"id"`
	Severity      string `json:"severity"`
	RiskScore     int    `json:"risk_score"`
	ThemeLabel    string `json:"theme_label"`
	RiskReasoning string `json:"risk_reasoning"`
}

// PrimarySummary carries the aggregated view of one primary signal for
// narrative synthesis.
type PrimarySummary struct {
	Title           string   `json:"title"`
	RiskScore       int      `json:"risk_score"`
	RiskLevel       string   `json:"risk_level"`
	KeyIndicators   []string `json:"key_indicators"`
	SupportingCount int      `json:"supporting_count"`
	NewsCount       int      `json:"news_count"`
	SocialCount     int      `json:"social_count"`
	FinancialCount  int      `json:"financial_count"`
}

// TextGenerator captures the two capabilities the risk engine needs from an
// AI backend: classify a batch of signal texts, and synthesize a narrative
// from an aggregated summary. Both may fail; callers own the fallback.
type TextGenerator interface {
	ClassifyBatch(ctx context.Context, company string, signals []BatchSignal) ([]Classification, error)
	SynthesizeNarrative(ctx context.Context, company string, primaries []PrimarySummary) (string, error)
}

// Severity labels and the score thresholds they map to.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// SeverityForScore maps a 0-100 risk score onto a severity label. The engine
// re-derives severity from the merged score, so model output cannot leave the
// two fields inconsistent.
func SeverityForScore(score int) string {
	switch {
	case score >= 70:
		return SeverityHigh
	case score >= 40:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
