package hypothesis

import "time"

// Source types produced by the scraper collaborators.
const (
	SourceNews       = "news"
	SourceGoogleNews = "google_news"
	SourceSocial     = "social"
	SourceReddit     = "reddit"
	SourceFinancial  = "financial"
)

// Source families the five source types fold into.
const (
	FamilyNews      = "News"
	FamilySocial    = "Social"
	FamilyFinancial = "Financial"
)

// Risk levels derived from 0-100 scores via fixed thresholds.
const (
	LevelMinimal      = "minimal"
	LevelLow          = "low"
	LevelModerate     = "moderate"
	LevelHigh         = "high"
	LevelSevere       = "severe"
	LevelCatastrophic = "catastrophic"
)

// Confidence grades for the overall assessment.
const (
	ConfidenceLow      = "low"
	ConfidenceMedium   = "medium"
	ConfidenceHigh     = "high"
	ConfidenceVeryHigh = "very_high"
)

// RawSignal is one scraped item (article, post, financial fact) produced by
// an upstream scraper. Immutable input to the engine.
type RawSignal struct {
	ID         string            `json:"id"`
	SourceType string            `json:"source_type"`
	Text       string            `json:"extracted_text"`
	SourceURL  string            `json:"source_url,omitempty"`
	IngestedAt time.Time         `json:"ingestion_timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// FinancialSnapshot is the optional financial summary retrieved for a
// company, folded into the raw signal set as one synthetic financial signal.
type FinancialSnapshot struct {
	MarketCap    float64 `json:"market_cap,omitempty"`
	Revenue      float64 `json:"revenue,omitempty"`
	ProfitMargin float64 `json:"profit_margin,omitempty"`
	PERatio      float64 `json:"pe_ratio,omitempty"`
	Employees    int     `json:"employees,omitempty"`
	Sector       string  `json:"sector,omitempty"`
	Industry     string  `json:"industry,omitempty"`
	CurrentPrice float64 `json:"current_price,omitempty"`
}

// classificationDraft is the internal 1:1 companion of a RawSignal while it
// moves through the pipeline. Created by the normalizer, classified exactly
// once by the orchestrator, never mutated afterward.
type classificationDraft struct {
	Index         int
	ID            string // ss_<n>, derived from input position
	Raw           RawSignal
	Title         string
	Timeframe     string
	Severity      string
	RiskScore     int
	ThemeLabel    string
	RiskReasoning string
	Classified    bool
}

// SupportingSignal is the output form of one classified raw signal.
type SupportingSignal struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	SourceType    string `json:"source_type"`
	Severity      string `json:"severity"`
	RiskScore     int    `json:"risk_score"`
	ThemeLabel    string `json:"theme_label"`
	RiskReasoning string `json:"risk_reasoning"`
	Timeframe     string `json:"timeframe"`
	Evidence      string `json:"evidence"`
	EvidenceURL   string `json:"evidence_url,omitempty"`
}

// SourceDistribution counts a primary signal's members by source family.
type SourceDistribution struct {
	News      int `json:"News"`
	Social    int `json:"Social"`
	Financial int `json:"Financial"`
}

// Total returns the component-wise sum.
func (d SourceDistribution) Total() int {
	return d.News + d.Social + d.Financial
}

// PrimarySignal is a thematic cluster of supporting signals representing one
// risk category for the company.
type PrimarySignal struct {
	ID                  string             `json:"id"`
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	RiskScore           int                `json:"risk_score"`
	RiskLevel           string             `json:"risk_level"`
	RiskReasoning       string             `json:"risk_reasoning"`
	KeyIndicators       []string           `json:"key_indicators"`
	SupportingSignalIDs []string           `json:"supporting_signal_ids"`
	SourceDistribution  SourceDistribution `json:"source_distribution"`
}

// OverallRiskScore is the company-level aggregate.
type OverallRiskScore struct {
	Score      int    `json:"score"`
	Level      string `json:"level"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// DataSources summarises where the analyzed signals came from.
type DataSources struct {
	NewsCount        int  `json:"news_count"`
	SocialCount      int  `json:"social_count"`
	HasFinancialData bool `json:"has_financial_data"`
}

// RiskSummary is the short, human-facing digest of the analysis.
type RiskSummary struct {
	OverallRisk        string `json:"overall_risk"`
	PrimarySignalCount int    `json:"primary_signal_count"`
	HighRiskSignals    int    `json:"high_risk_signals"`
	Confidence         string `json:"confidence"`
	Summary            string `json:"summary"`
	Recommendation     string `json:"recommendation"`
}

// HypothesisAnalysis is the complete result of one analysis invocation.
type HypothesisAnalysis struct {
	AnalysisID        string             `json:"analysis_id"`
	CompanyName       string             `json:"company_name"`
	AnalysisTimestamp time.Time          `json:"analysis_timestamp"`
	DataSources       DataSources        `json:"data_sources"`
	RiskSummary       RiskSummary        `json:"risk_summary"`
	MajorHypothesis   string             `json:"major_hypothesis"`
	OverallRiskScore  OverallRiskScore   `json:"overall_risk_score"`
	PrimarySignals    []PrimarySignal    `json:"primary_signals"`
	SupportingSignals []SupportingSignal `json:"supporting_signals"`
}

// AnalysisRequest bundles the engine input: a company, a bag of scraped
// signals, and an optional financial snapshot.
type AnalysisRequest struct {
	CompanyName string             `json:"company_name"`
	Signals     []RawSignal        `json:"signals"`
	Financial   *FinancialSnapshot `json:"financial_snapshot,omitempty"`
}

// foldSource maps a raw source type onto its family. Unknown types count as
// News so the three families always cover the full signal set.
func foldSource(sourceType string) string {
	switch sourceType {
	case SourceSocial, SourceReddit:
		return FamilySocial
	case SourceFinancial:
		return FamilyFinancial
	default:
		return FamilyNews
	}
}
