package hypothesis

import (
	"fmt"
	"strings"
)

const themeUnassigned = "UNASSIGNED"

// normalizeSignals converts raw signals into classification drafts, one per
// signal in the same order. Each draft gets a stable ss_<n> id derived from
// its input position and a placeholder classification.
func normalizeSignals(raw []RawSignal) ([]classificationDraft, error) {
	if len(raw) == 0 {
		return nil, ErrNoData
	}
	drafts := make([]classificationDraft, 0, len(raw))
	for idx, signal := range raw {
		drafts = append(drafts, classificationDraft{
			Index:      idx,
			ID:         fmt.Sprintf("ss_%d", idx+1),
			Raw:        signal,
			Title:      signalTitle(signal),
			Timeframe:  seedTimeframe(signal),
			RiskScore:  -1,
			ThemeLabel: themeUnassigned,
		})
	}
	return drafts, nil
}

// seedTimeframe derives a timeframe from the signal's publish date metadata,
// falling back to the ingestion timestamp.
func seedTimeframe(signal RawSignal) string {
	if date := strings.TrimSpace(signal.Metadata["publish_date"]); date != "" {
		return date
	}
	if !signal.IngestedAt.IsZero() {
		return signal.IngestedAt.UTC().Format("2006-01")
	}
	return "Unknown"
}

// signalTitle prefers the scraped title, falling back to the opening words
// of the extracted text.
func signalTitle(signal RawSignal) string {
	if title := strings.TrimSpace(signal.Metadata["title"]); title != "" {
		return title
	}
	words := strings.Fields(signal.Text)
	if len(words) > 8 {
		words = words[:8]
	}
	if len(words) == 0 {
		return "Untitled signal"
	}
	return strings.Join(words, " ")
}

// financialSignal renders the snapshot as one synthetic financial raw
// signal so it flows through the same pipeline as scraped text.
func financialSignal(snapshot *FinancialSnapshot) RawSignal {
	var parts []string
	if snapshot.Sector != "" {
		parts = append(parts, fmt.Sprintf("Sector: %s", snapshot.Sector))
	}
	if snapshot.Industry != "" {
		parts = append(parts, fmt.Sprintf("Industry: %s", snapshot.Industry))
	}
	if snapshot.MarketCap > 0 {
		parts = append(parts, fmt.Sprintf("Market cap %.0f", snapshot.MarketCap))
	}
	if snapshot.Revenue > 0 {
		parts = append(parts, fmt.Sprintf("Revenue %.0f", snapshot.Revenue))
	}
	parts = append(parts, fmt.Sprintf("Profit margin %.2f", snapshot.ProfitMargin))
	if snapshot.PERatio != 0 {
		parts = append(parts, fmt.Sprintf("P/E ratio %.2f", snapshot.PERatio))
	}
	if snapshot.Employees > 0 {
		parts = append(parts, fmt.Sprintf("%d employees", snapshot.Employees))
	}
	if snapshot.CurrentPrice > 0 {
		parts = append(parts, fmt.Sprintf("Share price %.2f", snapshot.CurrentPrice))
	}
	return RawSignal{
		ID:         "financial_snapshot",
		SourceType: SourceFinancial,
		Text:       strings.Join(parts, ". "),
		Metadata:   map[string]string{"title": "Financial snapshot"},
	}
}

// truncate shortens evidence excerpts on rune boundaries.
func truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
