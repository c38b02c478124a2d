package hypothesis

import (
	"fmt"
	"math"
	"strings"

	"workforceintel/internal/ai"
)

// levelForScore maps a 0-100 score onto the fixed risk-level thresholds.
func levelForScore(score int) string {
	switch {
	case score >= 95:
		return LevelCatastrophic
	case score >= 80:
		return LevelSevere
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelModerate
	case score >= 20:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// severityWeight biases aggregation toward higher-severity members so one
// severe signal can dominate a cluster of mild mentions.
func severityWeight(severity string) int {
	switch severity {
	case ai.SeverityHigh:
		return 4
	case ai.SeverityMedium:
		return 2
	default:
		return 1
	}
}

// buildSupportingSignals materialises the output form of every draft, 1:1
// and in input order.
func buildSupportingSignals(drafts []classificationDraft) []SupportingSignal {
	signals := make([]SupportingSignal, 0, len(drafts))
	for _, draft := range drafts {
		signals = append(signals, SupportingSignal{
			ID:            draft.ID,
			Title:         draft.Title,
			SourceType:    draft.Raw.SourceType,
			Severity:      draft.Severity,
			RiskScore:     draft.RiskScore,
			ThemeLabel:    draft.ThemeLabel,
			RiskReasoning: draft.RiskReasoning,
			Timeframe:     draft.Timeframe,
			Evidence:      truncate(draft.Raw.Text, 240),
			EvidenceURL:   draft.Raw.SourceURL,
		})
	}
	return signals
}

// buildPrimarySignals turns the grouped partition into scored primary
// signals. Scores are severity-weighted means of the members; distributions
// count members by folded source family.
func buildPrimarySignals(groups []primaryGroup, drafts []classificationDraft) []PrimarySignal {
	primaries := make([]PrimarySignal, 0, len(groups))
	for n, group := range groups {
		category := taxonomy[group.CategoryIndex]

		var weightedSum, weightTotal int
		var distribution SourceDistribution
		ids := make([]string, 0, len(group.DraftIndexes))
		indicators := make([]string, 0, len(group.DraftIndexes))
		for _, draftIdx := range group.DraftIndexes {
			draft := drafts[draftIdx]
			weight := severityWeight(draft.Severity)
			weightedSum += weight * draft.RiskScore
			weightTotal += weight
			ids = append(ids, draft.ID)
			if len(indicators) < 5 {
				indicators = append(indicators, draft.Title)
			}
			switch foldSource(draft.Raw.SourceType) {
			case FamilySocial:
				distribution.Social++
			case FamilyFinancial:
				distribution.Financial++
			default:
				distribution.News++
			}
		}

		score := int(math.Round(float64(weightedSum) / float64(weightTotal)))
		primaries = append(primaries, PrimarySignal{
			ID:          fmt.Sprintf("ps_%d", n+1),
			Title:       category.Name,
			Description: category.Description,
			RiskScore:   score,
			RiskLevel:   levelForScore(score),
			RiskReasoning: fmt.Sprintf(
				"Severity-weighted score across %d supporting signals; higher-severity members weigh 4x over low-severity ones.",
				len(ids),
			),
			KeyIndicators:       indicators,
			SupportingSignalIDs: ids,
			SourceDistribution:  distribution,
		})
	}
	return primaries
}

// overallRisk aggregates primary scores into the company-level score,
// weighting each primary by its member count so larger evidence clusters
// count more.
func overallRisk(primaries []PrimarySignal) OverallRiskScore {
	if len(primaries) == 0 {
		return OverallRiskScore{
			Score:     0,
			Level:     LevelMinimal,
			Reasoning: "Insufficient data for comprehensive risk assessment",
		}
	}

	var weightedSum, weightTotal int
	top := primaries[0]
	for _, primary := range primaries {
		members := len(primary.SupportingSignalIDs)
		weightedSum += members * primary.RiskScore
		weightTotal += members
		if primary.RiskScore > top.RiskScore {
			top = primary
		}
	}
	score := int(math.Round(float64(weightedSum) / float64(weightTotal)))

	return OverallRiskScore{
		Score: score,
		Level: levelForScore(score),
		Reasoning: fmt.Sprintf(
			"Member-weighted mean across %d primary signals covering %d supporting signals; strongest category %s at %d/100.",
			len(primaries), weightTotal, top.Title, top.RiskScore,
		),
	}
}

// computeConfidence starts at high and downgrades one step per weak-evidence
// condition: a thin supporting set, any partial-data warning, or fewer than
// two distinct source families.
func computeConfidence(supportingCount, distinctFamilies int, partial bool, minSupporting int) string {
	ladder := []string{ConfidenceLow, ConfidenceMedium, ConfidenceHigh, ConfidenceVeryHigh}
	grade := 2 // high
	if supportingCount < minSupporting {
		grade--
	}
	if partial {
		grade--
	}
	if distinctFamilies < 2 {
		grade--
	}
	if grade < 0 {
		grade = 0
	}
	return ladder[grade]
}

// countFamilies reports how many distinct source families appear in the set.
func countFamilies(signals []SupportingSignal) int {
	seen := make(map[string]struct{}, 3)
	for _, signal := range signals {
		seen[foldSource(signal.SourceType)] = struct{}{}
	}
	return len(seen)
}

// buildRiskSummary derives the short digest shown at the top of the result.
func buildRiskSummary(company string, primaries []PrimarySignal, overall OverallRiskScore) RiskSummary {
	if len(primaries) == 0 {
		return RiskSummary{
			OverallRisk:    overall.Level,
			Confidence:     overall.Confidence,
			Summary:        "Insufficient data for comprehensive risk analysis",
			Recommendation: "Gather more data from multiple sources",
		}
	}

	highRisk := 0
	titles := make([]string, 0, 3)
	for _, primary := range primaries {
		if primary.RiskScore >= 60 {
			highRisk++
		}
		if len(titles) < 3 {
			titles = append(titles, primary.Title)
		}
	}

	summary := fmt.Sprintf("Analysis identified %d primary risk categories for %s", len(primaries), company)
	if len(titles) > 0 {
		summary += ", including " + strings.Join(titles, ", ")
	}

	return RiskSummary{
		OverallRisk:        overall.Level,
		PrimarySignalCount: len(primaries),
		HighRiskSignals:    highRisk,
		Confidence:         overall.Confidence,
		Summary:            summary,
		Recommendation:     recommendationFor(overall.Level),
	}
}

func recommendationFor(level string) string {
	switch level {
	case LevelCatastrophic, LevelSevere:
		return "Immediate attention required. Initiate detailed due diligence and risk mitigation planning."
	case LevelHigh:
		return "Immediate attention required. Consider detailed due diligence and risk mitigation strategies."
	case LevelModerate:
		return "Monitor closely. Review specific risk areas and develop contingency plans."
	default:
		return "Maintain standard monitoring procedures. Continue tracking key indicators."
	}
}
