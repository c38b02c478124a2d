package hypothesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforceintel/internal/ai"
)

func TestLevelForScoreThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, LevelMinimal},
		{19, LevelMinimal},
		{20, LevelLow},
		{39, LevelLow},
		{40, LevelModerate},
		{59, LevelModerate},
		{60, LevelHigh},
		{79, LevelHigh},
		{80, LevelSevere},
		{94, LevelSevere},
		{95, LevelCatastrophic},
		{100, LevelCatastrophic},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levelForScore(tc.score), "score %d", tc.score)
	}
}

func TestBuildPrimarySignalsWeighsHighSeverityMembers(t *testing.T) {
	drafts := []classificationDraft{
		{Index: 0, ID: "ss_1", Raw: RawSignal{SourceType: SourceNews}, Title: "Mild note", Severity: ai.SeverityLow, RiskScore: 10, ThemeLabel: "WORKFORCE ISSUES"},
		{Index: 1, ID: "ss_2", Raw: RawSignal{SourceType: SourceNews}, Title: "Mild note 2", Severity: ai.SeverityLow, RiskScore: 10, ThemeLabel: "WORKFORCE ISSUES"},
		{Index: 2, ID: "ss_3", Raw: RawSignal{SourceType: SourceReddit}, Title: "Mass layoffs", Severity: ai.SeverityHigh, RiskScore: 90, ThemeLabel: "WORKFORCE ISSUES"},
	}
	groups := groupDrafts(drafts)
	primaries := buildPrimarySignals(groups, drafts)
	require.Len(t, primaries, 1)

	// (1*10 + 1*10 + 4*90) / 6 = 63.33 -> 63: the single severe member
	// dominates two mild ones.
	primary := primaries[0]
	assert.Equal(t, "ps_1", primary.ID)
	assert.Equal(t, 63, primary.RiskScore)
	assert.Equal(t, LevelHigh, primary.RiskLevel)
	assert.Equal(t, SourceDistribution{News: 2, Social: 1}, primary.SourceDistribution)
	assert.Equal(t, []string{"ss_1", "ss_2", "ss_3"}, primary.SupportingSignalIDs)
	assert.Contains(t, primary.KeyIndicators, "Mass layoffs")
}

func TestOverallRiskWeighsByMemberCount(t *testing.T) {
	primaries := []PrimarySignal{
		{ID: "ps_1", Title: "WORKFORCE ISSUES", RiskScore: 80, SupportingSignalIDs: []string{"ss_1", "ss_2", "ss_3"}},
		{ID: "ps_2", Title: "OTHER", RiskScore: 20, SupportingSignalIDs: []string{"ss_4"}},
	}
	overall := overallRisk(primaries)
	// (3*80 + 1*20) / 4 = 65
	assert.Equal(t, 65, overall.Score)
	assert.Equal(t, LevelHigh, overall.Level)
	assert.Contains(t, overall.Reasoning, "WORKFORCE ISSUES")
}

func TestOverallRiskWithoutPrimaries(t *testing.T) {
	overall := overallRisk(nil)
	assert.Equal(t, 0, overall.Score)
	assert.Equal(t, LevelMinimal, overall.Level)
}

func TestComputeConfidenceDowngradeLadder(t *testing.T) {
	cases := []struct {
		name             string
		supporting       int
		families         int
		partial          bool
		want             string
	}{
		{"solid evidence", 12, 3, false, ConfidenceHigh},
		{"thin evidence", 3, 2, false, ConfidenceMedium},
		{"partial data", 12, 2, true, ConfidenceMedium},
		{"single family", 12, 1, false, ConfidenceMedium},
		{"thin and partial", 3, 2, true, ConfidenceLow},
		{"everything wrong", 1, 1, true, ConfidenceLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, computeConfidence(tc.supporting, tc.families, tc.partial, 5))
		})
	}
}

func TestBuildRiskSummaryCountsHighRiskSignals(t *testing.T) {
	primaries := []PrimarySignal{
		{Title: "WORKFORCE ISSUES", RiskScore: 85, SupportingSignalIDs: []string{"ss_1"}},
		{Title: "MARKET PERCEPTION", RiskScore: 35, SupportingSignalIDs: []string{"ss_2"}},
	}
	overall := OverallRiskScore{Score: 72, Level: LevelHigh, Confidence: ConfidenceMedium}

	summary := buildRiskSummary("Twelve Cupcakes", primaries, overall)
	assert.Equal(t, LevelHigh, summary.OverallRisk)
	assert.Equal(t, 2, summary.PrimarySignalCount)
	assert.Equal(t, 1, summary.HighRiskSignals)
	assert.Equal(t, ConfidenceMedium, summary.Confidence)
	assert.Contains(t, summary.Summary, "2 primary risk categories")
	assert.Contains(t, summary.Summary, "Twelve Cupcakes")
	assert.Contains(t, summary.Recommendation, "Immediate attention")
}
