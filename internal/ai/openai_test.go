package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONStripsMarkdownFences(t *testing.T) {
	content := "```json\n{\"classifications\": []}\n```"
	assert.Equal(t, `{"classifications": []}`, extractJSON(content))

	assert.Equal(t, `{"a": 1}`, extractJSON(`Sure, here you go: {"a": 1}`))
	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON("} backwards {"))
}

func TestParseClassificationsDecodesFencedPayload(t *testing.T) {
	content := "```json\n" + `{
  "classifications": [
    {"id": "ss_1", "severity": "high", "risk_score": 85, "theme_label": "WORKFORCE ISSUES", "risk_reasoning": "Mass layoffs confirmed."},
    {"id": "ss_2", "severity": "low", "risk_score": 15, "theme_label": "OTHER", "risk_reasoning": "Routine coverage."}
  ]
}` + "\n```"

	out, err := parseClassifications(content)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ss_1", out[0].ID)
	assert.Equal(t, 85, out[0].RiskScore)
	assert.Equal(t, "WORKFORCE ISSUES", out[0].ThemeLabel)
	assert.Equal(t, SeverityLow, out[1].Severity)
}

func TestParseClassificationsRejectsBadPayloads(t *testing.T) {
	_, err := parseClassifications("the model rambled instead")
	require.Error(t, err)

	_, err = parseClassifications(`{"classifications": []}`)
	require.Error(t, err)

	_, err = parseClassifications(`{"classifications": "not a list"}`)
	require.Error(t, err)
}

func TestParseNarrativeDecodesHypothesis(t *testing.T) {
	narrative, err := parseNarrative(`{"major_hypothesis": "The company faces compounding workforce risk."}`)
	require.NoError(t, err)
	assert.Equal(t, "The company faces compounding workforce risk.", narrative)
}

func TestParseNarrativeRejectsEmptyHypothesis(t *testing.T) {
	_, err := parseNarrative(`{"major_hypothesis": "   "}`)
	require.Error(t, err)

	_, err = parseNarrative("not json at all")
	require.Error(t, err)
}
