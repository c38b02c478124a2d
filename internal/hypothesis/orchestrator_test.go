package hypothesis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforceintel/internal/ai"
)

func newTestOrchestrator(generator ai.TextGenerator) *Orchestrator {
	orchestrator := NewOrchestrator(generator, ai.NewHeuristic())
	orchestrator.MaxRetries = 1
	orchestrator.Backoff = time.Millisecond
	orchestrator.Timeout = time.Second
	return orchestrator
}

func draftsFor(t *testing.T, signals []RawSignal) []classificationDraft {
	t.Helper()
	drafts, err := normalizeSignals(signals)
	require.NoError(t, err)
	return drafts
}

func TestClassifyMergesByEchoedIDNotPosition(t *testing.T) {
	scores := map[string]int{"ss_1": 10, "ss_2": 50, "ss_3": 90}
	generator := &fakeGenerator{
		classify: func(_ string, signals []ai.BatchSignal) ([]ai.Classification, error) {
			// Respond in reverse order: merging must not care.
			out := make([]ai.Classification, 0, len(signals))
			for i := len(signals) - 1; i >= 0; i-- {
				out = append(out, ai.Classification{
					ID:            signals[i].ID,
					RiskScore:     scores[signals[i].ID],
					ThemeLabel:    "WORKFORCE ISSUES",
					RiskReasoning: "ok",
				})
			}
			return out, nil
		},
	}
	orchestrator := newTestOrchestrator(generator)

	classified, warnings, err := orchestrator.Classify(context.Background(), "Acme", draftsFor(t, makeSignals(SourceNews, 3)))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, classified, 3)
	assert.Equal(t, 10, classified[0].RiskScore)
	assert.Equal(t, 50, classified[1].RiskScore)
	assert.Equal(t, 90, classified[2].RiskScore)
	assert.Equal(t, ai.SeverityLow, classified[0].Severity)
	assert.Equal(t, ai.SeverityMedium, classified[1].Severity)
	assert.Equal(t, ai.SeverityHigh, classified[2].Severity)
}

func TestClassifyClampsScoreAndRederivesSeverity(t *testing.T) {
	generator := &fakeGenerator{
		classify: func(_ string, signals []ai.BatchSignal) ([]ai.Classification, error) {
			return []ai.Classification{
				{ID: signals[0].ID, RiskScore: 180, Severity: "low", ThemeLabel: "OTHER"},
				{ID: signals[1].ID, RiskScore: -20, Severity: "high", ThemeLabel: "OTHER"},
			}, nil
		},
	}
	orchestrator := newTestOrchestrator(generator)

	classified, _, err := orchestrator.Classify(context.Background(), "Acme", draftsFor(t, makeSignals(SourceNews, 2)))
	require.NoError(t, err)
	assert.Equal(t, 100, classified[0].RiskScore)
	assert.Equal(t, ai.SeverityHigh, classified[0].Severity)
	assert.Equal(t, 0, classified[1].RiskScore)
	assert.Equal(t, ai.SeverityLow, classified[1].Severity)
}

func TestClassifyFallsBackWhenModelDropsAnID(t *testing.T) {
	generator := &fakeGenerator{
		classify: func(_ string, signals []ai.BatchSignal) ([]ai.Classification, error) {
			out := make([]ai.Classification, 0, len(signals))
			for _, s := range signals {
				if s.ID == "ss_2" {
					continue // model lost one
				}
				out = append(out, ai.Classification{ID: s.ID, RiskScore: 42, ThemeLabel: "OTHER", RiskReasoning: "ok"})
			}
			return out, nil
		},
	}
	orchestrator := newTestOrchestrator(generator)

	classified, warnings, err := orchestrator.Classify(context.Background(), "Acme", draftsFor(t, makeSignals(SourceNews, 3)))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Cause.Error(), "ss_2")

	assert.Equal(t, "heuristic fallback", classified[1].RiskReasoning)
	assert.Equal(t, ai.ThemeUnclassified, classified[1].ThemeLabel)
	assert.True(t, classified[1].Classified)
	assert.Equal(t, "ok", classified[0].RiskReasoning)
}

func TestClassifyRetriesThenFallsBackPerBatch(t *testing.T) {
	var calls atomic.Int32
	generator := &fakeGenerator{
		classify: func(string, []ai.BatchSignal) ([]ai.Classification, error) {
			calls.Add(1)
			return nil, errors.New("service unavailable")
		},
	}
	orchestrator := newTestOrchestrator(generator)
	orchestrator.BatchSize = 4

	drafts := draftsFor(t, makeSignals(SourceNews, 10)) // 3 batches
	classified, warnings, err := orchestrator.Classify(context.Background(), "Acme", drafts)
	require.NoError(t, err)
	assert.Len(t, warnings, 3)
	// MaxRetries=1 means two attempts per batch.
	assert.Equal(t, int32(6), calls.Load())

	for _, draft := range classified {
		assert.True(t, draft.Classified)
		assert.Equal(t, ai.ThemeUnclassified, draft.ThemeLabel)
	}
}

func TestClassifyServesRepeatInputFromCache(t *testing.T) {
	var calls atomic.Int32
	generator := &fakeGenerator{
		classify: func(_ string, signals []ai.BatchSignal) ([]ai.Classification, error) {
			calls.Add(1)
			out := make([]ai.Classification, 0, len(signals))
			for _, s := range signals {
				out = append(out, ai.Classification{ID: s.ID, RiskScore: 33, ThemeLabel: "OTHER", RiskReasoning: "ok"})
			}
			return out, nil
		},
	}
	orchestrator := newTestOrchestrator(generator)

	drafts := draftsFor(t, makeSignals(SourceNews, 5))
	_, _, err := orchestrator.Classify(context.Background(), "Acme", drafts)
	require.NoError(t, err)
	_, _, err = orchestrator.Classify(context.Background(), "Acme", drafts)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "second identical invocation should hit the response cache")
}

func TestClassifyPropagatesCancellation(t *testing.T) {
	generator := &fakeGenerator{
		classify: func(string, []ai.BatchSignal) ([]ai.Classification, error) {
			return nil, errors.New("slow")
		},
	}
	orchestrator := newTestOrchestrator(generator)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := orchestrator.Classify(ctx, "Acme", draftsFor(t, makeSignals(SourceNews, 2)))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
