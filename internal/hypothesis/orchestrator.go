package hypothesis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"workforceintel/internal/ai"
)

// Orchestrator drives the only fallible, concurrent stage of the pipeline:
// it partitions drafts into batches, classifies each batch through the
// external text generator with bounded concurrency and retry, and falls back
// to the deterministic heuristic for any batch that exhausts its retries.
// AI failures never escape this component; they degrade into warnings.
type Orchestrator struct {
	Generator      ai.TextGenerator
	Fallback       *ai.Heuristic
	BatchSize      int
	MaxConcurrency int
	MaxRetries     int
	Timeout        time.Duration
	Backoff        time.Duration
	CacheTTL       time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	classifications []ai.Classification
	expires         time.Time
}

// NewOrchestrator constructs an orchestrator with defaults filled in.
func NewOrchestrator(generator ai.TextGenerator, fallback *ai.Heuristic) *Orchestrator {
	if fallback == nil {
		fallback = ai.NewHeuristic()
	}
	return &Orchestrator{
		Generator:      generator,
		Fallback:       fallback,
		BatchSize:      8,
		MaxConcurrency: 4,
		MaxRetries:     3,
		Timeout:        30 * time.Second,
		Backoff:        500 * time.Millisecond,
		CacheTTL:       2 * time.Minute,
		cache:          make(map[string]cacheEntry),
	}
}

// Classify fills in severity, risk score, theme and reasoning for every
// draft. Merging is done by echoed id, never by position, so out-of-order
// responses are harmless. The returned error is non-nil only when the caller
// cancels; per-batch AI failures surface as warnings instead.
func (o *Orchestrator) Classify(ctx context.Context, company string, drafts []classificationDraft) ([]classificationDraft, []PartialDataWarning, error) {
	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}
	batches := chunkDrafts(drafts, batchSize)
	results := make([][]ai.Classification, len(batches))
	failures := make([]error, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.MaxConcurrency)
	for idx := range batches {
		idx := idx
		g.Go(func() error {
			classifications, err := o.classifyBatch(gctx, company, batches[idx])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failures[idx] = err
				return nil
			}
			results[idx] = classifications
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("orchestrator: classification aborted: %w", err)
	}

	classified := make([]classificationDraft, len(drafts))
	copy(classified, drafts)

	byID := make(map[string]ai.Classification)
	for _, classifications := range results {
		for _, c := range classifications {
			byID[c.ID] = c
		}
	}

	var warnings []PartialDataWarning
	for idx, err := range failures {
		if err != nil {
			log.Printf("Orchestrator: batch %d fell back to heuristic: %v", idx, err)
			warnings = append(warnings, PartialDataWarning{Stage: "classification", Cause: err})
		}
	}

	for i := range classified {
		draft := &classified[i]
		if c, ok := byID[draft.ID]; ok {
			mergeClassification(draft, c)
			continue
		}
		// Batch failed outright or the model dropped this id: judge the
		// draft individually so no signal is ever lost.
		if failures[draft.Index/batchSize] == nil {
			warnings = append(warnings, PartialDataWarning{
				Stage: "classification",
				Cause: fmt.Errorf("id %s missing from model response", draft.ID),
			})
		}
		fallback, _ := o.Fallback.ClassifyBatch(ctx, company, []ai.BatchSignal{batchSignal(*draft)})
		mergeClassification(draft, fallback[0])
	}

	return classified, warnings, nil
}

func (o *Orchestrator) classifyBatch(ctx context.Context, company string, batch []classificationDraft) ([]ai.Classification, error) {
	signals := make([]ai.BatchSignal, 0, len(batch))
	for _, draft := range batch {
		signals = append(signals, batchSignal(draft))
	}

	key := batchKey(company, signals)
	if cached, ok := o.cachedResult(key); ok {
		return cached, nil
	}

	var lastErr error
	for attempt := 0; attempt <= o.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := o.Backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, o.Timeout)
		classifications, err := o.Generator.ClassifyBatch(callCtx, company, signals)
		cancel()
		if err == nil {
			o.storeResult(key, classifications)
			return classifications, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("orchestrator: %d attempts exhausted: %w", o.MaxRetries+1, lastErr)
}

func (o *Orchestrator) cachedResult(key string) ([]ai.Classification, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.cache[key]
	if !ok || time.Now().After(entry.expires) {
		delete(o.cache, key)
		return nil, false
	}
	return entry.classifications, true
}

func (o *Orchestrator) storeResult(key string, classifications []ai.Classification) {
	if o.CacheTTL <= 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cache == nil {
		o.cache = make(map[string]cacheEntry)
	}
	o.cache[key] = cacheEntry{classifications: classifications, expires: time.Now().Add(o.CacheTTL)}
}

// mergeClassification applies a model judgment to a draft, clamping the
// score and re-deriving severity from it so the two stay consistent with the
// fixed thresholds no matter what the model echoed.
func mergeClassification(draft *classificationDraft, c ai.Classification) {
	score := c.RiskScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	draft.RiskScore = score
	draft.Severity = ai.SeverityForScore(score)
	draft.ThemeLabel = c.ThemeLabel
	if draft.ThemeLabel == "" {
		draft.ThemeLabel = themeUnassigned
	}
	draft.RiskReasoning = c.RiskReasoning
	if draft.RiskReasoning == "" {
		draft.RiskReasoning = "Risk assessment pending"
	}
	draft.Classified = true
}

func batchSignal(draft classificationDraft) ai.BatchSignal {
	return ai.BatchSignal{
		ID:         draft.ID,
		SourceType: draft.Raw.SourceType,
		Text:       truncate(draft.Raw.Text, 500),
	}
}

func chunkDrafts(drafts []classificationDraft, size int) [][]classificationDraft {
	if size <= 0 {
		size = 8
	}
	var batches [][]classificationDraft
	for start := 0; start < len(drafts); start += size {
		end := start + size
		if end > len(drafts) {
			end = len(drafts)
		}
		batches = append(batches, drafts[start:end])
	}
	return batches
}

func batchKey(company string, signals []ai.BatchSignal) string {
	h := sha256.New()
	h.Write([]byte(company))
	for _, s := range signals {
		h.Write([]byte{0})
		h.Write([]byte(s.ID))
		h.Write([]byte{0})
		h.Write([]byte(s.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}
