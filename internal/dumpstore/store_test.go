package dumpstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforceintel/internal/hypothesis"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "dumps.db"))
	require.NoError(t, err)
	return store
}

func sampleSignals() []hypothesis.RawSignal {
	return []hypothesis.RawSignal{
		{
			ID:         "news_1",
			SourceType: hypothesis.SourceNews,
			Text:       "Chain announces branch closures",
			SourceURL:  "https://example.com/news/1",
			IngestedAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			Metadata:   map[string]string{"title": "Branch closures"},
		},
		{
			ID:         "reddit_1",
			SourceType: hypothesis.SourceReddit,
			Text:       "Staff report unpaid salaries",
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	financial := &hypothesis.FinancialSnapshot{Sector: "Consumer Cyclical", ProfitMargin: -0.08}

	dump, err := store.Save("Twelve Cupcakes", "scrape", sampleSignals(), financial)
	require.NoError(t, err)
	assert.NotEmpty(t, dump.ID)
	assert.Equal(t, 2, dump.RecordCount)

	signals, snapshot, err := store.Load(dump.ID)
	require.NoError(t, err)
	assert.Equal(t, sampleSignals(), signals)
	require.NotNil(t, snapshot)
	assert.Equal(t, "Consumer Cyclical", snapshot.Sector)
}

func TestListReturnsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Save("Acme", "scrape", sampleSignals(), nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := store.Save("Acme", "scrape", sampleSignals(), nil)
	require.NoError(t, err)

	dumps, err := store.List()
	require.NoError(t, err)
	require.Len(t, dumps, 2)
	assert.Equal(t, second.ID, dumps[0].ID)
	assert.Equal(t, first.ID, dumps[1].ID)
}

func TestGetUnknownIDReturnsErrNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("no-such-dump")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = store.Load("no-such-dump")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesDump(t *testing.T) {
	store := openTestStore(t)

	dump, err := store.Save("Acme", "scrape", sampleSignals(), nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(dump.ID))
	_, err = store.Get(dump.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(dump.ID), ErrNotFound)
}
