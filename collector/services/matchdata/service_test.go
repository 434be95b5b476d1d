package matchdataservice

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lolharvest/collector/data"
	matchfetcher "lolharvest/collector/data/match"
	"lolharvest/collector/registry"
	"lolharvest/collector/requests"
	"lolharvest/collector/storage"
	"lolharvest/pkg/ledger"
	"lolharvest/pkg/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake match endpoint counting fetches per match id.
type fakeMatchAPI struct {
	mu      sync.Mutex
	fetches map[string]int
	failing map[string]bool
}

func newFakeMatchAPI() *fakeMatchAPI {
	return &fakeMatchAPI{
		fetches: make(map[string]int),
		failing: make(map[string]bool),
	}
}

func (f *fakeMatchAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		matchId := parts[len(parts)-1]

		f.mu.Lock()
		f.fetches[matchId]++
		failing := f.failing[matchId]
		f.mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		fmt.Fprintf(w, `{"metadata":{"matchId":"%s"},"info":{"gameDuration":1800,"queueId":420,"participants":[]}}`, matchId)
	}
}

func (f *fakeMatchAPI) totalFetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total int
	for _, count := range f.fetches {
		total += count
	}
	return total
}

func newTestService(t *testing.T, serverURL string, storeRoot string) (*MatchDataService, *storage.MatchStore, string) {
	t.Helper()

	limiter := requests.CreateRateLimiter(10000, time.Minute, 0)
	client := requests.CreateClient("test-key", limiter, 5*time.Second)
	fetcher := &data.MainFetcher{Match: matchfetcher.CreateMatchFetcher(client, serverURL)}

	store, err := storage.CreateMatchStore(storeRoot)
	require.NoError(t, err)

	ledgerPath := filepath.Join(t.TempDir(), "ledger.txt")
	runLedger, err := ledger.CreateLedger(ledgerPath)
	require.NoError(t, err)
	t.Cleanup(func() { runLedger.Close() })

	service := NewMatchDataService(fetcher, store, registry.CreateMemoryRegistry(), nil, runLedger, zerolog.Nop())
	return service, store, ledgerPath
}

func playerWithMatches(rank int, name string, matchIds ...string) models.PlayerMatches {
	return models.PlayerMatches{
		Player:   models.PlayerRecord{Rank: rank, Name: name, Puuid: "puuid-" + name},
		MatchIds: matchIds,
	}
}

// Players sharing matches produce exactly one fetch per distinct id.
func TestRunDeduplicatesSharedMatches(t *testing.T) {
	api := newFakeMatchAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()

	service, store, _ := newTestService(t, server.URL, t.TempDir())

	playerMatches := []models.PlayerMatches{
		playerWithMatches(1, "one", "NA1_1", "NA1_2"),
		playerWithMatches(2, "two", "NA1_2", "NA1_3"),
		playerWithMatches(3, "three", "NA1_1", "NA1_3"),
	}

	stats, err := service.Run(context.Background(), playerMatches)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.UniqueMatches)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 3, stats.Linked)
	assert.Equal(t, 3, api.totalFetches())

	artifacts, err := store.ListArtifacts()
	require.NoError(t, err)
	assert.Len(t, artifacts, 3)
}

// Running the pipeline twice over the same input fetches nothing new.
func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	api := newFakeMatchAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()

	storeRoot := t.TempDir()
	playerMatches := []models.PlayerMatches{
		playerWithMatches(1, "one", "NA1_1", "NA1_2", "NA1_3"),
	}

	service, _, _ := newTestService(t, server.URL, storeRoot)
	_, err := service.Run(context.Background(), playerMatches)
	require.NoError(t, err)
	assert.Equal(t, 3, api.totalFetches())

	// A fresh service over the same store, as a new process would be.
	service, _, _ = newTestService(t, server.URL, storeRoot)
	stats, err := service.Run(context.Background(), playerMatches)
	require.NoError(t, err)

	assert.Equal(t, 3, api.totalFetches(), "second run must not fetch")
	assert.Equal(t, 0, stats.Fetched)
	assert.Equal(t, 3, stats.Linked)
}

// A run interrupted after part of the artifacts resumes where it stopped.
func TestRunResumesAfterPartialRun(t *testing.T) {
	api := newFakeMatchAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()

	storeRoot := t.TempDir()
	service, store, _ := newTestService(t, server.URL, storeRoot)

	// 2 of 5 artifacts already persisted by the interrupted run.
	require.NoError(t, store.Save("NA1_1", []byte(`{"metadata":{"matchId":"NA1_1"},"info":{}}`)))
	require.NoError(t, store.Save("NA1_2", []byte(`{"metadata":{"matchId":"NA1_2"},"info":{}}`)))

	playerMatches := []models.PlayerMatches{
		playerWithMatches(1, "one", "NA1_1", "NA1_2", "NA1_3", "NA1_4", "NA1_5"),
	}

	stats, err := service.Run(context.Background(), playerMatches)
	require.NoError(t, err)

	assert.Equal(t, 3, api.totalFetches(), "exactly the missing artifacts are fetched")
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 2, stats.Linked)

	artifacts, err := store.ListArtifacts()
	require.NoError(t, err)
	assert.Len(t, artifacts, 5)
}

// A failing match is recorded and skipped without aborting the run,
// staying eligible for the next one.
func TestRunIsolatesPerMatchFailures(t *testing.T) {
	api := newFakeMatchAPI()
	api.failing["NA1_2"] = true
	server := httptest.NewServer(api.handler())
	defer server.Close()

	storeRoot := t.TempDir()
	service, store, _ := newTestService(t, server.URL, storeRoot)

	playerMatches := []models.PlayerMatches{
		playerWithMatches(1, "one", "NA1_1", "NA1_2", "NA1_3"),
	}

	stats, err := service.Run(context.Background(), playerMatches)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.Failed)

	artifacts, err := store.ListArtifacts()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"NA1_1", "NA1_3"}, artifacts)

	// The endpoint recovers; the next run picks the match up.
	api.failing["NA1_2"] = false
	service, _, _ = newTestService(t, server.URL, storeRoot)
	stats, err = service.Run(context.Background(), playerMatches)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Fetched)

	artifacts, err = store.ListArtifacts()
	require.NoError(t, err)
	assert.Len(t, artifacts, 3)
}

// A registry that remembers a match whose artifact never landed must
// not suppress the fetch: storage is the authority.
func TestRunRefetchesWhenRegistryOutlivesStorage(t *testing.T) {
	api := newFakeMatchAPI()
	api.failing["NA1_2"] = true
	server := httptest.NewServer(api.handler())
	defer server.Close()

	service, store, ledgerPath := newTestService(t, server.URL, t.TempDir())

	// Both players list the same match. The first attempt registers the
	// id and then fails, so the second attempt finds it registered but
	// absent from storage.
	playerMatches := []models.PlayerMatches{
		playerWithMatches(1, "one", "NA1_2"),
		playerWithMatches(2, "two", "NA1_2"),
	}

	stats, err := service.Run(context.Background(), playerMatches)
	require.NoError(t, err)

	assert.Equal(t, 2, api.totalFetches(), "the registered but unsaved match is fetched again")
	assert.Equal(t, 2, stats.Failed)
	assert.False(t, store.Exists("NA1_2"))

	content, err := os.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "known to the registry but absent on storage")
}

// Run separates the header, the per-player blocks and the summary with
// blank lines so the ledger stays readable.
func TestRunSeparatesLedgerSections(t *testing.T) {
	api := newFakeMatchAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()

	service, _, ledgerPath := newTestService(t, server.URL, t.TempDir())

	_, err := service.Run(context.Background(), []models.PlayerMatches{
		playerWithMatches(1, "one", "NA1_1"),
	})
	require.NoError(t, err)

	content, err := os.ReadFile(ledgerPath)
	require.NoError(t, err)

	var blanks int
	for _, line := range strings.Split(string(content), "\n") {
		if line == "" {
			blanks++
		}
	}
	// One after the header, one before the summary, plus the trailing
	// newline of the last entry.
	assert.GreaterOrEqual(t, blanks, 3)
	assert.Contains(t, string(content), "Total unique matches to process: 1\n\n")
}
