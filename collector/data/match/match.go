package matchfetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"lolharvest/collector/requests"
)

// The match fetcher with its client and routing host.
type MatchFetcher struct {
	client  *requests.Client
	baseURL string
}

// Create a instance of the match fetcher.
func CreateMatchFetcher(client *requests.Client, baseURL string) *MatchFetcher {
	return &MatchFetcher{
		client:  client,
		baseURL: baseURL,
	}
}

// Get a given match data.
// The raw body is returned alongside the parsed struct so the artifact
// can be persisted exactly as the API sent it.
func (m *MatchFetcher) GetMatchData(ctx context.Context, matchId string) ([]byte, *MatchData, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s", m.baseURL, matchId)

	body, err := m.client.Get(ctx, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("API request failed: %w", err)
	}

	// Parse the match data.
	var matchData MatchData
	if err := json.Unmarshal(body, &matchData); err != nil {
		return nil, nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return body, &matchData, nil
}
