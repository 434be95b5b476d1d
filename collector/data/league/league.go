package leaguefetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"lolharvest/collector/requests"
)

// The league fetcher with its client and platform host.
type LeagueFetcher struct {
	client  *requests.Client
	baseURL string
}

// Create a league fetcher.
func CreateLeagueFetcher(client *requests.Client, baseURL string) *LeagueFetcher {
	return &LeagueFetcher{
		client:  client,
		baseURL: baseURL,
	}
}

// Get the full challenger league for a given queue.
func (l *LeagueFetcher) GetChallengerLeague(ctx context.Context, queue string) (*ChallengerLeague, error) {
	url := fmt.Sprintf("%s/lol/league/v4/challengerleagues/by-queue/%s", l.baseURL, queue)

	body, err := l.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	// Parse the league entries.
	var league ChallengerLeague
	if err := json.Unmarshal(body, &league); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return &league, nil
}
