package playerfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"lolharvest/collector/requests"
	queuevalues "lolharvest/pkg/riotvalues/queue"
)

// The player fetcher with its client and hosts.
// Summoner lookups live on the platform host, the match history
// on the routing host.
type PlayerFetcher struct {
	client      *requests.Client
	platformURL string
	routingURL  string
}

// Create a player fetcher.
func CreatePlayerFetcher(client *requests.Client, platformURL string, routingURL string) *PlayerFetcher {
	return &PlayerFetcher{
		client:      client,
		platformURL: platformURL,
		routingURL:  routingURL,
	}
}

// Get the summoner data for a transient summoner id, resolving the puuid.
func (p *PlayerFetcher) GetSummonerById(ctx context.Context, summonerId string) (*Summoner, error) {
	url := fmt.Sprintf("%s/lol/summoner/v4/summoners/%s", p.platformURL, summonerId)

	body, err := p.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	// Parse the summoner data.
	var summoner Summoner
	if err := json.Unmarshal(body, &summoner); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return &summoner, nil
}

// Get a players ranked match list, most recent first.
// An empty list is a valid result for players without qualifying matches.
func (p *PlayerFetcher) GetMatchList(ctx context.Context, puuid string, count int) ([]string, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids", p.routingURL, puuid)
	params := map[string]string{
		"count": strconv.Itoa(count),
		"queue": strconv.Itoa(queuevalues.RankedSolo),
		"type":  queuevalues.RankedMatchType,
	}

	body, err := p.client.Get(ctx, url, params)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	// Parse the matches list.
	var matches []string
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return matches, nil
}
