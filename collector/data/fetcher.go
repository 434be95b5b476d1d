package data

import (
	leaguefetcher "lolharvest/collector/data/league"
	matchfetcher "lolharvest/collector/data/match"
	playerfetcher "lolharvest/collector/data/player"
	"lolharvest/collector/requests"
	"lolharvest/pkg/regions"
)

// Define a main fetcher, grouping the per-endpoint fetchers.
type MainFetcher struct {
	League *leaguefetcher.LeagueFetcher
	Player *playerfetcher.PlayerFetcher
	Match  *matchfetcher.MatchFetcher
}

// Function to instantiate the main fetcher for a platform region.
// All fetchers share the same client, and through it the same limiter,
// since the request quota is a single global budget.
func CreateMainFetcher(client *requests.Client, platform string) *MainFetcher {
	platformURL := regions.PlatformHost(platform)
	routingURL := regions.RoutingHost(platform)

	return &MainFetcher{
		League: leaguefetcher.CreateLeagueFetcher(client, platformURL),
		Player: playerfetcher.CreatePlayerFetcher(client, platformURL, routingURL),
		Match:  matchfetcher.CreateMatchFetcher(client, routingURL),
	}
}
