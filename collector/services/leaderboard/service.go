package leaderboardservice

import (
	"context"
	"fmt"
	"sort"

	"lolharvest/collector/data"
	"lolharvest/pkg/ledger"
	"lolharvest/pkg/models"
	queuevalues "lolharvest/pkg/riotvalues/queue"

	"github.com/rs/zerolog"
)

// LeaderboardService resolves the challenger leaderboard into durable
// player records.
type LeaderboardService struct {
	fetcher *data.MainFetcher
	ledger  *ledger.Ledger
	log     zerolog.Logger
}

// Create the leaderboard service.
func NewLeaderboardService(fetcher *data.MainFetcher, ledger *ledger.Ledger, log zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		fetcher: fetcher,
		ledger:  ledger,
		log:     log,
	}
}

// Run fetches the challenger league and resolves each transient summoner id
// to its puuid. A failed lookup skips that entry and continues; only the
// leaderboard fetch itself is fatal.
func (s *LeaderboardService) Run(ctx context.Context) ([]models.PlayerRecord, error) {
	league, err := s.fetcher.League.GetChallengerLeague(ctx, queuevalues.RankedQueueValue[queuevalues.RankedSolo])
	if err != nil {
		return nil, fmt.Errorf("couldn't fetch the challenger leaderboard: %w", err)
	}

	entries := league.Entries

	// Rank by league points descending. The stable sort keeps the input
	// order for ties, so reruns over the same leaderboard agree.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LeaguePoints > entries[j].LeaguePoints
	})

	s.log.Info().Int("entries", len(entries)).Msg("resolving challenger players")
	s.ledger.Infof("Resolving %d challenger entries", len(entries))

	var players []models.PlayerRecord
	for i, entry := range entries {
		rank := i + 1

		if (i+1)%10 == 0 {
			s.log.Info().Int("processed", i+1).Int("total", len(entries)).Msg("resolving players")
		}

		name := entry.SummonerName
		if name == "" {
			name = "Unknown"
		}

		if entry.SummonerId == "" {
			s.ledger.Errorf("Rank %d: %s - SKIPPED, no summoner id on the entry", rank, name)
			continue
		}

		summoner, err := s.fetcher.Player.GetSummonerById(ctx, entry.SummonerId)
		if err != nil {
			s.ledger.Errorf("Rank %d: %s - SKIPPED, summoner lookup failed: %v", rank, name, err)
			s.log.Warn().Err(err).Str("name", name).Int("rank", rank).Msg("summoner lookup failed, skipping")
			continue
		}

		players = append(players, models.PlayerRecord{
			Rank:         rank,
			Name:         name,
			Puuid:        summoner.Puuid,
			LeaguePoints: entry.LeaguePoints,
			Wins:         entry.Wins,
			Losses:       entry.Losses,
		})
	}

	s.ledger.Infof("Resolved %d of %d challenger entries", len(players), len(entries))
	return players, nil
}
