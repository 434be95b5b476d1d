package matchlistservice

import (
	"context"

	"lolharvest/collector/data"
	"lolharvest/pkg/ledger"
	"lolharvest/pkg/models"

	"github.com/rs/zerolog"
)

// MatchListService collects the recent ranked match ids per player.
type MatchListService struct {
	fetcher    *data.MainFetcher
	ledger     *ledger.Ledger
	log        zerolog.Logger
	matchCount int
}

// Create the match list service.
func NewMatchListService(fetcher *data.MainFetcher, ledger *ledger.Ledger, log zerolog.Logger, matchCount int) *MatchListService {
	return &MatchListService{
		fetcher:    fetcher,
		ledger:     ledger,
		log:        log,
		matchCount: matchCount,
	}
}

// Run fetches the match id list for every player. A failure for one player
// is recorded and never aborts the remaining players. An empty list is a
// valid result, not a failure.
func (s *MatchListService) Run(ctx context.Context, players []models.PlayerRecord) []models.PlayerMatches {
	var playerMatches []models.PlayerMatches

	for i, player := range players {
		if (i+1)%10 == 0 {
			s.log.Info().Int("processed", i+1).Int("total", len(players)).Msg("collecting match ids")
		}

		if player.Puuid == "" {
			s.ledger.Errorf("Player %s (Rank %d): SKIPPED, no puuid available", player.Name, player.Rank)
			continue
		}

		matchIds, err := s.fetcher.Player.GetMatchList(ctx, player.Puuid, s.matchCount)
		if err != nil {
			s.ledger.Errorf("Player %s (Rank %d): FAILED, %v", player.Name, player.Rank, err)
			s.log.Warn().Err(err).Str("name", player.Name).Int("rank", player.Rank).Msg("match list fetch failed, skipping player")
			continue
		}

		s.ledger.Infof("Player %s (Rank %d): SUCCESS, %d matches", player.Name, player.Rank, len(matchIds))
		playerMatches = append(playerMatches, models.PlayerMatches{
			Player:   player,
			MatchIds: matchIds,
		})
	}

	return playerMatches
}
