package matchdataservice

import (
	"context"

	"lolharvest/collector/catalog"
	"lolharvest/collector/data"
	"lolharvest/collector/registry"
	"lolharvest/collector/storage"
	"lolharvest/pkg/ledger"
	"lolharvest/pkg/models"

	"github.com/rs/zerolog"
)

// MatchDataService walks every player's match id list, fetching and
// persisting the matches not yet on durable storage.
type MatchDataService struct {
	fetcher  *data.MainFetcher
	store    *storage.MatchStore
	registry registry.Registry
	catalog  *catalog.Catalog // optional, nil when no database is configured
	ledger   *ledger.Ledger
	log      zerolog.Logger
}

// RunStats summarizes a matchdata run for the ledger footer.
type RunStats struct {
	Players       int
	UniqueMatches int
	Fetched       int
	Linked        int
	Failed        int
}

// Create the match data service.
func NewMatchDataService(
	fetcher *data.MainFetcher,
	store *storage.MatchStore,
	reg registry.Registry,
	cat *catalog.Catalog,
	ledger *ledger.Ledger,
	log zerolog.Logger,
) *MatchDataService {
	return &MatchDataService{
		fetcher:  fetcher,
		store:    store,
		registry: reg,
		catalog:  cat,
		ledger:   ledger,
		log:      log,
	}
}

// Run processes every (player, match) pair.
// An artifact already on disk is never fetched again: the player just gets
// a reference into the shared copy. Per-match failures are recorded and the
// run continues; the missing artifact stays eligible for the next run.
func (s *MatchDataService) Run(ctx context.Context, playerMatches []models.PlayerMatches) (*RunStats, error) {
	// Seed the registry with what previous runs already persisted.
	existing, err := s.store.ListArtifacts()
	if err != nil {
		return nil, err
	}
	if err := s.registry.Seed(ctx, existing); err != nil {
		return nil, err
	}

	stats := &RunStats{Players: len(playerMatches)}
	stats.UniqueMatches = countUnique(playerMatches)

	s.ledger.Infof("Match data collection started")
	s.ledger.Infof("Total unique matches to process: %d", stats.UniqueMatches)
	s.ledger.EmptyLine()

	for idx, pm := range playerMatches {
		playerDir, err := s.store.PlayerDir(pm.Player.Rank, pm.Player.Name)
		if err != nil {
			s.ledger.Errorf("Player %s (Rank %d): FAILED, %v", pm.Player.Name, pm.Player.Rank, err)
			s.log.Warn().Err(err).Str("name", pm.Player.Name).Msg("couldn't create the player directory, skipping player")
			continue
		}

		s.ledger.Infof("Processing player %d/%d: %s (Rank %d)", idx+1, len(playerMatches), pm.Player.Name, pm.Player.Rank)
		s.log.Info().Int("player", idx+1).Int("total", len(playerMatches)).Str("name", pm.Player.Name).Msg("processing player")

		for _, matchId := range pm.MatchIds {
			if matchId == "" {
				continue
			}

			// The artifact on disk is the final authority, not the registry.
			if s.store.Exists(matchId) {
				if err := s.store.Link(playerDir, matchId); err != nil {
					s.log.Warn().Err(err).Str("match", matchId).Msg("couldn't create the reference")
				}
				s.ledger.Infof("  Match %s - already exists, created link", matchId)
				stats.Linked++
				continue
			}

			isNew, err := s.registry.Register(ctx, matchId)
			if err != nil {
				s.log.Warn().Err(err).Str("match", matchId).Msg("registry update failed")
			} else if !isNew {
				// The registry knows the id but the artifact is absent: a
				// previous attempt failed or the registry outlived the
				// storage. Storage is the authority, so fetch anyway.
				s.ledger.Infof("  Match %s - known to the registry but absent on storage, fetching", matchId)
				s.log.Info().Str("match", matchId).Msg("registry and storage disagree, refetching")
			}

			raw, matchData, err := s.fetcher.Match.GetMatchData(ctx, matchId)
			if err != nil {
				s.ledger.Errorf("  Match %s - FAILED: %v", matchId, err)
				s.log.Warn().Err(err).Str("match", matchId).Msg("match fetch failed, skipping match")
				stats.Failed++
				continue
			}

			if err := s.store.Save(matchId, raw); err != nil {
				s.ledger.Errorf("  Match %s - FAILED to persist: %v", matchId, err)
				s.log.Warn().Err(err).Str("match", matchId).Msg("couldn't persist the artifact")
				stats.Failed++
				continue
			}

			if err := s.store.Link(playerDir, matchId); err != nil {
				s.log.Warn().Err(err).Str("match", matchId).Msg("couldn't create the reference")
			}

			if s.catalog != nil {
				if err := s.catalog.RecordMatch(matchData, matchId); err != nil {
					s.log.Warn().Err(err).Str("match", matchId).Msg("couldn't catalog the match")
				}
			}

			s.ledger.Infof("  Match %s - saved", matchId)
			stats.Fetched++
		}
	}

	s.ledger.EmptyLine()
	s.ledger.Infof("Match data collection completed: %d players, %d unique matches, %d fetched, %d linked, %d failed",
		stats.Players, stats.UniqueMatches, stats.Fetched, stats.Linked, stats.Failed)

	return stats, nil
}

// Count the distinct match ids across all players.
func countUnique(playerMatches []models.PlayerMatches) int {
	unique := make(map[string]struct{})
	for _, pm := range playerMatches {
		for _, matchId := range pm.MatchIds {
			if matchId != "" {
				unique[matchId] = struct{}{}
			}
		}
	}
	return len(unique)
}
