package flattenservice

import (
	"encoding/json"

	matchfetcher "lolharvest/collector/data/match"
	"lolharvest/collector/storage"
	"lolharvest/pkg/ledger"
	"lolharvest/pkg/models"

	"github.com/rs/zerolog"
)

// FlattenService projects the persisted match artifacts down to per-player
// summary rows for the tabular export.
type FlattenService struct {
	store  *storage.MatchStore
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// Create the flatten service.
func NewFlattenService(store *storage.MatchStore, ledger *ledger.Ledger, log zerolog.Logger) *FlattenService {
	return &FlattenService{
		store:  store,
		ledger: ledger,
		log:    log,
	}
}

// Flatten projects one match onto one target player.
// Returns false when the target is not among the participants, which is a
// data-quality gap and not an error.
func Flatten(match *matchfetcher.MatchData, puuid string) (models.FlatRow, bool) {
	for _, p := range match.Info.Participants {
		if p.Puuid != puuid {
			continue
		}

		name := p.RiotIdGameName
		if name == "" {
			name = p.SummonerName
		}

		totalCS := p.TotalMinionsKilled + p.NeutralMinionsKilled
		minutes := float64(match.Info.GameDuration) / 60

		// Zero deaths count as one so the ratio stays finite.
		deaths := p.Deaths
		if deaths == 0 {
			deaths = 1
		}

		row := models.FlatRow{
			MatchId:           match.Metadata.MatchId,
			Puuid:             p.Puuid,
			Name:              name,
			Champion:          p.ChampionName,
			Kills:             p.Kills,
			Deaths:            p.Deaths,
			Assists:           p.Assists,
			Win:               p.Win,
			Role:              p.TeamPosition,
			TeamId:            p.TeamId,
			GoldEarned:        p.GoldEarned,
			DamageToChampions: p.TotalDamageDealtToChampions,
			VisionScore:       p.VisionScore,
			TotalCS:           totalCS,
			KDA:               float64(p.Kills+p.Assists) / float64(deaths),
			DurationMinutes:   minutes,
		}
		if minutes > 0 {
			row.CSPerMinute = float64(totalCS) / minutes
		}

		return row, true
	}

	return models.FlatRow{}, false
}

// Run flattens every (player, match) pair whose artifact is on disk.
// Absent artifacts and absent participants are logged and skipped.
func (s *FlattenService) Run(playerMatches []models.PlayerMatches) []models.FlatRow {
	var rows []models.FlatRow

	for _, pm := range playerMatches {
		for _, matchId := range pm.MatchIds {
			if matchId == "" || !s.store.Exists(matchId) {
				continue
			}

			raw, err := s.store.Read(matchId)
			if err != nil {
				s.log.Warn().Err(err).Str("match", matchId).Msg("couldn't read the artifact, skipping")
				continue
			}

			var match matchfetcher.MatchData
			if err := json.Unmarshal(raw, &match); err != nil {
				s.ledger.Errorf("Match %s - FAILED to parse artifact: %v", matchId, err)
				s.log.Warn().Err(err).Str("match", matchId).Msg("couldn't parse the artifact, skipping")
				continue
			}

			row, found := Flatten(&match, pm.Player.Puuid)
			if !found {
				s.ledger.Infof("Match %s - player %s not among participants, no row produced", matchId, pm.Player.Name)
				continue
			}

			rows = append(rows, row)
		}
	}

	return rows
}
