package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lolharvest/collector/catalog"
	"lolharvest/collector/data"
	"lolharvest/collector/handoff"
	"lolharvest/collector/registry"
	"lolharvest/collector/requests"
	flattenservice "lolharvest/collector/services/flatten"
	leaderboardservice "lolharvest/collector/services/leaderboard"
	matchdataservice "lolharvest/collector/services/matchdata"
	matchlistservice "lolharvest/collector/services/matchlist"
	"lolharvest/collector/storage"
	"lolharvest/pkg/config"
	"lolharvest/pkg/ledger"
	"lolharvest/pkg/regions"

	"github.com/rs/zerolog"
)

// Redis set holding every match id seen across runs.
const registryKey = "lolharvest:matches"

// The collector runs in stages, each reading the previous stage's file,
// so a long collection can be resumed or re-run piecewise.
const usage = `usage: collector [stage]

stages:
  players   resolve the challenger leaderboard into player records
  matchids  collect the recent ranked match ids per player
  matches   fetch and persist the match artifacts
  flatten   project the artifacts into the tabular export
  all       run the four stages in order (default)
`

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("missing required configuration")
	}

	if !regions.IsValid(cfg.Region) {
		log.Fatal().Str("region", cfg.Region).Msg("unknown region code")
	}

	stage := "all"
	if len(os.Args) > 1 {
		stage = os.Args[1]
	}

	switch stage {
	case "players", "matchids", "matches", "flatten", "all":
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("couldn't create the output directory")
	}

	runLedger, err := ledger.CreateLedger(ledgerPath(cfg.OutputDir))
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't create the run ledger")
	}
	defer runLedger.Close()

	if err := run(context.Background(), stage, cfg, runLedger, log); err != nil {
		log.Fatal().Err(err).Str("stage", stage).Msg("collection failed")
	}

	// Ship the run history when a bucket is configured.
	if cfg.Bucket.LogBucket != "" {
		if err := runLedger.UploadToS3Bucket(cfg.Bucket, filepath.Base(runLedger.Path())); err != nil {
			log.Warn().Err(err).Msg("couldn't upload the run ledger")
		}
	}

	log.Info().Str("stage", stage).Msg("collection complete")
}

// Run the requested stage, or all of them in order.
func run(ctx context.Context, stage string, cfg *config.Config, runLedger *ledger.Ledger, log zerolog.Logger) error {
	limiter := requests.CreateRateLimiter(cfg.MaxRequests, cfg.Window, cfg.MinInterval)
	limiter.NotifyPause(func(reason string, wait time.Duration) {
		runLedger.Infof("Rate limit pause (%s): sleeping for %.1f seconds", reason, wait.Seconds())
		log.Info().Str("reason", reason).Dur("wait", wait).Msg("rate limit pause")
	})
	client := requests.CreateClient(cfg.ApiKey, limiter, cfg.RequestTimeout)
	fetcher := data.CreateMainFetcher(client, cfg.Region)

	playersPath := filepath.Join(cfg.OutputDir, handoff.PlayersFile)
	playerMatchesPath := filepath.Join(cfg.OutputDir, handoff.PlayerMatchesFile)
	flatRowsPath := filepath.Join(cfg.OutputDir, handoff.FlatRowsFile)

	if stage == "players" || stage == "all" {
		players, err := leaderboardservice.NewLeaderboardService(fetcher, runLedger, log).Run(ctx)
		if err != nil {
			return err
		}
		if err := handoff.WritePlayers(playersPath, players); err != nil {
			return err
		}
		log.Info().Int("players", len(players)).Str("file", playersPath).Msg("player records written")
	}

	if stage == "matchids" || stage == "all" {
		players, err := handoff.LoadPlayers(playersPath)
		if err != nil {
			return err
		}
		playerMatches := matchlistservice.NewMatchListService(fetcher, runLedger, log, cfg.MatchCount).Run(ctx, players)
		if err := handoff.WritePlayerMatches(playerMatchesPath, playerMatches); err != nil {
			return err
		}
		log.Info().Int("players", len(playerMatches)).Str("file", playerMatchesPath).Msg("match id lists written")
	}

	if stage == "matches" || stage == "all" {
		playerMatches, err := handoff.LoadPlayerMatches(playerMatchesPath)
		if err != nil {
			return err
		}

		store, err := storage.CreateMatchStore(filepath.Join(cfg.OutputDir, "match_data"))
		if err != nil {
			return err
		}

		var reg registry.Registry
		if cfg.Redis.Host != "" {
			redisRegistry := registry.CreateRedisRegistry(cfg.Redis, registryKey)
			defer redisRegistry.Close()
			reg = redisRegistry
		} else {
			reg = registry.CreateMemoryRegistry()
		}

		var cat *catalog.Catalog
		if cfg.DatabaseURL != "" {
			cat, err = catalog.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
		}

		stats, err := matchdataservice.NewMatchDataService(fetcher, store, reg, cat, runLedger, log).Run(ctx, playerMatches)
		if err != nil {
			return err
		}
		log.Info().
			Int("unique", stats.UniqueMatches).
			Int("fetched", stats.Fetched).
			Int("linked", stats.Linked).
			Int("failed", stats.Failed).
			Msg("match artifacts collected")
	}

	if stage == "flatten" || stage == "all" {
		playerMatches, err := handoff.LoadPlayerMatches(playerMatchesPath)
		if err != nil {
			return err
		}

		store, err := storage.CreateMatchStore(filepath.Join(cfg.OutputDir, "match_data"))
		if err != nil {
			return err
		}

		rows := flattenservice.NewFlattenService(store, runLedger, log).Run(playerMatches)
		if err := handoff.WriteFlatRows(flatRowsPath, rows); err != nil {
			return err
		}
		log.Info().Int("rows", len(rows)).Str("file", flatRowsPath).Msg("flat rows written")
	}

	return nil
}

// Per-run ledger file name.
func ledgerPath(outputDir string) string {
	return filepath.Join(outputDir, fmt.Sprintf("collector_log_%s.txt", time.Now().Format("20060102_150405")))
}
