package handoff

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lolharvest/pkg/models"
)

// The stages hand their results to the next stage through CSV files,
// so each stage can be re-run on its own. This package owns those files.

// File names under the output directory.
const (
	PlayersFile       = "all_challenger_puuids.csv"
	PlayerMatchesFile = "player_match_ids.csv"
	FlatRowsFile      = "parsed_match_data.csv"
)

// Missing stage input is a fatal startup condition; the error names the
// stage that produces the file.
func requireFile(path string, producingStage string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input file %s not found, run the %s stage first", path, producingStage)
	}
	return nil
}

// Write the resolved player records.
func WritePlayers(path string, players []models.PlayerRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{"rank", "name", "puuid", "league_points", "wins", "losses", "win_rate"})
	for _, p := range players {
		w.Write([]string{
			strconv.Itoa(p.Rank),
			p.Name,
			p.Puuid,
			strconv.Itoa(p.LeaguePoints),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Losses),
			strconv.FormatFloat(p.WinRate(), 'f', 2, 64),
		})
	}

	return w.Error()
}

// Load the resolved player records.
func LoadPlayers(path string) ([]models.PlayerRecord, error) {
	if err := requireFile(path, "players"); err != nil {
		return nil, err
	}

	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var players []models.PlayerRecord
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		players = append(players, models.PlayerRecord{
			Rank:         atoiDefault(row[0]),
			Name:         row[1],
			Puuid:        row[2],
			LeaguePoints: atoiDefault(row[3]),
			Wins:         atoiDefault(row[4]),
			Losses:       atoiDefault(row[5]),
		})
	}

	return players, nil
}

// Write the per-player match id lists.
// The ids travel comma-joined inside one quoted column, as the original
// collection files did.
func WritePlayerMatches(path string, playerMatches []models.PlayerMatches) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{"rank", "name", "puuid", "league_points", "match_ids"})
	for _, pm := range playerMatches {
		w.Write([]string{
			strconv.Itoa(pm.Player.Rank),
			pm.Player.Name,
			pm.Player.Puuid,
			strconv.Itoa(pm.Player.LeaguePoints),
			strings.Join(pm.MatchIds, ","),
		})
	}

	return w.Error()
}

// Load the per-player match id lists.
func LoadPlayerMatches(path string) ([]models.PlayerMatches, error) {
	if err := requireFile(path, "matchids"); err != nil {
		return nil, err
	}

	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var playerMatches []models.PlayerMatches
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}

		var matchIds []string
		for _, matchId := range strings.Split(row[4], ",") {
			if matchId = strings.TrimSpace(matchId); matchId != "" {
				matchIds = append(matchIds, matchId)
			}
		}

		playerMatches = append(playerMatches, models.PlayerMatches{
			Player: models.PlayerRecord{
				Rank:         atoiDefault(row[0]),
				Name:         row[1],
				Puuid:        row[2],
				LeaguePoints: atoiDefault(row[3]),
			},
			MatchIds: matchIds,
		})
	}

	return playerMatches, nil
}

// Write the flattened per (match, player) rows.
func WriteFlatRows(path string, rows []models.FlatRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{
		"match_id", "puuid", "summoner_name", "champion",
		"kills", "deaths", "assists", "win", "role", "team_id",
		"gold_earned", "damage_to_champions", "vision_score", "cs",
		"kda", "cs_per_min", "game_duration_minutes",
	})
	for _, r := range rows {
		w.Write([]string{
			r.MatchId,
			r.Puuid,
			r.Name,
			r.Champion,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			strconv.FormatBool(r.Win),
			r.Role,
			strconv.Itoa(r.TeamId),
			strconv.Itoa(r.GoldEarned),
			strconv.Itoa(r.DamageToChampions),
			strconv.Itoa(r.VisionScore),
			strconv.Itoa(r.TotalCS),
			strconv.FormatFloat(r.KDA, 'f', 2, 64),
			strconv.FormatFloat(r.CSPerMinute, 'f', 2, 64),
			strconv.FormatFloat(r.DurationMinutes, 'f', 2, 64),
		})
	}

	return w.Error()
}

// Read all data rows of a CSV file, skipping the header.
func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("couldn't read %s: %w", path, err)
	}

	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func atoiDefault(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
