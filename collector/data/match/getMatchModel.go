package matchfetcher

import (
	"encoding/json"
	"time"
)

// Handle the conversion of the int timestamps from riot.
type RiotTime time.Time

// Add the riot time UnmarshalJSON.
func (rt *RiotTime) UnmarshalJSON(b []byte) error {
	var timestamp int64
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}

	// Convert milliseconds to time.Time
	*rt = RiotTime(time.UnixMilli(timestamp))
	return nil
}

// Get the true time.
func (rt RiotTime) Time() time.Time {
	return time.Time(rt)
}

// Return type from the match_v5 endpoint.
// Only the fields the collector projects are declared; the raw body is
// what gets persisted, so nothing is lost by the narrow struct.
type MatchData struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// MatchMetadata carries the canonical match identifier.
type MatchMetadata struct {
	MatchId      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

// MatchInfo contains the basic match metadata.
type MatchInfo struct {
	GameCreation RiotTime      `json:"gameCreation"`
	GameDuration int           `json:"gameDuration"`
	GameMode     string        `json:"gameMode"`
	GameVersion  string        `json:"gameVersion"`
	QueueId      int           `json:"queueId"`
	Participants []MatchPlayer `json:"participants"`
}

// MatchPlayer contains the stats of a given player in a match.
type MatchPlayer struct {
	Puuid                       string `json:"puuid"`
	SummonerName                string `json:"summonerName"`
	RiotIdGameName              string `json:"riotIdGameName"`
	ChampionName                string `json:"championName"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	Win                         bool   `json:"win"`
	TeamPosition                string `json:"teamPosition"`
	TeamId                      int    `json:"teamId"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	VisionScore                 int    `json:"visionScore"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
}
