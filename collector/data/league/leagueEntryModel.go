package leaguefetcher

// Define the type returned by a single leaderboard entry.
// The summoner id is transient; the durable puuid comes from a
// separate summoner lookup.
type LeagueItem struct {
	SummonerId   string `json:"summonerId"`
	SummonerName string `json:"summonerName"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	FreshBlood   bool   `json:"freshBlood"`
	HotStreak    bool   `json:"hotStreak"`
}

// The challenger league endpoint wraps the entries with some outer keys.
type ChallengerLeague struct {
	Tier     string       `json:"tier"`
	LeagueId string       `json:"leagueId"`
	Queue    string       `json:"queue"`
	Name     string       `json:"name"`
	Entries  []LeagueItem `json:"entries"`
}
