package models

// PlayerRecord is one resolved leaderboard entry.
// Created once by the leaderboard stage and immutable afterwards.
type PlayerRecord struct {
	Rank         int
	Name         string
	Puuid        string
	LeaguePoints int
	Wins         int
	Losses       int
}

// Win rate percentage of the player, rounded by the CSV writer.
func (p PlayerRecord) WinRate() float64 {
	total := p.Wins + p.Losses
	if total == 0 {
		return 0
	}
	return float64(p.Wins) / float64(total) * 100
}

// PlayerMatches couples a player with its recent ranked match ids,
// most recent first, as returned by the match history endpoint.
type PlayerMatches struct {
	Player   PlayerRecord
	MatchIds []string
}

// FlatRow is the per (match, player) projection of a match artifact.
type FlatRow struct {
	MatchId           string
	Puuid             string
	Name              string
	Champion          string
	Kills             int
	Deaths            int
	Assists           int
	Win               bool
	Role              string
	TeamId            int
	GoldEarned        int
	DamageToChampions int
	VisionScore       int
	TotalCS           int
	KDA               float64
	CSPerMinute       float64
	DurationMinutes   float64
}
