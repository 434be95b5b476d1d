package catalog

import (
	"fmt"
	"time"

	matchfetcher "lolharvest/collector/data/match"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MatchInfo is one cataloged match. Observational only, like the run
// ledger: the flat-file store stays the authority on what was fetched.
type MatchInfo struct {
	ID            uint   `gorm:"primaryKey"`
	MatchId       string `gorm:"uniqueIndex"`
	QueueId       int
	GameVersion   string
	MatchStart    time.Time
	MatchDuration int
	FetchedAt     time.Time
}

// Catalog records fetched match metadata in Postgres.
type Catalog struct {
	db *gorm.DB
}

// Open the catalog connection and migrate the model.
func Open(dsn string) (*Catalog, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't get database connection: %w", err)
	}

	if err := db.AutoMigrate(&MatchInfo{}); err != nil {
		return nil, fmt.Errorf("couldn't migrate the catalog model: %w", err)
	}

	return &Catalog{db: db}, nil
}

// RecordMatch creates the catalog row for a fetched match.
// Re-recording a known match id is a no-op.
func (c *Catalog) RecordMatch(match *matchfetcher.MatchData, matchId string) error {
	row := &MatchInfo{
		MatchId:       matchId,
		QueueId:       match.Info.QueueId,
		GameVersion:   match.Info.GameVersion,
		MatchStart:    match.Info.GameCreation.Time(),
		MatchDuration: match.Info.GameDuration,
		FetchedAt:     time.Now(),
	}

	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		DoNothing: true,
	}).Create(row).Error
}
