package storage

import (
	"github.com/ivan12/Pokedex/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Keep the schema updated via AutoMigrate; the DB file can simply be
	// removed to start fresh.
	if err := db.AutoMigrate(&game.CreatureRecord{}, &game.User{}, &game.MatchRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}
