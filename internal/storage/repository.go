package storage

import (
	"github.com/ivan12/Pokedex/internal/game"
)

type Repository interface {
	// Creature cache. GetCachedCreature returns gorm.ErrRecordNotFound
	// when the id was never cached.
	GetCachedCreature(pokeID int) (*game.Creature, error)
	GetCachedCreatureByName(name string) (*game.Creature, error)
	SaveCreature(c *game.Creature) error
	CachedIDs() ([]int, error)

	// Player identity and aggregate stats.
	UpsertUser(ident game.Identity, email string) error
	GetUserByUID(uid string) (*game.User, error)
	// Leaderboard
	GetTopPlayers(limit int) ([]game.User, error)

	// Durable match results.
	RecordMatchResult(rec *game.MatchRecord) error
	GetMatchHistory(uid string, limit int) ([]game.MatchRecord, error)
}
