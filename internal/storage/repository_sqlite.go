package storage

import (
	"encoding/json"
	"strings"

	"github.com/ivan12/Pokedex/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetCachedCreature(pokeID int) (*game.Creature, error) {
	var rec game.CreatureRecord
	if err := r.db.Where("poke_id = ?", pokeID).First(&rec).Error; err != nil {
		return nil, err
	}
	var c game.Creature
	if err := json.Unmarshal(rec.Data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) GetCachedCreatureByName(name string) (*game.Creature, error) {
	var rec game.CreatureRecord
	if err := r.db.Where("lower(name) = ?", strings.ToLower(name)).First(&rec).Error; err != nil {
		return nil, err
	}
	var c game.Creature
	if err := json.Unmarshal(rec.Data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) SaveCreature(c *game.Creature) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	rec := game.CreatureRecord{PokeID: c.ID, Name: c.Name, Data: data}
	// Upsert keyed by poke_id so refetches refresh stale cache rows.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poke_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "data"}),
	}).Create(&rec).Error
}

func (r *sqliteRepository) CachedIDs() ([]int, error) {
	var ids []int
	if err := r.db.Model(&game.CreatureRecord{}).Order("poke_id").Pluck("poke_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sqliteRepository) UpsertUser(ident game.Identity, email string) error {
	var u game.User
	if err := r.db.Where("uid = ?", ident.UID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{UID: ident.UID}
		} else {
			return err
		}
	}
	u.Name = ident.Name
	u.PhotoURL = ident.PhotoURL
	if email != "" {
		u.Email = email
	}
	return r.db.Save(&u).Error
}

func (r *sqliteRepository) GetUserByUID(uid string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("uid = ?", uid).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &game.User{UID: uid}, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetTopPlayers returns top N players ordered by Wins desc, then
// GamesPlayed desc.
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("wins DESC").
		Order("games_played DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RecordMatchResult stores the match row and bumps both players'
// aggregate stats in one transaction.
func (r *sqliteRepository) RecordMatchResult(rec *game.MatchRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		bump := func(uid string, won bool) error {
			if uid == "" {
				return nil
			}
			var u game.User
			if err := tx.Where("uid = ?", uid).First(&u).Error; err != nil {
				if err != gorm.ErrRecordNotFound {
					return err
				}
				u = game.User{UID: uid}
			}
			u.GamesPlayed++
			if won {
				u.Wins++
			}
			return tx.Save(&u).Error
		}
		if err := bump(rec.WinnerUID, true); err != nil {
			return err
		}
		return bump(rec.LoserUID, false)
	})
}

func (r *sqliteRepository) GetMatchHistory(uid string, limit int) ([]game.MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []game.MatchRecord
	if err := r.db.
		Where("winner_uid = ? OR loser_uid = ?", uid, uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
