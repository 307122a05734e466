package game

import "gorm.io/gorm"

// CreatureRecord caches one creature fetched from the external data
// source. Data holds the serialized Creature so the cache survives schema
// drift in the upstream API.
type CreatureRecord struct {
	gorm.Model
	PokeID int    `json:"poke_id" gorm:"uniqueIndex"`
	Name   string `json:"name" gorm:"index"`
	Data   []byte `json:"-" gorm:"type:blob"`
}

func (CreatureRecord) TableName() string { return "creature_cache" }

// User stores unique player identity and aggregate stats.
type User struct {
	gorm.Model
	UID         string `json:"uid" gorm:"uniqueIndex"`
	Email       string `json:"-" gorm:"index"`
	Name        string `json:"name"`
	PhotoURL    string `json:"photoURL"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
}

func (User) TableName() string { return "player_profiles" }

// MatchRecord is the durable trace of one finished PvP match.
type MatchRecord struct {
	gorm.Model
	RoomID    string `json:"room_id" gorm:"index"`
	GameMode  string `json:"game_mode"`
	WinnerUID string `json:"winner_uid" gorm:"index"`
	LoserUID  string `json:"loser_uid" gorm:"index"`
	Turns     int    `json:"turns"`
}

func (MatchRecord) TableName() string { return "match_records" }
