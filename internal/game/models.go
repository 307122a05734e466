package game

// StatKey identifies one of the six battle stats. Using a dedicated type
// instead of plain string makes code safer and self-documenting.
type StatKey string

const (
	StatHP             StatKey = "hp"
	StatAttack         StatKey = "attack"
	StatDefense        StatKey = "defense"
	StatSpecialAttack  StatKey = "special-attack"
	StatSpecialDefense StatKey = "special-defense"
	StatSpeed          StatKey = "speed"
)

// CardStatKey identifies one of the four comparable stats in card mode.
type CardStatKey string

const (
	CardStatStrength CardStatKey = "strength"
	CardStatAttack   CardStatKey = "attack"
	CardStatDefense  CardStatKey = "defense"
	CardStatAgility  CardStatKey = "agility"
)

// Creature is the read-only record fetched from the external data source.
// Immutable once fetched; the serialized form travels inside room
// documents and card hands.
type Creature struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Types   []string  `json:"types"`
	Stats   BaseStats `json:"stats"`
	Sprites Sprites   `json:"sprites"`
	// Moves keeps at most the first six raw move names; move sets are
	// derived from them on demand.
	Moves []string `json:"moves"`
}

type BaseStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// Base returns the base value for the given stat key, or fallback when the
// stat is absent (zero).
func (b BaseStats) Base(key StatKey, fallback int) int {
	var v int
	switch key {
	case StatHP:
		v = b.HP
	case StatAttack:
		v = b.Attack
	case StatDefense:
		v = b.Defense
	case StatSpecialAttack:
		v = b.SpecialAttack
	case StatSpecialDefense:
		v = b.SpecialDefense
	case StatSpeed:
		v = b.Speed
	}
	if v == 0 {
		return fallback
	}
	return v
}

type Sprites struct {
	FrontDefault string `json:"front_default"`
	Artwork      string `json:"artwork"`
}

// EffectiveStats are battle-usable values derived from base stats plus
// level/IV/EV/nature modifiers. Recomputed on demand, never persisted.
type EffectiveStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// Nature boosts one stat by 10% and lowers another by 10%. Empty keys mean
// a neutral nature.
type Nature struct {
	Boost StatKey `json:"boost,omitempty"`
	Lower StatKey `json:"lower,omitempty"`
}

// Modifiers tune the effective-stat computation. Zero values fall back to
// level 100, IV 31, EV 0 and a neutral nature.
type Modifiers struct {
	Level  int             `json:"level,omitempty"`
	IVs    map[StatKey]int `json:"ivs,omitempty"`
	EVs    map[StatKey]int `json:"evs,omitempty"`
	Nature Nature          `json:"nature,omitempty"`
}

// Move is one entry of a creature's derived move set.
type Move struct {
	Name  string `json:"name"`
	Power int    `json:"power"`
	Icon  string `json:"icon"`
}

// Weather names a battle weather condition; it scales matching attack
// types up or down.
type Weather string

const (
	WeatherClear     Weather = "clear"
	WeatherSun       Weather = "sun"
	WeatherRain      Weather = "rain"
	WeatherSnow      Weather = "snow"
	WeatherSandstorm Weather = "sandstorm"
)

// Side identifies one of the two PvE battle positions.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// StartMode selects how the opening turn of a battle is decided.
type StartMode string

const (
	StartBySpeed  StartMode = "speed"
	StartLeft     StartMode = "left"
	StartRight    StartMode = "right"
	StartAtRandom StartMode = "random"
)

// Room states.
const (
	StateSelecting     = "selecting"
	StateCardSelecting = "card-selecting"
	StateInProgress    = "in-progress"
	StateFinished      = "finished"
	StateEnded         = "ended"
)

// Game modes.
const (
	ModeClassic = "classic"
	ModeCards   = "cards"
)

// Invite statuses.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

// Presence statuses.
const (
	PresenceOnline = "online"
	PresenceBattle = "battle"
)

// Room is the authoritative shared record for one PvP match. It is only
// ever mutated through store transactions.
type Room struct {
	ID             string                 `json:"-"`
	State          string                 `json:"state"`
	GameMode       string                 `json:"gameMode"`
	CreatedAt      int64                  `json:"createdAt"`
	Players        map[string]*PlayerSlot `json:"players"`
	CurrentTurn    string                 `json:"currentTurn,omitempty"`
	Log            []TurnRecord           `json:"log,omitempty"`
	WinnerUID      string                 `json:"winnerUid,omitempty"`
	RematchRequest *RematchRequest        `json:"rematchRequest,omitempty"`
	AdminUID       string                 `json:"adminUid"`
	RegionFilter   string                 `json:"regionFilter"`
	CardBestOf     int                    `json:"cardBestOf"`
	CardBattle     *CardBattle            `json:"cardBattle,omitempty"`
}

// OpponentOf returns the uid of the other player in a two-player room, or
// empty when there is none.
func (r *Room) OpponentOf(uid string) string {
	for pid := range r.Players {
		if pid != uid {
			return pid
		}
	}
	return ""
}

// PlayerSlot holds one participant's state inside a room.
type PlayerSlot struct {
	UID      string    `json:"uid"`
	Name     string    `json:"name"`
	PhotoURL string    `json:"photoURL"`
	Pokemon  *Creature `json:"pokemon,omitempty"`
	HP       int       `json:"hp"`
	MaxHP    int       `json:"maxHp"`
	Ready    bool      `json:"ready"`
}

// TurnRecord is one entry of a battle log.
type TurnRecord struct {
	Turn         int     `json:"turn"`
	Attacker     string  `json:"attacker"`
	Defender     string  `json:"defender"`
	MoveName     string  `json:"moveName"`
	MovePower    int     `json:"movePower"`
	Damage       int     `json:"damage"`
	AttackType   string  `json:"attackType"`
	BaseTypeMult float64 `json:"baseTypeMult"`
	StabMult     float64 `json:"stabMult"`
	WeatherMult  float64 `json:"weatherMult"`
	TotalMult    float64 `json:"totalMult"`
	RemainingHP  int     `json:"remainingHP"`
}

type RematchRequest struct {
	FromUID   string `json:"fromUid"`
	FromName  string `json:"fromName"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
}

// CardBattle is the card mini-game sub-record of a room. Empty-string uid
// fields represent "no winner yet" / tie outcomes.
type CardBattle struct {
	Round        int                    `json:"round"`
	MaxRounds    int                    `json:"maxRounds"`
	Region       string                 `json:"region"`
	Scores       map[string]int         `json:"scores"`
	Hands        map[string]*Creature   `json:"hands"`
	Choices      map[string]CardStatKey `json:"choices"`
	SelectedStat CardStatKey            `json:"selectedStat,omitempty"`
	ChooserUID   string                 `json:"chooserUid,omitempty"`
	Revealed     bool                   `json:"revealed"`
	WinnerRound  string                 `json:"winnerRound,omitempty"`
	MatchWinner  string                 `json:"matchWinner,omitempty"`
}

// Invite lives in the recipient's inbox until responded to or expired.
type Invite struct {
	ID        string `json:"-"`
	FromUID   string `json:"fromUid"`
	FromName  string `json:"fromName"`
	FromPhoto string `json:"fromPhoto"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
	RoomID    string `json:"roomId,omitempty"`
}

// Presence is one online user's record, removed on disconnect.
type Presence struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Status   string `json:"status"`
	LastSeen int64  `json:"lastSeen"`
	RoomID   string `json:"roomId,omitempty"`
}

// Identity is the opaque triple supplied by the identity provider.
type Identity struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}
