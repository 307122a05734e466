package pve

// Package pve runs a local battle between two chosen creatures. One side
// can be driven by a player, the other plays itself on a timer; when the
// player idles, their side auto-plays too. A battle is a small state
// machine (idle -> active -> finished) guarded by one mutex, with every
// delayed action going through cancellable timers so Reset never leaves a
// stray goroutine mutating state.

import (
	"errors"
	"sync"
	"time"

	"github.com/ivan12/Pokedex/internal/engine"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/rng"
)

var (
	ErrMissingCreature = errors.New("pve: both sides need a creature")
	ErrNotActive       = errors.New("pve: battle is not active")
	ErrNotYourTurn     = errors.New("pve: not this side's turn")
	ErrLocked          = errors.New("pve: resolving previous turn")
	ErrBadMove         = errors.New("pve: unknown move")
)

const (
	defaultAutoTurnDelay = 3 * time.Second
	defaultOpenerDelay   = 850 * time.Millisecond
	defaultLockDelay     = 550 * time.Millisecond

	logKeep = 8
)

// Config tunes a battle. Zero durations fall back to the defaults above.
type Config struct {
	AutoTurnDelay time.Duration
	OpenerDelay   time.Duration
	LockDelay     time.Duration
	Weather       game.Weather
	StartMode     game.StartMode
}

func (c Config) withDefaults() Config {
	if c.AutoTurnDelay <= 0 {
		c.AutoTurnDelay = defaultAutoTurnDelay
	}
	if c.OpenerDelay <= 0 {
		c.OpenerDelay = defaultOpenerDelay
	}
	if c.LockDelay <= 0 {
		c.LockDelay = defaultLockDelay
	}
	if c.Weather == "" {
		c.Weather = game.WeatherClear
	}
	if c.StartMode == "" {
		c.StartMode = game.StartBySpeed
	}
	return c
}

// Snapshot is a point-in-time copy of a battle, safe to serialize.
type Snapshot struct {
	Active   bool              `json:"active"`
	Locked   bool              `json:"locked"`
	Turn     game.Side         `json:"turn,omitempty"`
	Winner   game.Side         `json:"winner,omitempty"`
	HPLeft   int               `json:"hpLeft"`
	HPRight  int               `json:"hpRight"`
	MaxLeft  int               `json:"maxLeft"`
	MaxRight int               `json:"maxRight"`
	Message  string            `json:"message"`
	Log      []game.TurnRecord `json:"log"`
	LastMove *game.TurnRecord  `json:"lastMove,omitempty"`
}

// Battle is one PvE session. All exported methods are safe for
// concurrent use.
type Battle struct {
	mu     sync.Mutex
	cfg    Config
	src    rng.Source
	left   *game.Creature
	right  *game.Creature
	timers []*time.Timer
	// gen invalidates timers armed before the last Reset/Start.
	gen int

	active   bool
	locked   bool
	turn     game.Side
	winner   game.Side
	hpLeft   int
	hpRight  int
	maxLeft  int
	maxRight int
	message  string
	log      []game.TurnRecord
	lastMove *game.TurnRecord
}

func New(left, right *game.Creature, cfg Config, src rng.Source) *Battle {
	if src == nil {
		src = rng.New()
	}
	return &Battle{cfg: cfg.withDefaults(), src: src, left: left, right: right}
}

// Start arms the opening turn. Starting an already active battle resets
// it first.
func (b *Battle) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.left == nil || b.right == nil {
		return ErrMissingCreature
	}
	b.resetLocked()

	b.hpLeft = engine.MaxHP(b.left)
	b.hpRight = engine.MaxHP(b.right)
	b.maxLeft = b.hpLeft
	b.maxRight = b.hpRight
	b.active = true
	b.turn = engine.DecideFirstTurn(b.left, b.right, b.cfg.StartMode, b.src)
	if b.turn == game.SideLeft {
		b.message = engine.FormatMoveName(b.left.Name) + " enters the field!"
	} else {
		b.message = engine.FormatMoveName(b.right.Name) + " takes the lead!"
	}

	if b.turn == game.SideRight {
		// The foe opens quickly, before the idle auto-turn would fire.
		b.armLocked(b.cfg.OpenerDelay, func() { b.autoTurn(game.SideRight) })
	}
	b.armLocked(b.cfg.AutoTurnDelay, b.autoTurnCurrent)
	return nil
}

// ResolveTurn plays one move for the given side. moveIndex addresses the
// side's derived move set; pass a negative index for a random move.
func (b *Battle) ResolveTurn(side game.Side, moveIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolveLocked(side, moveIndex)
}

// Reset cancels pending timers and returns the battle to idle.
func (b *Battle) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked()
}

// Snapshot copies the current state.
func (b *Battle) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := Snapshot{
		Active:   b.active,
		Locked:   b.locked,
		Turn:     b.turn,
		Winner:   b.winner,
		HPLeft:   b.hpLeft,
		HPRight:  b.hpRight,
		MaxLeft:  b.maxLeft,
		MaxRight: b.maxRight,
		Message:  b.message,
		Log:      append([]game.TurnRecord(nil), b.log...),
	}
	if b.lastMove != nil {
		lm := *b.lastMove
		snap.LastMove = &lm
	}
	return snap
}

func (b *Battle) resetLocked() {
	for _, t := range b.timers {
		t.Stop()
	}
	b.timers = nil
	b.gen++
	b.active = false
	b.locked = false
	b.turn = ""
	b.winner = ""
	b.hpLeft, b.hpRight, b.maxLeft, b.maxRight = 0, 0, 0, 0
	b.message = ""
	b.log = nil
	b.lastMove = nil
}

// armLocked schedules fn unless the battle is reset first. Caller holds
// mu.
func (b *Battle) armLocked(d time.Duration, fn func()) {
	gen := b.gen
	t := time.AfterFunc(d, func() {
		b.mu.Lock()
		stale := gen != b.gen
		b.mu.Unlock()
		if !stale {
			fn()
		}
	})
	b.timers = append(b.timers, t)
}

// autoTurn plays a random move for side. Refusals (lockout, wrong turn,
// finished) are expected and dropped silently.
func (b *Battle) autoTurn(side game.Side) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if side == "" {
		return
	}
	_ = b.resolveLocked(side, -1)
}

// autoTurnCurrent plays the side whose turn it is when the idle timer
// fires.
func (b *Battle) autoTurnCurrent() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.turn == "" {
		return
	}
	_ = b.resolveLocked(b.turn, -1)
}

func (b *Battle) resolveLocked(side game.Side, moveIndex int) error {
	if !b.active || b.winner != "" {
		return ErrNotActive
	}
	if b.turn != side {
		return ErrNotYourTurn
	}
	if b.locked {
		return ErrLocked
	}

	attacker, defender := b.left, b.right
	defenderSide := game.SideRight
	if side == game.SideRight {
		attacker, defender = b.right, b.left
		defenderSide = game.SideLeft
	}

	moves := engine.DerivedMoves(attacker)
	if moveIndex < 0 {
		moveIndex = b.src.Intn(len(moves))
	}
	if moveIndex >= len(moves) {
		return ErrBadMove
	}
	move := moves[moveIndex]

	pack := engine.CalcDamage(attacker, defender, b.cfg.Weather, b.src)
	damage := engine.ScaleByMove(pack.Damage, move.Power)

	targetHP := b.hpRight
	if defenderSide == game.SideLeft {
		targetHP = b.hpLeft
	}
	nextHP := targetHP - damage
	if nextHP < 0 {
		nextHP = 0
	}
	if defenderSide == game.SideLeft {
		b.hpLeft = nextHP
	} else {
		b.hpRight = nextHP
	}

	rec := game.TurnRecord{
		Turn:         len(b.log) + 1,
		Attacker:     attacker.Name,
		Defender:     defender.Name,
		MoveName:     move.Name,
		MovePower:    move.Power,
		Damage:       damage,
		AttackType:   pack.AttackType,
		BaseTypeMult: pack.BaseTypeMult,
		StabMult:     pack.StabMult,
		WeatherMult:  pack.WeatherMult,
		TotalMult:    pack.TotalMult,
		RemainingHP:  nextHP,
	}
	b.log = append(b.log, rec)
	if len(b.log) > logKeep {
		b.log = b.log[len(b.log)-logKeep:]
	}
	b.lastMove = &rec
	b.message = engine.FormatMoveName(attacker.Name) + " used " + move.Name + "!"

	if nextHP <= 0 {
		b.winner = side
		b.turn = ""
		b.active = false
		b.message = engine.FormatMoveName(attacker.Name) + " won!"
		return nil
	}

	b.turn = defenderSide
	b.locked = true
	b.armLocked(b.cfg.LockDelay, b.unlock)
	return nil
}

// unlock clears the post-turn lockout and arms the next idle auto-turn.
func (b *Battle) unlock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = false
	if b.active && b.winner == "" && b.turn != "" {
		b.armLocked(b.cfg.AutoTurnDelay, b.autoTurnCurrent)
	}
}
