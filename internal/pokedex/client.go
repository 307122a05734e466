package pokedex

// Package pokedex fetches creature data from the public PokeAPI and keeps
// a durable cache in the repository so the arena keeps working when the
// upstream is slow or unreachable for known creatures.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ivan12/Pokedex/internal/constants"
	"github.com/ivan12/Pokedex/internal/dedupe"
	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/logging"
	"github.com/ivan12/Pokedex/internal/storage"
)

// apiCreature mirrors the subset of the upstream payload the arena needs.
type apiCreature struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
}

const maxRawMoves = 6

type Client struct {
	httpClient *http.Client
	baseURL    string
	repo       storage.Repository
}

// NewClient builds a PokeAPI client backed by repo for caching. repo may
// be nil; the client then always hits the upstream.
func NewClient(repo storage.Repository) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    constants.PokeAPIBaseURL,
		repo:       repo,
	}
}

// NewClientWithBase is used by tests to point the client at a fake
// upstream.
func NewClientWithBase(repo storage.Repository, baseURL string) *Client {
	c := NewClient(repo)
	c.baseURL = baseURL
	return c
}

// ByID returns the creature with the given Pokédex number, from cache
// when possible.
func (c *Client) ByID(ctx context.Context, id int) (*game.Creature, error) {
	if c.repo != nil {
		if cached, err := c.repo.GetCachedCreature(id); err == nil {
			return cached, nil
		}
	}
	return c.fetch(ctx, strconv.Itoa(id))
}

// ByName returns the creature with the given name (case-insensitive),
// from cache when possible.
func (c *Client) ByName(ctx context.Context, name string) (*game.Creature, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("pokedex: empty creature name")
	}
	if c.repo != nil {
		if cached, err := c.repo.GetCachedCreatureByName(name); err == nil {
			return cached, nil
		}
	}
	return c.fetch(ctx, name)
}

// fetch goes upstream, deduplicating concurrent requests for the same
// creature through the shared singleflight group.
func (c *Client) fetch(ctx context.Context, idOrName string) (*game.Creature, error) {
	v, err, _ := dedupe.CreatureGroup.Do("creature:"+idOrName, func() (interface{}, error) {
		return c.fetchUpstream(ctx, idOrName)
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Creature), nil
}

func (c *Client) fetchUpstream(ctx context.Context, idOrName string) (*game.Creature, error) {
	url := c.baseURL + constants.PokeAPIListPath + "/" + idOrName
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pokedex: upstream returned %d for %q: %s", resp.StatusCode, idOrName, strings.TrimSpace(string(body)))
	}

	var raw apiCreature
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	creature := convert(raw)

	if c.repo != nil {
		// Cache failures are not fatal, the caller still gets the data.
		if err := c.repo.SaveCreature(creature); err != nil {
			logging.Error("failed to cache creature", err, logging.Fields{constants.LogFieldPokeID: creature.ID})
		}
	}
	return creature, nil
}

func convert(raw apiCreature) *game.Creature {
	c := &game.Creature{
		ID:   raw.ID,
		Name: raw.Name,
		Sprites: game.Sprites{
			FrontDefault: raw.Sprites.FrontDefault,
			Artwork:      raw.Sprites.Other.OfficialArtwork.FrontDefault,
		},
	}
	for _, t := range raw.Types {
		c.Types = append(c.Types, t.Type.Name)
	}
	for _, s := range raw.Stats {
		switch game.StatKey(s.Stat.Name) {
		case game.StatHP:
			c.Stats.HP = s.BaseStat
		case game.StatAttack:
			c.Stats.Attack = s.BaseStat
		case game.StatDefense:
			c.Stats.Defense = s.BaseStat
		case game.StatSpecialAttack:
			c.Stats.SpecialAttack = s.BaseStat
		case game.StatSpecialDefense:
			c.Stats.SpecialDefense = s.BaseStat
		case game.StatSpeed:
			c.Stats.Speed = s.BaseStat
		}
	}
	for _, m := range raw.Moves {
		if len(c.Moves) >= maxRawMoves {
			break
		}
		c.Moves = append(c.Moves, m.Move.Name)
	}
	return c
}
