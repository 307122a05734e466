package pokedex

import (
	"context"
	"fmt"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/ivan12/Pokedex/internal/rng"
)

// CreaturePool draws random creatures for card hands and quick-play.
type CreaturePool interface {
	Random(ctx context.Context, region string) (*game.Creature, error)
}

const randomDrawAttempts = 3

// Pool draws from the PokeAPI-backed client within a region's Pokédex
// span.
type Pool struct {
	client *Client
	src    rng.Source
}

func NewPool(client *Client, src rng.Source) *Pool {
	if src == nil {
		src = rng.New()
	}
	return &Pool{client: client, src: src}
}

// Random picks a random Pokédex number inside the region span and fetches
// it, retrying a couple of times since a few numbers in the upstream have
// gaps.
func (p *Pool) Random(ctx context.Context, region string) (*game.Creature, error) {
	span := game.RegionOrAll(region)
	var lastErr error
	for i := 0; i < randomDrawAttempts; i++ {
		id := span.Start + p.src.Intn(span.End-span.Start+1)
		c, err := p.client.ByID(ctx, id)
		if err == nil {
			return c, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("pokedex: random draw in %q failed: %w", region, lastErr)
}
