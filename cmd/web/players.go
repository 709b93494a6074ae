package main

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/engine"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// player is one browser session's game. The mutex serializes engine calls from concurrent requests.
type player struct {
	mu     sync.Mutex
	engine *engine.Engine
	// err is set when creating the engine failed. Guarded by mu.
	err error
	// lastSeen is a unix nano timestamp so that eviction never waits for a busy engine.
	lastSeen atomic.Int64
}

func (pl *player) touch() {
	pl.lastSeen.Store(time.Now().UnixNano())
}

// players keeps a live engine per player id, created on first use.
type players struct {
	mu        sync.Mutex
	byID      map[string]*player
	newEngine func(ctx context.Context, playerID string) (*engine.Engine, error)
	logger    *slog.Logger
}

func newPlayers(
	logger *slog.Logger, newEngine func(ctx context.Context, playerID string) (*engine.Engine, error),
) *players {
	return &players{ //nolint:exhaustruct // zero mutex
		byID:      map[string]*player{},
		newEngine: newEngine,
		logger:    logger,
	}
}

// do runs f with the player's engine locked, starting a new game at the main menu for unseen players.
func (p *players) do(ctx context.Context, playerID string, f func(e *engine.Engine) error) error {
	for {
		pl, err := p.get(ctx, playerID)
		if err != nil {
			return err
		}
		pl.mu.Lock()
		if pl.err != nil {
			err = pl.err
			pl.mu.Unlock()
			return err
		}
		if !p.current(playerID, pl) {
			// Evicted while waiting for the lock.
			pl.mu.Unlock()
			continue
		}
		pl.touch()
		err = f(pl.engine)
		pl.mu.Unlock()
		return err
	}
}

// current reports whether pl is still the registered player for playerID.
func (p *players) current(playerID string, pl *player) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byID[playerID] == pl
}

// get returns the registered player or registers a new one. The engine of a new player is created outside the
// registry lock so that other players are not held up by its database reads.
func (p *players) get(ctx context.Context, playerID string) (*player, error) {
	p.mu.Lock()
	if pl, ok := p.byID[playerID]; ok {
		pl.touch()
		p.mu.Unlock()
		return pl, nil
	}
	pl := &player{} //nolint:exhaustruct // engine is set below
	pl.touch()
	// Concurrent requests for the same player wait on this lock until the engine exists.
	pl.mu.Lock()
	p.byID[playerID] = pl
	count := len(p.byID)
	p.mu.Unlock()
	defer pl.mu.Unlock()

	pl.engine, pl.err = p.start(ctx, playerID)
	if pl.err != nil {
		p.mu.Lock()
		if p.byID[playerID] == pl {
			delete(p.byID, playerID)
		}
		p.mu.Unlock()
		return nil, pl.err
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "new player", slog.Int("players", count))
	return pl, nil
}

func (p *players) start(ctx context.Context, playerID string) (*engine.Engine, error) {
	e, err := p.newEngine(ctx, playerID)
	if err != nil {
		return nil, errors.Wrap(err, "new engine", slog.String("player_id", playerID))
	}
	if err = e.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "start engine", slog.String("player_id", playerID))
	}
	return e, nil
}

// evictIdle forgets players idle for longer than maxIdle. Their save slot and settings stay persisted.
func (p *players) evictIdle(ctx context.Context, maxIdle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	evicted := 0
	for id, pl := range p.byID {
		if time.Since(time.Unix(0, pl.lastSeen.Load())) > maxIdle {
			delete(p.byID, id)
			evicted++
		}
	}
	if evicted > 0 {
		p.logger.LogAttrs(ctx, slog.LevelInfo, "evicted idle players",
			slog.Int("evicted", evicted), slog.Int("players", len(p.byID)))
	}
	return evicted
}

// startEvictor runs evictIdle every interval until ctx is done.
func (p *players) startEvictor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.evictIdle(ctx, maxIdle)
		}
	}
}
