// Package statestore persists the player state under a fixed key.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"cookoutcreek.ai/internal/persistence/kvstore"
	"cookoutcreek.ai/internal/sim/player"
)

// Key is where the full state is stored.
const Key = "game-state"

const writeTimeout = 5 * time.Second

// Persister writes states on its own goroutine. Only the newest pending
// state is kept, so a slow store never stalls the caller.
type Persister struct {
	store  kvstore.Store
	logger *log.Logger

	mu     sync.Mutex
	ch     chan player.State
	closed bool
	wg     sync.WaitGroup

	saved  atomic.Uint64
	failed atomic.Uint64
}

func NewPersister(store kvstore.Store, logger *log.Logger) *Persister {
	p := &Persister{
		store:  store,
		logger: logger,
		ch:     make(chan player.State, 1),
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.loop()
	}()
	return p
}

// Save queues s, replacing any state not yet written.
func (p *Persister) Save(s player.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.ch <- s:
		return
	default:
	}
	select {
	case <-p.ch:
	default:
	}
	select {
	case p.ch <- s:
	default:
	}
}

// Close writes the last queued state and stops the writer. It does not
// close the underlying store.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.ch)
	p.mu.Unlock()
	p.wg.Wait()
	if n := p.failed.Load(); n > 0 {
		return fmt.Errorf("statestore: %d writes failed", n)
	}
	return nil
}

func (p *Persister) Saved() uint64  { return p.saved.Load() }
func (p *Persister) Failed() uint64 { return p.failed.Load() }

func (p *Persister) loop() {
	for s := range p.ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := Put(ctx, p.store, s)
		cancel()
		if err != nil {
			p.failed.Add(1)
			if p.logger != nil {
				p.logger.Printf("persist state: %v", err)
			}
			continue
		}
		p.saved.Add(1)
	}
}

func Put(ctx context.Context, store kvstore.Store, s player.State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return store.Put(ctx, Key, b)
}

// Load returns the stored state, or player.New() and false when none is
// stored yet.
func Load(ctx context.Context, store kvstore.Store, r player.Rules) (player.State, bool, error) {
	b, ok, err := store.Get(ctx, Key)
	if err != nil {
		return player.New(), false, err
	}
	if !ok {
		return player.New(), false, nil
	}
	s := player.New()
	if err := json.Unmarshal(b, &s); err != nil {
		return player.New(), false, fmt.Errorf("decode %s: %w", Key, err)
	}
	return player.Normalize(s, r), true, nil
}

// Clear removes the stored state; the next Load starts fresh.
func Clear(ctx context.Context, store kvstore.Store) error {
	return store.Delete(ctx, Key)
}
