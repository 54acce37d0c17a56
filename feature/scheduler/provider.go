package scheduler

import (
	"context"
	"sync"

	"dropbox-comments/feature/orchestrator"

	"golang.org/x/sync/singleflight"
)

// Runner performs one reconciliation cycle.
type Runner interface {
	RunOnce(ctx context.Context) (orchestrator.Outcome, error)
}

// Factory builds a Runner with freshly loaded credentials.
type Factory func(ctx context.Context) (Runner, error)

// ClientProvider caches the Runner built by a Factory. Concurrent callers
// share a single build.
type ClientProvider struct {
	factory Factory
	group   singleflight.Group

	mu     sync.Mutex
	runner Runner
	gen    uint64
}

// NewClientProvider creates a provider over factory.
func NewClientProvider(factory Factory) *ClientProvider {
	return &ClientProvider{factory: factory}
}

// Get returns the cached Runner, building it on first use.
func (p *ClientProvider) Get(ctx context.Context) (Runner, error) {
	p.mu.Lock()
	if p.runner != nil {
		r := p.runner
		p.mu.Unlock()
		return r, nil
	}
	gen := p.gen
	p.mu.Unlock()

	v, err, _ := p.group.Do("runner", func() (any, error) {
		r, err := p.factory(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		// A build started before Invalidate must not repopulate the cache.
		if p.gen == gen {
			p.runner = r
		}
		p.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Runner), nil
}

// Invalidate drops the cached Runner; the next Get rebuilds it.
func (p *ClientProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runner = nil
	p.gen++
}
