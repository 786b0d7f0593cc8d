// Package service owns the process-wide index handle and resolver.
//
// The index is opened once, eagerly, on first use and shared by every
// request for the life of the process. Serverless runtimes reuse a warm
// process across invocations, so reopening per request would waste the
// connection. Close tears the handle down on shutdown.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jpl-au/suggest/internal/config"
	"github.com/jpl-au/suggest/internal/log"
	"github.com/jpl-au/suggest/internal/store"
	"github.com/jpl-au/suggest/internal/suggest"
)

// Service bundles the open index and the resolver built over it.
type Service struct {
	Index    store.Index
	Resolver *suggest.Resolver
}

var (
	mu     sync.Mutex
	shared *Service
)

// New opens the index described by cfg and builds a resolver. The caller
// owns the result and must Close it.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	strategy, err := suggest.ParseStrategy(cfg.Strategy())
	if err != nil {
		return nil, err
	}

	idx, err := store.Open(ctx, cfg.IndexPath(), cfg.Tables())
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", cfg.IndexPath(), err)
	}
	log.SetIndex(cfg.IndexPath())

	r := suggest.New(idx, suggest.Options{
		Strategy:         strategy,
		Limit:            cfg.Limit(),
		PopularThreshold: cfg.PopularThreshold(),
		Floor:            cfg.Floor(),
	})
	return &Service{Index: idx, Resolver: r}, nil
}

// Close releases the index handle.
func (s *Service) Close() error {
	return s.Index.Close()
}

// Get returns the process-wide Service, opening it from cfg on first call.
// Later calls return the same Service regardless of cfg. A failed open is
// not cached, so a later call may retry.
func Get(ctx context.Context, cfg *config.Config) (*Service, error) {
	mu.Lock()
	defer mu.Unlock()

	if shared != nil {
		return shared, nil
	}
	s, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	shared = s
	return s, nil
}

// Close tears down the process-wide Service, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if shared == nil {
		return nil
	}
	err := shared.Close()
	shared = nil
	return err
}
