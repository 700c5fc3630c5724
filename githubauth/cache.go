/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package githubauth

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize bounds the number of cached clients.
const defaultCacheSize = 64

// ClientCache is a bounded cache of authenticated clients keyed by
// credential scope.
type ClientCache struct {
	cache *lru.Cache[string, *github.Client]
}

// NewClientCache constructs a cache. A non-positive size uses the default.
func NewClientCache(size int) (*ClientCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *github.Client](size)
	if err != nil {
		return nil, fmt.Errorf("creating client cache: %w", err)
	}
	return &ClientCache{cache: cache}, nil
}

// Get returns the cached client for the credential scope, building and
// caching one on a miss.
func (cc *ClientCache) Get(ctx context.Context, cfg Config) (*github.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key := cfg.cacheKey()
	if client, ok := cc.cache.Get(key); ok {
		return client, nil
	}

	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cc.cache.Add(key, client)
	return client, nil
}
