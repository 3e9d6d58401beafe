// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cache memoizes gateway decryption results. It sits outside the
// core adapters; integrators that decrypt the same handles repeatedly, such
// as UIs re-rendering contract state, wrap the adapter with it.
package cache

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common/lru"
	"golang.org/x/sync/singleflight"
)

// DecryptedCache caches plaintexts by ciphertext handle with single-flight
// fetch. Handles are content addressed and a handle's plaintext never
// changes, so entries need no expiration, only LRU bounding.
type DecryptedCache struct {
	cache   *lru.Cache[string, *uint256.Int]
	lock    sync.RWMutex
	sfGroup singleflight.Group
}

// NewDecryptedCache creates a cache holding at most size plaintexts.
func NewDecryptedCache(size int) *DecryptedCache {
	return &DecryptedCache{
		cache: lru.NewCache[string, *uint256.Int](size),
	}
}

// Get returns the cached plaintext for a handle, otherwise fetches it with
// fetchFunc. Concurrent fetches for the same handle are deduplicated; a
// fetch error is returned to all waiters and nothing is cached.
func (c *DecryptedCache) Get(
	handle *uint256.Int,
	fetchFunc func(*uint256.Int) (*uint256.Int, error),
) (*uint256.Int, error) {
	key := handle.Hex()

	c.lock.RLock()
	value, found := c.cache.Get(key)
	c.lock.RUnlock()
	if found {
		return value, nil
	}

	v, err, _ := c.sfGroup.Do(key, func() (interface{}, error) {
		plaintext, fetchErr := fetchFunc(handle)
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.lock.Lock()
		c.cache.Add(key, plaintext)
		c.lock.Unlock()

		return plaintext, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*uint256.Int), nil
}

// Contains reports whether the handle's plaintext is cached, without fetching.
func (c *DecryptedCache) Contains(handle *uint256.Int) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.cache.Contains(handle.Hex())
}
