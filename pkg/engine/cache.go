package engine

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache keeps the results of recent queries. A nil *ResultCache is a
// cache that never hits.
type ResultCache struct {
	cache *lru.Cache[string, Result]
}

func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{
		cache: cache,
	}, nil
}

func (rc *ResultCache) Get(query string) (Result, bool) {
	if rc == nil {
		return Result{}, false
	}
	return rc.cache.Get(query)
}

func (rc *ResultCache) Set(query string, result Result) {
	if rc == nil {
		return
	}
	_ = rc.cache.Add(query, result)
}

func (rc *ResultCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.cache.Len()
}
