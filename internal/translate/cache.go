package translate

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedTranslator memoizes successful translations. Curated answers are
// translated into the same handful of languages over and over.
type CachedTranslator struct {
	inner Translator
	cache *lru.Cache[cacheKey, string]
}

type cacheKey struct {
	text, dest, src string
}

func NewCachedTranslator(inner Translator, size int) (*CachedTranslator, error) {
	c, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("translation cache: %w", err)
	}
	return &CachedTranslator{inner: inner, cache: c}, nil
}

func (c *CachedTranslator) Translate(ctx context.Context, text, dest, src string) (string, error) {
	key := cacheKey{text: text, dest: dest, src: src}
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	out, err := c.inner.Translate(ctx, text, dest, src)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}
