package speechcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	cacheKeyPattern string = "speech:%v:%v"
	// длинные ответы модели уникальны, кэшируются только короткие повторяющиеся фразы
	maxCachedTextLen = 400
)

// Speech синтезированная речь
type Speech struct {
	Audio       []byte
	ContentType string
}

type Cache struct {
	voice string
	cache *cache.Cache
}

func New(voice string, ttl time.Duration) *Cache {
	return &Cache{
		voice: voice,
		cache: cache.New(ttl, ttl),
	}
}

func (c *Cache) Get(text string) (Speech, bool) {
	value, ok := c.cache.Get(c.key(text))
	if !ok {
		return Speech{}, false
	}
	return value.(Speech), true
}

func (c *Cache) Set(text string, speech Speech) {
	if len(text) > maxCachedTextLen || len(speech.Audio) == 0 {
		return
	}
	c.cache.SetDefault(c.key(text), speech)
}

func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *Cache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf(cacheKeyPattern, c.voice, hex.EncodeToString(sum[:]))
}
