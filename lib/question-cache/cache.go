package questioncache

import (
	"sync"
	"time"
)

const DefaultTTL = 2 * time.Hour

type entry struct {
	questions []string
	expiresAt time.Time
}

// Cache списки вопросов по интервью и по сессии интервью с ограниченным временем жизни.
// Кэш только ускоряет чтение, источник истины - хранилище интервью.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	interviews map[string]entry
	sessions   map[string]entry
}

type Option func(c *Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:        DefaultTTL,
		now:        time.Now,
		interviews: map[string]entry{},
		sessions:   map[string]entry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) GetInterviewQuestions(interviewID string) ([]string, bool) {
	return c.get(c.interviews, interviewID)
}

func (c *Cache) SetInterviewQuestions(interviewID string, questions []string) {
	c.set(c.interviews, interviewID, questions)
}

func (c *Cache) GetSessionQuestions(sessionID string) ([]string, bool) {
	return c.get(c.sessions, sessionID)
}

func (c *Cache) SetSessionQuestions(sessionID string, questions []string) {
	c.set(c.sessions, sessionID, questions)
}

func (c *Cache) ClearSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

// Purge удаляет все просроченные записи, возвращает количество удаленных
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for _, m := range []map[string]entry{c.interviews, c.sessions} {
		for key, e := range m {
			if !now.Before(e.expiresAt) {
				delete(m, key)
				removed++
			}
		}
	}
	return removed
}

// Len количество записей (интервью, сессии), включая еще не удаленные просроченные
func (c *Cache) Len() (interviews, sessions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.interviews), len(c.sessions)
}

func (c *Cache) get(m map[string]entry, key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := m[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(m, key)
		return nil, false
	}
	return append([]string(nil), e.questions...), true
}

func (c *Cache) set(m map[string]entry, key string, questions []string) {
	if len(questions) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m[key] = entry{
		questions: append([]string(nil), questions...),
		expiresAt: c.now().Add(c.ttl),
	}
}
