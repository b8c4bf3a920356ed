package purgeworker

import (
	"context"
	"time"

	questioncache "interview-prep-backend/lib/question-cache"
	baseworker "interview-prep-backend/lib/utils/base-worker"
	"interview-prep-backend/lib/utils/metrics"
)

// StartWorker периодически удаляет просроченные списки вопросов из кэша
func StartWorker(ctx context.Context, cache *questioncache.Cache, interval time.Duration) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("QuestionCachePurgeWorker", interval, interval),
		cache:    cache,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	cache *questioncache.Cache
}

func (i impl) handle(ctx context.Context) {
	removed := i.cache.Purge()
	interviews, sessions := i.cache.Len()
	metrics.CacheEntries.WithLabelValues("interview").Set(float64(interviews))
	metrics.CacheEntries.WithLabelValues("session").Set(float64(sessions))
	if removed > 0 {
		i.GetLogger().
			WithField("removed", removed).
			Debug("Удалены просроченные списки вопросов")
	}
}
