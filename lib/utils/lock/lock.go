package lock

import (
	"context"
	"sync"
	"time"
)

const retryDelay = 20 * time.Millisecond

var (
	lockMap sync.Map
)

// WithDelay выполняет safeCode под блокировкой key.
// Если блокировку не удалось получить за wait или контекст завершился, возвращает success=false.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isTimeout := time.After(wait)
	for {
		if _, loaded := lockMap.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		select {
		case <-isTimeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(retryDelay):
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}

// SessionKey ключ блокировки сессии
func SessionKey(kind, sessionID string) string {
	return kind + ":" + sessionID
}
