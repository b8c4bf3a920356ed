package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`code runs and error is returned`, func(t *testing.T) {
		success, err := WithDelay(context.Background(), "k1", time.Second, func() error {
			return errors.New("boom")
		})
		require.True(t, success)
		require.EqualError(t, err, "boom")

		// блокировка освобождена
		success, err = WithDelay(context.Background(), "k1", time.Millisecond, func() error { return nil })
		require.True(t, success)
		require.NoError(t, err)
	})

	t.Run(`busy key times out`, func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go WithDelay(context.Background(), "k2", time.Second, func() error {
			close(started)
			<-release
			return nil
		})
		<-started
		success, err := WithDelay(context.Background(), "k2", 50*time.Millisecond, func() error {
			t.Fatal("must not run")
			return nil
		})
		close(release)
		require.False(t, success)
		require.NoError(t, err)
	})

	t.Run(`cancelled context gives up`, func(t *testing.T) {
		lockMap.Store("k3", struct{}{})
		defer lockMap.Delete("k3")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		success, _ := WithDelay(ctx, "k3", time.Second, func() error { return nil })
		require.False(t, success)
	})

	t.Run(`same key is serialized`, func(t *testing.T) {
		var inside, maxInside atomic.Int32
		wg := sync.WaitGroup{}
		for n := 0; n < 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				success, _ := WithDelay(context.Background(), SessionKey("interview", "s1"), 5*time.Second, func() error {
					cur := inside.Add(1)
					if cur > maxInside.Load() {
						maxInside.Store(cur)
					}
					time.Sleep(time.Millisecond)
					inside.Add(-1)
					return nil
				})
				require.True(t, success)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), maxInside.Load())
	})
}
