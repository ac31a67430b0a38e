package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseMutualExclusion runs concurrent critical sections and fails if two overlap.
func exerciseMutualExclusion(t *testing.T, locker Locker) {
	t.Helper()
	var (
		wg      sync.WaitGroup
		active  atomic.Int32
		overlap atomic.Bool
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			unlock, err := locker.Lock(ctx, "class:1")
			if err != nil {
				t.Errorf("Lock() error = %v", err)
				return
			}
			if active.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	assert.False(t, overlap.Load(), "critical sections overlapped")
}

func TestLocal_MutualExclusion(t *testing.T) {
	t.Parallel()
	l := NewLocal()
	exerciseMutualExclusion(t, l)
	assert.Equal(t, 0, l.held(), "entries are dropped once released")
}

func TestLocal_IndependentKeys(t *testing.T) {
	t.Parallel()
	l := NewLocal()
	ctx := context.Background()

	unlockA, err := l.Lock(ctx, "class:a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := l.Lock(ctx, "class:b")
	require.NoError(t, err)
	unlockB()
}

func TestLocal_ContextCancelled(t *testing.T) {
	t.Parallel()
	l := NewLocal()

	unlock, err := l.Lock(context.Background(), "class:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "class:1")
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Equal(t, 0, l.held())
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_MutualExclusion(t *testing.T) {
	t.Parallel()
	_, client := newTestRedis(t)
	exerciseMutualExclusion(t, NewRedis(client, time.Second, nil))
}

func TestRedis_ReleaseDeletesKey(t *testing.T) {
	t.Parallel()
	mr, client := newTestRedis(t)
	l := NewRedis(client, time.Minute, nil)

	unlock, err := l.Lock(context.Background(), "class:42")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"class:42"))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"class:42"))

	unlock()
	assert.False(t, mr.Exists(keyPrefix+"class:42"))
}

func TestRedis_StaleHolderDoesNotReleaseNewLock(t *testing.T) {
	t.Parallel()
	mr, client := newTestRedis(t)
	l := NewRedis(client, time.Second, nil)

	staleUnlock, err := l.Lock(context.Background(), "class:7")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock, err := l.Lock(context.Background(), "class:7")
	require.NoError(t, err)
	defer unlock()

	staleUnlock()
	assert.True(t, mr.Exists(keyPrefix+"class:7"), "new holder keeps its lock")
}

func TestRedis_ContextCancelled(t *testing.T) {
	t.Parallel()
	_, client := newTestRedis(t)
	l := NewRedis(client, time.Minute, nil)

	unlock, err := l.Lock(context.Background(), "class:1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "class:1")
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestNewRedisClient(t *testing.T) {
	t.Parallel()
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()

	_, err = NewRedisClient("://nope")
	assert.Error(t, err)
}
