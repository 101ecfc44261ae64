package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccountLocker_SerializesSameAccount(t *testing.T) {
	t.Parallel()
	locker := NewMemoryAccountLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, 1, 10, 20)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locker.size())
}

func TestMemoryAccountLocker_OppositeOrderDoesNotDeadlock(t *testing.T) {
	t.Parallel()
	locker := NewMemoryAccountLocker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if unlock, err := locker.Lock(ctx, 1, 1, 2); assert.NoError(t, err) {
				unlock()
			}
		}()
		go func() {
			defer wg.Done()
			if unlock, err := locker.Lock(ctx, 1, 2, 1); assert.NoError(t, err) {
				unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, locker.size())
}

func TestMemoryAccountLocker_ContextCancelled(t *testing.T) {
	t.Parallel()
	locker := NewMemoryAccountLocker()

	unlock, err := locker.Lock(context.Background(), 1, 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// The first key is free, the second is held: the partial acquisition must be undone
	_, err = locker.Lock(ctx, 1, 4, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, locker.size())

	again, err := locker.Lock(context.Background(), 1, 4, 5)
	require.NoError(t, err)
	again()
}

func TestMemoryAccountLocker_GuildsAndDuplicates(t *testing.T) {
	t.Parallel()
	locker := NewMemoryAccountLocker()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlock, err := locker.Lock(ctx, 1, 7, 7)
	require.NoError(t, err)

	other, err := locker.Lock(ctx, 2, 7)
	require.NoError(t, err, "same user in another guild is a different account")
	other()

	unlock()
	unlock()
	assert.Equal(t, 0, locker.size())
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{name: "empty", in: nil, want: nil},
		{name: "sorted", in: []int64{1, 2}, want: []int64{1, 2}},
		{name: "reversed with duplicate", in: []int64{9, 3, 9}, want: []int64{3, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sortedUnique(tt.in))
		})
	}
}
