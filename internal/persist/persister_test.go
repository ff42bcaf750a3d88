package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPersisterWritesLatestBlob(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	mem := NewMemory()
	p := NewPersister(mem, FinanceKey, zerolog.Nop())
	t.Cleanup(func() { _ = p.Close() })

	var pendings []*Pending
	for _, s := range []string{"a", "b", "c"} {
		pendings = append(pendings, p.Schedule([]byte(s)))
	}
	for _, pend := range pendings {
		require.NoError(t, pend.Wait(ctx))
	}

	got, err := mem.Load(ctx, FinanceKey)
	require.NoError(t, err)
	require.Equal(t, "c", string(got))
	require.LessOrEqual(t, mem.Writes(FinanceKey), 3)
	require.GreaterOrEqual(t, mem.Writes(FinanceKey), 1)
}

// blockingStorage holds Save until released so tests can observe coalescing.
type blockingStorage struct {
	*Memory
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStorage) Save(ctx context.Context, key string, blob []byte) error {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.Memory.Save(ctx, key, blob)
}

func TestPersisterCoalescesWhileBusy(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	store := &blockingStorage{Memory: NewMemory(), entered: make(chan struct{}), release: make(chan struct{})}
	p := NewPersister(store, FinanceKey, zerolog.Nop())
	t.Cleanup(func() { _ = p.Close() })

	first := p.Schedule([]byte("1"))
	<-store.entered // worker is now blocked inside the first Save

	second := p.Schedule([]byte("2"))
	third := p.Schedule([]byte("3"))
	require.Nil(t, second.Err())

	close(store.release)
	require.NoError(t, first.Wait(ctx))
	require.NoError(t, second.Wait(ctx))
	require.NoError(t, third.Wait(ctx))

	require.Equal(t, 2, store.Writes(FinanceKey), "second and third should share one write")
	got, err := store.Load(ctx, FinanceKey)
	require.NoError(t, err)
	require.Equal(t, "3", string(got))
}

func TestPersisterReportsFailure(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	mem := NewMemory()
	boom := errors.New("disk full")
	mem.FailSaves(boom)
	p := NewPersister(mem, AssistantKey, zerolog.Nop())
	t.Cleanup(func() { _ = p.Close() })

	err := p.Schedule([]byte("x")).Wait(ctx)
	require.ErrorIs(t, err, boom)

	_, err = mem.Load(ctx, AssistantKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPersisterFlushAndClose(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	mem := NewMemory()
	p := NewPersister(mem, FinanceKey, zerolog.Nop())

	require.NoError(t, p.Flush(ctx), "flush with nothing scheduled")
	p.Schedule([]byte("one"))
	p.Schedule([]byte("two"))
	require.NoError(t, p.Flush(ctx))

	got, err := mem.Load(ctx, FinanceKey)
	require.NoError(t, err)
	require.Equal(t, "two", string(got))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "close is idempotent")
	require.ErrorIs(t, p.Schedule([]byte("late")).Wait(ctx), ErrClosed)
}

func TestPersisterCloseDrainsQueued(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	mem := NewMemory()
	p := NewPersister(mem, FinanceKey, zerolog.Nop())
	pend := p.Schedule([]byte("final"))
	require.NoError(t, p.Close())
	require.NoError(t, pend.Wait(ctx))

	got, err := mem.Load(ctx, FinanceKey)
	require.NoError(t, err)
	require.Equal(t, "final", string(got))
}

func TestMemoryCopiesBlobs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	blob := []byte("abc")
	require.NoError(t, m.Save(ctx, "k", blob))
	blob[0] = 'z'
	got, err := m.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvedPending(t *testing.T) {
	p := Resolved(nil)
	select {
	case <-p.Done():
	default:
		t.Fatal("resolved pending should be done")
	}
	require.NoError(t, p.Wait(context.Background()))
}
