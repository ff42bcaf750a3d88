package persist

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultWriteTimeout = 5 * time.Second

// Persister writes full-state blobs for one key on a single background
// worker. Schedule never blocks. Writes land in schedule order; blobs
// scheduled while the worker is busy are coalesced so only the newest is
// written, and every coalesced Pending resolves with that write's result.
type Persister struct {
	storage Storage
	key     string
	log     zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	next    []byte
	waiters []*Pending
	last    *Pending
	closed  bool

	wake      chan struct{}
	stop      chan struct{}
	closeOnce sync.Once
	g         errgroup.Group
}

// NewPersister starts the background writer for key.
func NewPersister(storage Storage, key string, log zerolog.Logger) *Persister {
	p := &Persister{
		storage: storage,
		key:     key,
		log:     log.With().Str("component", "persister").Str("key", key).Logger(),
		timeout: defaultWriteTimeout,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	p.g.Go(p.run)
	return p
}

// Schedule queues blob for writing and returns its completion handle.
func (p *Persister) Schedule(blob []byte) *Pending {
	pend := newPending()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		pend.resolve(ErrClosed)
		return pend
	}
	p.next = blob
	p.waiters = append(p.waiters, pend)
	p.last = pend
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return pend
}

// Flush waits until every write scheduled so far has completed.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()
	if last == nil {
		return nil
	}
	return last.Wait(ctx)
}

// Close writes anything still queued and stops the worker. Later Schedule
// calls resolve with ErrClosed.
func (p *Persister) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.stop)
	})
	return p.g.Wait()
}

func (p *Persister) run() error {
	for {
		select {
		case <-p.wake:
			p.writeNext()
		case <-p.stop:
			p.writeNext()
			return nil
		}
	}
}

func (p *Persister) writeNext() {
	p.mu.Lock()
	blob, waiters := p.next, p.waiters
	p.next, p.waiters = nil, nil
	p.mu.Unlock()
	if len(waiters) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	err := p.storage.Save(ctx, p.key, blob)
	cancel()
	if err != nil {
		p.log.Warn().Err(err).Int("coalesced", len(waiters)).Msg("persist state failed")
	} else {
		p.log.Debug().Int("bytes", len(blob)).Int("coalesced", len(waiters)).Msg("state persisted")
	}
	for _, w := range waiters {
		w.resolve(err)
	}
}
