// Package boardsync keeps the local dashboard document and the shared remote
// copy converging. Local edits are committed synchronously and pushed after a
// quiet period; a poll loop adopts remote changes made by other viewers.
package boardsync

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/painel/internal/core/board"
)

// Store is the local persistence the engine writes through.
type Store interface {
	LoadDocument(ctx context.Context) (board.Document, bool)
	SaveDocument(ctx context.Context, doc board.Document) error
	SaveEndpoint(ctx context.Context, url string) error
}

// Remote reads and replaces the shared document.
type Remote interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
	Push(ctx context.Context, endpoint string, body []byte) error
}

// Options are the engine timings. Zero values take the defaults below.
type Options struct {
	PollInterval   time.Duration
	QuietPeriod    time.Duration
	SavedDisplay   time.Duration
	EchoGuard      time.Duration
	EndpointFlash  time.Duration
	RequestTimeout time.Duration

	Clock  Clock
	Logger zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.QuietPeriod <= 0 {
		o.QuietPeriod = time.Second
	}
	if o.SavedDisplay <= 0 {
		o.SavedDisplay = 2 * time.Second
	}
	if o.EchoGuard <= 0 {
		o.EchoGuard = 2 * time.Second
	}
	if o.EndpointFlash <= 0 {
		o.EndpointFlash = time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	return o
}

const subscriberBuffer = 16

// push is one debounced write. It is outstanding from scheduling until it
// completes or is cancelled, and done is closed at that point.
type push struct {
	doc      board.Document
	endpoint string
	timer    Timer
	done     chan struct{}
}

// Engine owns the in-memory document. All state is guarded by mu; network
// calls are made without holding it.
type Engine struct {
	store  Store
	remote Remote
	opts   Options
	clock  Clock
	log    zerolog.Logger

	// pushMu serializes remote writes so they arrive in commit order.
	pushMu sync.Mutex

	mu           sync.Mutex
	doc          board.Document
	endpoint     string
	status       Status
	statusSeq    uint64
	localSeq     uint64
	lastAccepted time.Time
	pending      *push
	outstanding  map[*push]struct{}
	subs         map[chan Snapshot]struct{}
	closed       bool
	done         chan struct{}
}

// New returns an engine holding doc and syncing with endpoint. An empty
// endpoint disables remote sync until SetEndpoint is called.
func New(store Store, remote Remote, doc board.Document, endpoint string, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		store:       store,
		remote:      remote,
		opts:        opts,
		clock:       opts.Clock,
		log:         opts.Logger,
		doc:         board.Normalize(doc),
		endpoint:    strings.TrimSpace(endpoint),
		status:      StatusIdle,
		outstanding: make(map[*push]struct{}),
		subs:        make(map[chan Snapshot]struct{}),
		done:        make(chan struct{}),
	}
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Document returns a copy of the current document.
func (e *Engine) Document() board.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Commit stamps doc with the local time, makes it the current document and
// persists it before returning. With an endpoint configured it then replaces
// any unfired push with a new one due after the quiet period. A persistence
// failure is returned after the in-memory state has been replaced; no push
// is scheduled in that case.
func (e *Engine) Commit(doc board.Document) (board.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitLocked(doc)
}

// Update applies fn to the current document and commits the result as one
// step, so concurrent edits never overwrite each other. When fn fails
// nothing is committed.
func (e *Engine) Update(fn func(board.Document) (board.Document, error)) (board.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.doc.Clone())
	if err != nil {
		return e.doc.Clone(), err
	}
	return e.commitLocked(next)
}

func (e *Engine) commitLocked(doc board.Document) (board.Document, error) {
	stamped := doc.Clone()
	stamped.LastUpdated = board.TimeLabel(e.clock.Now())

	e.doc = stamped
	e.localSeq++

	if err := e.store.SaveDocument(context.Background(), stamped); err != nil {
		e.log.Error().Err(err).Msg("failed to persist document")
		e.notifyLocked()
		return stamped.Clone(), fmt.Errorf("persist document: %w", err)
	}

	if e.endpoint != "" && !e.closed {
		e.schedulePushLocked(stamped)
	}

	e.notifyLocked()
	return stamped.Clone(), nil
}

func (e *Engine) schedulePushLocked(doc board.Document) {
	if p := e.pending; p != nil {
		if p.timer.Stop() {
			e.finishLocked(p)
		}
		e.pending = nil
	}

	p := &push{doc: doc, endpoint: e.endpoint, done: make(chan struct{})}
	e.outstanding[p] = struct{}{}
	e.pending = p
	e.setStatusLocked(StatusSyncing)

	p.timer = e.clock.AfterFunc(e.opts.QuietPeriod, func() { e.fire(p) })
}

// fire runs when the quiet period of p elapses.
func (e *Engine) fire(p *push) {
	e.mu.Lock()
	if e.pending == p {
		e.pending = nil
	}
	e.mu.Unlock()

	e.runPush(p)
}

func (e *Engine) runPush(p *push) {
	body, err := board.Encode(p.doc)
	if err == nil {
		e.pushMu.Lock()
		ctx, cancel := context.WithTimeout(context.Background(), e.opts.RequestTimeout)
		err = e.remote.Push(ctx, p.endpoint, body)
		cancel()
		e.pushMu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.log.Warn().Err(err).Str("endpoint", p.endpoint).Msg("remote push failed")
		e.setStatusLocked(StatusError)
	} else {
		e.lastAccepted = e.clock.Now()
		e.setStatusLocked(StatusSaved)
		e.revertStatusLocked(e.opts.SavedDisplay)
		e.log.Debug().Str("lastUpdated", p.doc.LastUpdated).Msg("remote push accepted")
	}

	e.finishLocked(p)
	e.notifyLocked()
}

func (e *Engine) finishLocked(p *push) {
	if _, ok := e.outstanding[p]; !ok {
		return
	}
	delete(e.outstanding, p)
	close(p.done)
}

func (e *Engine) setStatusLocked(s Status) {
	e.status = s
	e.statusSeq++
}

// revertStatusLocked returns the status to idle after d unless another
// status change happens first.
func (e *Engine) revertStatusLocked(d time.Duration) {
	seq := e.statusSeq
	e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.statusSeq != seq {
			return
		}
		e.setStatusLocked(StatusIdle)
		e.notifyLocked()
	})
}

// Poll fetches the remote document once and adopts it when it differs from
// local state and no local write was accepted within the echo guard. Fetch
// and decode failures leave the status untouched; the error is returned for
// callers that report it. Adoption persists locally and never pushes.
func (e *Engine) Poll(ctx context.Context) (PollResult, error) {
	e.mu.Lock()
	if e.closed || e.endpoint == "" || e.status == StatusSyncing {
		e.mu.Unlock()
		return PollSkipped, nil
	}
	endpoint := e.endpoint
	seq := e.localSeq
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.opts.RequestTimeout)
	defer cancel()

	body, err := e.remote.Fetch(ctx, endpoint)
	if err != nil {
		e.log.Debug().Err(err).Msg("poll fetch failed")
		return PollFailed, err
	}

	raw, err := board.DecodeRaw(body)
	if err != nil {
		e.log.Debug().Err(err).Msg("poll payload is not JSON")
		return PollFailed, fmt.Errorf("decode remote document: %w", err)
	}

	if !board.HasUpdateMarker(raw) {
		return PollNoMarker, nil
	}
	candidate := board.Normalize(raw)

	e.mu.Lock()
	defer e.mu.Unlock()

	// A commit during the fetch makes the payload stale relative to local state.
	if e.closed || e.status == StatusSyncing || e.localSeq != seq || e.endpoint != endpoint {
		return PollDiscarded, nil
	}

	result := PollUnchanged
	if !board.Equal(candidate, e.doc) {
		if e.withinEchoGuardLocked() {
			result = PollEchoGuarded
		} else {
			e.doc = candidate
			e.localSeq++
			if err := e.store.SaveDocument(ctx, candidate); err != nil {
				e.log.Error().Err(err).Msg("failed to persist adopted document")
			}
			e.log.Info().Str("lastUpdated", candidate.LastUpdated).Msg("adopted remote document")
			result = PollAdopted
		}
	}

	if e.status == StatusError {
		e.setStatusLocked(StatusIdle)
	}

	e.notifyLocked()
	return result, nil
}

func (e *Engine) withinEchoGuardLocked() bool {
	if e.lastAccepted.IsZero() {
		return false
	}
	return e.clock.Now().Sub(e.lastAccepted) <= e.opts.EchoGuard
}

// SetEndpoint replaces and persists the remote endpoint, then flashes the
// syncing status briefly. It neither fetches nor pushes; the next poll or
// commit converges. A push already scheduled keeps the endpoint it was
// scheduled with.
func (e *Engine) SetEndpoint(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.endpoint = url
	err := e.store.SaveEndpoint(ctx, url)
	if err != nil {
		e.log.Error().Err(err).Msg("failed to persist endpoint")
	}

	e.setStatusLocked(StatusSyncing)
	e.revertStatusLocked(e.opts.EndpointFlash)
	e.notifyLocked()

	if err != nil {
		return fmt.Errorf("persist endpoint: %w", err)
	}
	return nil
}

// ReloadLocal re-reads the persisted document and adopts it when it differs
// from memory. Another process sharing the data directory may have
// committed. Nothing is pushed; the writing process owns that.
func (e *Engine) ReloadLocal(ctx context.Context) bool {
	e.mu.Lock()
	seq := e.localSeq
	e.mu.Unlock()

	doc, ok := e.store.LoadDocument(ctx)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// A commit during the read already holds a newer document.
	if e.closed || e.localSeq != seq || board.Equal(doc, e.doc) {
		return false
	}
	e.doc = doc
	e.localSeq++
	e.notifyLocked()
	return true
}

// Run polls every poll interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, _ := e.Poll(ctx)
			e.log.Debug().Str("result", string(result)).Msg("poll")
		}
	}
}

// Flush fires a pending push immediately and waits until every outstanding
// push has completed or ctx ends.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	if p := e.pending; p != nil && p.timer.Stop() {
		e.pending = nil
		go e.runPush(p)
	}
	waits := make([]chan struct{}, 0, len(e.outstanding))
	for p := range e.outstanding {
		waits = append(waits, p.done)
	}
	e.mu.Unlock()

	for _, done := range waits {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe returns a channel receiving a Snapshot after every state change,
// starting with the current one. Slow readers miss intermediate snapshots,
// never the latest. The channel is closed when ctx ends or the engine closes.
func (e *Engine) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	e.mu.Lock()
	if e.closed {
		close(ch)
		e.mu.Unlock()
		return ch
	}
	e.subs[ch] = struct{}{}
	ch <- e.snapshotLocked()
	e.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-e.done:
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
	}()

	return ch
}

// Close cancels the pending push and closes all subscriptions. In-flight
// pushes still complete; call Flush first to deliver a pending one.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	close(e.done)

	if p := e.pending; p != nil {
		if p.timer.Stop() {
			e.finishLocked(p)
		}
		e.pending = nil
	}

	for ch := range e.subs {
		close(ch)
	}
	e.subs = map[chan Snapshot]struct{}{}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Document: e.doc.Clone(),
		Status:   e.status,
		Endpoint: e.endpoint,
		LastPush: e.lastAccepted,
	}
}

// notifyLocked delivers the current snapshot without blocking. A full
// subscriber channel loses its oldest snapshot.
func (e *Engine) notifyLocked() {
	if len(e.subs) == 0 {
		return
	}

	snap := e.snapshotLocked()
	for ch := range e.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
