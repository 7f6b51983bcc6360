package boardsync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/hay-kot/painel/internal/core/board"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 11, 19, 14, 32, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, running due callbacks in deadline order on
// the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fired = true
		c.mu.Unlock()

		next.f()
	}
}

type fakeStore struct {
	mu       sync.Mutex
	doc      *board.Document
	endpoint string
	saves    int
	failSave error
	// afterLoad runs once a load has read its value, before it returns.
	afterLoad func()
}

func (s *fakeStore) LoadDocument(context.Context) (board.Document, bool) {
	s.mu.Lock()
	var (
		doc board.Document
		ok  bool
	)
	if s.doc != nil {
		doc, ok = s.doc.Clone(), true
	}
	hook := s.afterLoad
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return doc, ok
}

func (s *fakeStore) SaveDocument(_ context.Context, doc board.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	d := doc.Clone()
	s.doc = &d
	s.saves++
	return nil
}

func (s *fakeStore) SaveEndpoint(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoint = url
	return nil
}

func (s *fakeStore) stored() (board.Document, bool) {
	return s.LoadDocument(context.Background())
}

type pushed struct {
	endpoint string
	doc      board.Document
}

type fakeRemote struct {
	mu        sync.Mutex
	body      []byte
	fetchErr  error
	pushErr   error
	fetches   int
	pushes    []pushed
	onFetch   func()
	onPush    func(n int)
	pushCalls int
}

var errOffline = errors.New("offline")

func (r *fakeRemote) Fetch(context.Context, string) ([]byte, error) {
	r.mu.Lock()
	r.fetches++
	body, err, hook := r.body, r.fetchErr, r.onFetch
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return body, err
}

func (r *fakeRemote) Push(_ context.Context, endpoint string, body []byte) error {
	r.mu.Lock()
	r.pushCalls++
	n := r.pushCalls
	err, hook := r.pushErr, r.onPush
	r.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err != nil {
		return err
	}

	doc, decodeErr := board.Decode(body)
	if decodeErr != nil {
		return decodeErr
	}

	r.mu.Lock()
	r.pushes = append(r.pushes, pushed{endpoint: endpoint, doc: doc})
	r.mu.Unlock()
	return nil
}

func (r *fakeRemote) serve(doc any) {
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.body = data
	r.mu.Unlock()
}

func (r *fakeRemote) pushed() []pushed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pushed(nil), r.pushes...)
}

func (r *fakeRemote) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}
