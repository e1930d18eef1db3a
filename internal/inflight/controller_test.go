// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package inflight

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStartSupersedesPrevious(t *testing.T) {
	t.Parallel()

	c := NewController()
	a := c.Start(context.Background(), "dashboard")
	b := c.Start(context.Background(), "dashboard")

	if a.Current() {
		t.Error("first token should no longer be current")
	}
	if !b.Current() {
		t.Error("second token should be current")
	}
	if !errors.Is(context.Cause(a.Context()), ErrSuperseded) {
		t.Errorf("first token cause = %v, want ErrSuperseded", context.Cause(a.Context()))
	}
	if b.Context().Err() != nil {
		t.Error("second token context should be live")
	}
	if a.ID() == b.ID() {
		t.Error("token ids must differ")
	}
}

func TestViewsAreIndependent(t *testing.T) {
	t.Parallel()

	c := NewController()
	home := c.Start(context.Background(), "home")
	_ = c.Start(context.Background(), "recommendations")

	if !home.Current() {
		t.Error("starting another view must not supersede home")
	}
}

// A starts first and resolves last; B starts second and resolves first.
// The displayed state must end as B's payload.
func TestLateOlderResultIsDiscarded(t *testing.T) {
	t.Parallel()

	c := NewController()
	var mu sync.Mutex
	displayed := ""

	show := func(tok *Token, payload string) error {
		return tok.Apply(func() error {
			mu.Lock()
			defer mu.Unlock()
			displayed = payload
			return nil
		})
	}

	a := c.Start(context.Background(), "dashboard")
	b := c.Start(context.Background(), "dashboard")

	if err := show(b, "Y"); err != nil {
		t.Fatalf("B apply: %v", err)
	}
	b.Settle()

	if err := show(a, "X"); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("A apply = %v, want ErrSuperseded", err)
	}
	a.Settle()

	if displayed != "Y" {
		t.Errorf("displayed = %q, want Y", displayed)
	}
}

func TestApplyPropagatesError(t *testing.T) {
	t.Parallel()

	c := NewController()
	tok := c.Start(context.Background(), "home")
	boom := errors.New("boom")
	if err := tok.Apply(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Apply = %v, want boom", err)
	}
}

func TestSettle(t *testing.T) {
	t.Parallel()

	c := NewController()
	tok := c.Start(context.Background(), "popular")
	if !c.Pending("popular") {
		t.Fatal("expected pending load")
	}

	tok.Settle()
	tok.Settle()

	if c.Pending("popular") {
		t.Error("settled load should not be pending")
	}
	if tok.Context().Err() == nil {
		t.Error("settled token context should be released")
	}
	if err := tok.Apply(func() error { return nil }); !errors.Is(err, ErrSuperseded) {
		t.Errorf("Apply after Settle = %v", err)
	}
}

func TestSettleOfSupersededTokenKeepsNewer(t *testing.T) {
	t.Parallel()

	c := NewController()
	a := c.Start(context.Background(), "search")
	b := c.Start(context.Background(), "search")

	a.Settle()
	if !b.Current() || !c.Pending("search") {
		t.Error("settling a stale token must not clear the newer one")
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	c := NewController()
	tok := c.Start(context.Background(), "details")
	c.Cancel("details")

	if tok.Current() || c.Pending("details") {
		t.Error("cancelled load should be gone")
	}
	if !errors.Is(tok.Context().Err(), context.Canceled) {
		t.Errorf("ctx err = %v", tok.Context().Err())
	}
	c.Cancel("never-started")
}

func TestConcurrentStartsLeaveExactlyOneCurrent(t *testing.T) {
	t.Parallel()

	c := NewController()
	tokens := make([]*Token, 50)
	var wg sync.WaitGroup
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = c.Start(context.Background(), "dashboard")
		}(i)
	}
	wg.Wait()

	current := 0
	for _, tok := range tokens {
		if tok.Current() {
			current++
		} else if tok.Context().Err() == nil {
			t.Error("non-current token should be cancelled")
		}
	}
	if current != 1 {
		t.Errorf("current tokens = %d, want 1", current)
	}
}

func TestApplyDoesNotBlockOtherViews(t *testing.T) {
	t.Parallel()

	c := NewController()
	slow := c.Start(context.Background(), "recommendations")

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- slow.Apply(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	other := c.Start(context.Background(), "dashboard")
	if !c.Pending("dashboard") || !other.Current() {
		t.Error("dashboard load should start while recommendations applies")
	}
	if err := other.Apply(func() error { return nil }); err != nil {
		t.Errorf("dashboard Apply = %v", err)
	}
	other.Settle()

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("recommendations Apply = %v", err)
	}
}

func TestStartWaitsForApplyOnSameView(t *testing.T) {
	t.Parallel()

	c := NewController()
	old := c.Start(context.Background(), "search")

	entered := make(chan struct{})
	release := make(chan struct{})
	var applied bool
	done := make(chan error, 1)
	go func() {
		done <- old.Apply(func() error {
			close(entered)
			<-release
			applied = true
			return nil
		})
	}()
	<-entered

	started := make(chan *Token, 1)
	go func() {
		started <- c.Start(context.Background(), "search")
	}()

	select {
	case <-started:
		t.Fatal("Start for the same view returned while Apply was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Apply = %v", err)
	}
	newer := <-started
	if !applied {
		t.Error("older result should have been applied before supersession")
	}
	if old.Current() || !newer.Current() {
		t.Error("newer token should be current after Start returns")
	}
	if err := old.Apply(func() error { return nil }); !errors.Is(err, ErrSuperseded) {
		t.Errorf("Apply after supersession = %v, want ErrSuperseded", err)
	}
}
