// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

// Package inflight keeps at most one live load per view.
//
// Starting a load for a view cancels the previous one for that view. A load
// publishes its result through Token.Apply, which runs only while the token is
// still the view's current one, so a slow older response can never overwrite
// a newer one:
//
//	tok := ctrl.Start(ctx, "dashboard")
//	defer tok.Settle()
//
//	d, err := api.Dashboard(tok.Context(), userID)
//	...
//	err = tok.Apply(func() error {
//	    state.dashboard = d
//	    return nil
//	})
//	if errors.Is(err, inflight.ErrSuperseded) {
//	    return // a newer load owns the view
//	}
package inflight

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/metrics"
)

// ErrSuperseded is the cancellation cause of a load replaced by a newer one,
// and the result of Apply on a token that is no longer current.
var ErrSuperseded = errors.New("superseded by a newer request")

// Controller tracks the current token per view key.
//
// mu guards the maps and is held only for bookkeeping. Each view also has a
// gate that serialises Apply with Start and Cancel for that view alone, so a
// slow Apply never stalls other views.
type Controller struct {
	mu     sync.Mutex
	tokens map[string]*Token
	gates  map[string]*sync.Mutex
}

// NewController returns an empty Controller.
func NewController() *Controller {
	return &Controller{
		tokens: make(map[string]*Token),
		gates:  make(map[string]*sync.Mutex),
	}
}

func (c *Controller) gate(view string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gates[view]
	if !ok {
		g = &sync.Mutex{}
		c.gates[view] = g
	}
	return g
}

// Token is one started load.
type Token struct {
	c      *Controller
	view   string
	id     string
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// Start begins a load for view and cancels any load already pending for it.
// The returned token's context derives from parent.
func (c *Controller) Start(parent context.Context, view string) *Token {
	ctx, cancel := context.WithCancelCause(parent)
	t := &Token{
		c:      c,
		view:   view,
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
	}

	g := c.gate(view)
	g.Lock()
	c.mu.Lock()
	prev := c.tokens[view]
	c.tokens[view] = t
	metrics.InflightLoads.WithLabelValues(view).Set(1)
	c.mu.Unlock()
	g.Unlock()

	if prev != nil {
		prev.cancel(ErrSuperseded)
		metrics.RecordSuperseded(view)
		logging.Ctx(parent).Debug().
			Str("view", view).
			Str("superseded", prev.id).
			Str("token", t.id).
			Msg("load superseded")
	}
	return t
}

// Pending reports whether view has an unsettled load.
func (c *Controller) Pending(view string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tokens[view]
	return ok
}

// Cancel abandons the pending load for view, if any. Its result will be
// discarded exactly as if a newer load had started.
func (c *Controller) Cancel(view string) {
	g := c.gate(view)
	g.Lock()
	c.mu.Lock()
	t := c.tokens[view]
	delete(c.tokens, view)
	metrics.InflightLoads.WithLabelValues(view).Set(0)
	c.mu.Unlock()
	g.Unlock()

	if t != nil {
		t.cancel(context.Canceled)
	}
}

// Context is cancelled when the token is superseded, cancelled or settled.
func (t *Token) Context() context.Context {
	return t.ctx
}

// ID uniquely identifies the token in logs.
func (t *Token) ID() string {
	return t.id
}

// View returns the view key the token was started for.
func (t *Token) View() string {
	return t.view
}

// Current reports whether t is still the view's live token.
func (t *Token) Current() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	return t.c.tokens[t.view] == t
}

// Apply runs fn only if t is still current, with no Start, Cancel or Apply
// for the same view able to interleave. It returns ErrSuperseded without
// running fn otherwise. Other views are not blocked while fn runs. fn must
// not call Start or Cancel for its own view.
func (t *Token) Apply(fn func() error) error {
	g := t.c.gate(t.view)
	g.Lock()
	defer g.Unlock()
	if !t.Current() {
		return ErrSuperseded
	}
	return fn()
}

// Settle ends the load. It is safe to call more than once and after the
// token was superseded.
func (t *Token) Settle() {
	t.c.mu.Lock()
	if t.c.tokens[t.view] == t {
		delete(t.c.tokens, t.view)
		metrics.InflightLoads.WithLabelValues(t.view).Set(0)
	}
	t.c.mu.Unlock()

	t.cancel(nil)
}
