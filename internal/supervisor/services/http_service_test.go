// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ HTTPServer     = (*http.Server)(nil)
)

// stubServer fails the first failListens calls to ListenAndServe, then
// blocks until Shutdown.
type stubServer struct {
	failListens int32
	shutdownErr error

	listens   atomic.Int32
	shutdowns atomic.Int32
	serving   chan struct{}
	stopped   chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{
		serving: make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

func (s *stubServer) ListenAndServe() error {
	if n := s.listens.Add(1); n <= s.failListens {
		return errors.New("listen tcp :8080: bind: address already in use")
	}
	select {
	case s.serving <- struct{}{}:
	default:
	}
	<-s.stopped
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stopped)
	}
	return s.shutdownErr
}

func TestNewHTTPServerService_ShutdownTimeout(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{15 * time.Second, 15 * time.Second},
		{0, 10 * time.Second},
		{-time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		svc := NewHTTPServerService(newStubServer(), tt.in)
		if svc.shutdownTimeout != tt.want {
			t.Errorf("timeout(%v) = %v, want %v", tt.in, svc.shutdownTimeout, tt.want)
		}
	}
	if got := NewHTTPServerService(newStubServer(), 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_ServeOutcomes(t *testing.T) {
	drainErr := errors.New("context deadline exceeded while draining")

	tests := []struct {
		name        string
		failListens int32
		shutdownErr error
		cancel      bool
		want        error
		wantMsg     string
	}{
		{name: "cancel drains and returns cause", cancel: true, want: context.Canceled},
		{name: "bind failure is returned", failListens: 1, wantMsg: "address already in use"},
		{name: "drain failure is returned", cancel: true, shutdownErr: drainErr, want: drainErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newStubServer()
			server.failListens = tt.failListens
			server.shutdownErr = tt.shutdownErr
			svc := NewHTTPServerService(server, time.Second)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			if tt.cancel {
				select {
				case <-server.serving:
				case <-time.After(time.Second):
					t.Fatal("server did not start")
				}
				cancel()
			}

			var err error
			select {
			case err = <-errCh:
			case <-time.After(2 * time.Second):
				t.Fatal("Serve did not return")
			}

			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Serve = %v, want %v", err, tt.want)
			}
			if tt.wantMsg != "" && (err == nil || !strings.Contains(err.Error(), tt.wantMsg)) {
				t.Errorf("Serve = %v, want error containing %q", err, tt.wantMsg)
			}
			if tt.cancel && server.shutdowns.Load() != 1 {
				t.Errorf("Shutdown called %d times, want 1", server.shutdowns.Load())
			}
		})
	}
}

func TestHTTPServerService_RestartedAfterBindFailure(t *testing.T) {
	server := newStubServer()
	server.failListens = 2

	sup := suture.New("api-layer", suture.Spec{
		FailureThreshold: 5,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewHTTPServerService(server, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	select {
	case <-server.serving:
	case <-time.After(2 * time.Second):
		t.Fatalf("server never came up, %d listen attempts", server.listens.Load())
	}
	if got := server.listens.Load(); got != 3 {
		t.Errorf("listen attempts = %d, want 3", got)
	}

	cancel()
	<-errCh
	if server.shutdowns.Load() < 1 {
		t.Error("Shutdown was not called when the tree stopped")
	}
}

func TestHTTPServerService_ServesChiRouter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	svc := NewHTTPServerService(&http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: time.Second,
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	url := "http://" + addr + "/api/v1/health"
	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if resp, err = http.Get(url); err == nil { //nolint:noctx // test-only request
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never answered: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != `{"success":true}` {
		t.Errorf("GET health = %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if resp, err := http.Get(url); err == nil { //nolint:noctx // test-only request
		_ = resp.Body.Close()
		t.Error("server still answering after shutdown")
	}
}
