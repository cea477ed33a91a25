package transport

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/ratelimit"
)

func newTestClient(ttl time.Duration) *Client {
	limiter := ratelimit.New(time.Millisecond)
	return New(limiter, ttl, slog.New(slog.DiscardHandler))
}

func TestGet_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   *apperr.Error
	}{
		{"too many requests", http.StatusTooManyRequests, apperr.ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, apperr.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, apperr.ErrProvider},
		{"not found", http.StatusNotFound, apperr.ErrNotFound},
		{"server error", http.StatusInternalServerError, apperr.ErrProvider},
		{"bad gateway", http.StatusBadGateway, apperr.ErrProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := newTestClient(time.Hour)
			_, err := c.Get(context.Background(), Request{Key: "test", URL: srv.URL})
			if !apperr.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want code %s", err, tt.want.Code)
			}
		})
	}
}

func TestGet_ProviderErrorCarriesStatus(t *testing.T) {
	// 403 stays a provider error with its status; only 401 means bad creds.
	for _, status := range []int{http.StatusServiceUnavailable, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		defer srv.Close()

		c := newTestClient(time.Hour)
		_, err := c.Get(context.Background(), Request{Key: "test", URL: srv.URL})

		var domainErr *apperr.Error
		if !apperr.As(err, &domainErr) {
			t.Fatalf("expected *apperr.Error, got %T", err)
		}
		if domainErr.Status != status {
			t.Errorf("Status = %d, want %d", domainErr.Status, status)
		}
	}
}

func TestGet_SetsHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-API-KEY")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(time.Hour)
	header := http.Header{}
	header.Set("X-API-KEY", "secret")

	if _, err := c.Get(context.Background(), Request{Key: "test", URL: srv.URL, Header: header}); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if gotAuth != "secret" {
		t.Errorf("X-API-KEY = %q, want %q", gotAuth, "secret")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestGet_CacheableReusesBody(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"cached":true}`))
	}))
	defer srv.Close()

	c := newTestClient(time.Hour)
	req := Request{Key: "test", URL: srv.URL, Cacheable: true}

	first, err := c.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("first Get() failed: %v", err)
	}
	second, err := c.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("second Get() failed: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("upstream hit %d times, want 1", hits.Load())
	}
	if string(first) != string(second) {
		t.Error("cached body differs from original")
	}
}

func TestGet_NonCacheableAlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(time.Hour)
	req := Request{Key: "test", URL: srv.URL}

	for range 3 {
		if _, err := c.Get(context.Background(), req); err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
	}
	if hits.Load() != 3 {
		t.Errorf("upstream hit %d times, want 3", hits.Load())
	}
}

func TestGet_CacheExpiry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(20 * time.Millisecond)
	req := Request{Key: "test", URL: srv.URL, Cacheable: true}

	if _, err := c.Get(context.Background(), req); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := c.Get(context.Background(), req); err != nil {
		t.Fatalf("Get() after expiry failed: %v", err)
	}

	if hits.Load() != 2 {
		t.Errorf("upstream hit %d times, want 2 after TTL expiry", hits.Load())
	}
}

func TestGet_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := newTestClient(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, Request{Key: "test", URL: srv.URL})
	if !apperr.Is(err, apperr.ErrCancelled) {
		t.Errorf("Get() error = %v, want cancelled", err)
	}
}

func TestGet_NetworkError(t *testing.T) {
	c := newTestClient(time.Hour)

	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := c.Get(context.Background(), Request{Key: "test", URL: url})
	if !apperr.Is(err, apperr.ErrNetwork) {
		t.Errorf("Get() error = %v, want network error", err)
	}
}
