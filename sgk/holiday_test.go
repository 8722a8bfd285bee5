package sgk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHolidayServiceFetchesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/2025/TR" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"date":"2025-05-01","name":"Emek ve Dayanışma Günü"},{"date":"2025-05-19","name":"Gençlik ve Spor Bayramı"}]`)
	}))
	defer srv.Close()

	s := NewHolidayService(srv.URL)
	ctx := context.Background()

	if !s.IsHoliday(ctx, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected 2025-05-01 to be a holiday")
	}
	if s.IsHoliday(ctx, time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected 2025-05-02 not to be a holiday")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", got)
	}
}

func TestHolidayServiceFailsOpen(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHolidayService(srv.URL)
	ctx := context.Background()

	if s.IsHoliday(ctx, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("upstream failure must answer false, not true")
	}
	// The empty answer is cached; a second probe must not refetch.
	_ = s.IsHoliday(ctx, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC))
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 upstream fetch after failure, got %d", got)
	}
}

func TestHolidayServiceUnreachableUpstream(t *testing.T) {
	s := NewHolidayService("http://127.0.0.1:1")
	if s.IsHoliday(context.Background(), time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("unreachable upstream must answer false")
	}
}
