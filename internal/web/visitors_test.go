package web

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/bus-booking-frontend/internal/clock"
	"github.com/iliyamo/bus-booking-frontend/internal/flow"
)

func TestOpenReusesVisitor(t *testing.T) {
	r := NewRegistry(Settings{APIBaseURL: "http://api.invalid"}, nil, nil, nil)

	a := r.Open("v1")
	b := r.Open("v1")
	if a != b {
		t.Fatal("same id produced two visitors")
	}
	if r.Open("v2") == a {
		t.Fatal("different ids share a visitor")
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Session.Wait(ctx); err != nil {
		t.Fatalf("session never hydrated: %v", err)
	}
	if a.Session.Authenticated() {
		t.Fatal("fresh visitor is authenticated")
	}
	if a.Flow.State() != flow.StateBrowsing {
		t.Fatalf("flow state = %v", a.Flow.State())
	}
}

func TestSweepDropsIdleVisitors(t *testing.T) {
	clk := clock.Fake(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	r := NewRegistry(Settings{APIBaseURL: "http://api.invalid", IdleTTL: time.Minute, Clock: clk}, nil, nil, nil)

	r.Open("old")
	clk.Advance(45 * time.Second)
	r.Open("fresh")
	clk.Advance(30 * time.Second)

	if n := r.Sweep(clk.Now()); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, ok := r.Lookup("old"); ok {
		t.Fatal("idle visitor kept")
	}
	if _, ok := r.Lookup("fresh"); !ok {
		t.Fatal("active visitor dropped")
	}
}
