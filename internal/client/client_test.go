package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/synapsemed/synapse/internal/models"
)

func TestClientSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []models.Record{{ID: 1, Kind: models.KindDrug, Label: "Aspirin", Class: "NSAIDs", Category: "Cardiology"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 0)
	got, err := c.Search(context.Background(), Params{Text: "asp", Type: "drugs"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Label != "Aspirin" || got[0].Kind != models.KindDrug {
		t.Fatalf("unexpected results: %+v", got)
	}
	if gotQuery != "category=all&q=asp&type=drugs" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestClientSearchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Failed to process search request"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Search(context.Background(), Params{Text: "cardio"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", se.Code)
	}
}

// fakeFetcher records calls and answers through respond.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []Params
	respond func(ctx context.Context, p Params) ([]models.Record, error)
}

func (f *fakeFetcher) Search(ctx context.Context, p Params) ([]models.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if f.respond == nil {
		return []models.Record{{ID: 1, Kind: models.KindBook, Label: p.Text, Category: "x"}}, nil
	}
	return f.respond(ctx, p)
}

func (f *fakeFetcher) Calls() []Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Params, len(f.calls))
	copy(out, f.calls)
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestControllerDebounceIssuesOneRequest(t *testing.T) {
	f := &fakeFetcher{}
	c := NewController(f, WithDebounce(30*time.Millisecond))
	defer c.Close()

	for _, s := range []string{"c", "ca", "car", "card", "cardi", "cardio"} {
		c.SetQuery(s)
	}
	if got := c.Snapshot().State; got != StateDebouncing {
		t.Fatalf("state = %s, want debouncing", got)
	}

	waitFor(t, "displayed", func() bool { return c.Snapshot().State == StateDisplayed })
	time.Sleep(60 * time.Millisecond)

	calls := f.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 request, got %d", len(calls))
	}
	if calls[0].Text != "cardio" || calls[0].Type != "all" || calls[0].Category != "all" {
		t.Errorf("unexpected params: %+v", calls[0])
	}
}

func TestControllerShortQueryNoRequest(t *testing.T) {
	for _, q := range []string{"", "  ab  ", "βγ", " 心筋 ", "é"} {
		t.Run(q, func(t *testing.T) {
			f := &fakeFetcher{}
			c := NewController(f, WithDebounce(10*time.Millisecond))
			defer c.Close()

			c.SetQuery(q)
			time.Sleep(60 * time.Millisecond)

			s := c.Snapshot()
			if s.State != StateIdle || len(s.Results) != 0 {
				t.Fatalf("unexpected snapshot: %+v", s)
			}
			if n := len(f.Calls()); n != 0 {
				t.Fatalf("expected no requests, got %d", n)
			}
		})
	}
}

func TestControllerThreeCharacterQuerySent(t *testing.T) {
	f := &fakeFetcher{}
	c := NewController(f, WithDebounce(10*time.Millisecond))
	defer c.Close()

	c.SetQuery("βγδ")
	waitFor(t, "request", func() bool { return len(f.Calls()) == 1 })
}

func TestControllerDefaults(t *testing.T) {
	f := &fakeFetcher{}
	c := NewController(f)
	defer c.Close()

	if c.debounce != 300*time.Millisecond {
		t.Errorf("debounce = %s, want 300ms", c.debounce)
	}
	if c.blurGrace != 200*time.Millisecond {
		t.Errorf("blur grace = %s, want 200ms", c.blurGrace)
	}

	start := time.Now()
	c.SetQuery("aspirin")
	time.Sleep(150 * time.Millisecond)
	if n := len(f.Calls()); n != 0 {
		t.Fatalf("request sent before the debounce elapsed")
	}
	waitFor(t, "request", func() bool { return len(f.Calls()) == 1 })
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Errorf("request sent after %s, want at least 300ms", elapsed)
	}
}

func TestControllerPauseIssuesSecondRequest(t *testing.T) {
	f := &fakeFetcher{}
	c := NewController(f, WithDebounce(20*time.Millisecond))
	defer c.Close()

	c.SetQuery("card")
	waitFor(t, "first result", func() bool { return c.Snapshot().State == StateDisplayed })
	time.Sleep(40 * time.Millisecond)
	c.SetQuery("cardio")
	waitFor(t, "second request", func() bool { return len(f.Calls()) == 2 })

	calls := f.Calls()
	if calls[0].Text != "card" || calls[1].Text != "cardio" {
		t.Errorf("unexpected requests: %+v", calls)
	}
}

func TestControllerObserverSeesOrderedVersions(t *testing.T) {
	f := &fakeFetcher{}
	var mu sync.Mutex
	var seen []Snapshot
	c := NewController(f,
		WithDebounce(time.Millisecond),
		WithObserver(func(s Snapshot) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		}),
	)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if (i+j)%3 == 0 {
					c.SetQuery("ab")
				} else {
					c.SetQuery("cardio")
				}
				time.Sleep(time.Millisecond)
			}
		}(i)
	}
	wg.Wait()
	c.SetQuery("ab")

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(seen); i++ {
		if seen[i].Version <= seen[i-1].Version {
			t.Fatalf("snapshot %d delivered after %d", seen[i].Version, seen[i-1].Version)
		}
	}
	last := seen[len(seen)-1]
	if last.State != StateIdle || last.Version != c.Snapshot().Version {
		t.Fatalf("last delivered = %s v%d, current v%d", last.State, last.Version, c.Snapshot().Version)
	}
}

func TestControllerShortQueryClearsResults(t *testing.T) {
	f := &fakeFetcher{}
	c := NewController(f, WithDebounce(10*time.Millisecond))
	defer c.Close()

	c.SetQuery("aspirin")
	waitFor(t, "displayed", func() bool { return c.Snapshot().State == StateDisplayed })

	c.SetQuery("as")
	s := c.Snapshot()
	if s.State != StateIdle || len(s.Results) != 0 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestControllerStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var aborted atomic.Bool
	f := &fakeFetcher{respond: func(ctx context.Context, p Params) ([]models.Record, error) {
		if p.Text == "first" {
			select {
			case <-release:
			case <-ctx.Done():
				aborted.Store(true)
			}
			return []models.Record{{ID: 9, Kind: models.KindBook, Label: "stale", Category: "x"}}, nil
		}
		return []models.Record{{ID: 1, Kind: models.KindBook, Label: "fresh", Category: "x"}}, nil
	}}
	c := NewController(f, WithDebounce(10*time.Millisecond))
	defer c.Close()

	c.SetQuery("first")
	waitFor(t, "loading", func() bool { return c.Snapshot().State == StateLoading })

	c.SetQuery("second")
	waitFor(t, "displayed", func() bool { return c.Snapshot().State == StateDisplayed })
	close(release)
	time.Sleep(30 * time.Millisecond)

	s := c.Snapshot()
	if len(s.Results) != 1 || s.Results[0].Label != "fresh" {
		t.Fatalf("stale response applied: %+v", s.Results)
	}
	if !aborted.Load() {
		t.Error("superseded request was not cancelled")
	}
}

func TestControllerEmptyAndError(t *testing.T) {
	boom := errors.New("network down")
	f := &fakeFetcher{respond: func(_ context.Context, p Params) ([]models.Record, error) {
		if p.Text == "broken" {
			return nil, boom
		}
		return nil, nil
	}}
	c := NewController(f, WithDebounce(10*time.Millisecond))
	defer c.Close()

	c.SetQuery("zzzz")
	waitFor(t, "empty", func() bool { return c.Snapshot().State == StateEmpty })

	c.SetQuery("broken")
	waitFor(t, "error", func() bool { return c.Snapshot().State == StateError })
	s := c.Snapshot()
	if len(s.Results) != 0 {
		t.Errorf("error state should carry no results, got %d", len(s.Results))
	}
	if !errors.Is(s.Err, boom) {
		t.Errorf("err = %v", s.Err)
	}
}

func TestControllerSetFiltersRerunsQuery(t *testing.T) {
	f := &fakeFetcher{}
	c := NewController(f, WithDebounce(10*time.Millisecond))
	defer c.Close()

	c.SetQuery("cardio")
	waitFor(t, "first request", func() bool { return len(f.Calls()) == 1 })
	c.SetFilters("articles", "")
	waitFor(t, "second request", func() bool { return len(f.Calls()) == 2 })

	p := f.Calls()[1]
	if p.Type != "articles" || p.Category != "all" {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestControllerBlurGrace(t *testing.T) {
	f := &fakeFetcher{}
	var changes atomic.Int32
	c := NewController(f,
		WithDebounce(10*time.Millisecond),
		WithBlurGrace(80*time.Millisecond),
		WithObserver(func(Snapshot) { changes.Add(1) }),
	)
	defer c.Close()

	c.Focus()
	c.SetQuery("aspirin")
	waitFor(t, "visible", func() bool { return c.Snapshot().Visible })

	c.Blur()
	if !c.Snapshot().Visible {
		t.Fatal("dropdown hidden before grace delay")
	}
	waitFor(t, "hidden", func() bool { return !c.Snapshot().Visible })

	c.Focus()
	c.Blur()
	c.Focus()
	time.Sleep(150 * time.Millisecond)
	if !c.Snapshot().Visible {
		t.Fatal("focus did not cancel the pending hide")
	}
	if changes.Load() == 0 {
		t.Error("observer never called")
	}
}
