package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/synapsemed/synapse/internal/models"
)

// State is the lifecycle phase of the dropdown.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateLoading
	StateDisplayed
	StateEmpty
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateLoading:
		return "loading"
	case StateDisplayed:
		return "displayed"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Defaults mirror the browser widget.
const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultBlurGrace = 200 * time.Millisecond
)

// MinQueryLength is the shortest trimmed query, in characters, that is sent.
const MinQueryLength = 3

// Snapshot is a copy of the controller state handed to observers.
// Version increases with every state change.
type Snapshot struct {
	Version uint64
	State   State
	Query   string
	Results []models.Record
	Err     error
	Focused bool
	Visible bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the quiet period before a request is issued.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithBlurGrace sets how long the dropdown stays visible after blur.
func WithBlurGrace(d time.Duration) Option {
	return func(c *Controller) { c.blurGrace = d }
}

// WithLogger sets the logger used for swallowed fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithObserver registers fn to receive a snapshot after every state change.
// Calls are serialized and arrive in Version order; a snapshot overtaken by
// a newer one before delivery is skipped.
// fn must not call back into the controller.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.observer = fn }
}

// Controller debounces query input, issues searches through a Fetcher, and
// tracks loading, result, and visibility state.
//
// Every change of input bumps a sequence number. A completion is applied
// only if it still carries the latest number, and the context of a
// superseded request is cancelled.
type Controller struct {
	fetcher   Fetcher
	debounce  time.Duration
	blurGrace time.Duration
	logger    *slog.Logger
	observer  func(Snapshot)

	notifyMu  sync.Mutex
	delivered uint64

	mu        sync.Mutex
	version   uint64
	state     State
	query     string
	typ       string
	category  string
	results   []models.Record
	err       error
	focused   bool
	seq       uint64
	timer     *time.Timer
	cancel    context.CancelFunc
	blurTimer *time.Timer
	closed    bool
}

// NewController creates an idle controller.
func NewController(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   f,
		debounce:  DefaultDebounce,
		blurGrace: DefaultBlurGrace,
		logger:    slog.Default(),
		typ:       "all",
		category:  "all",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records a change of the input text.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	c.query = text
	snap, ok := c.restartLocked()
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// SetFilters changes the type and category filters and re-runs the current query.
func (c *Controller) SetFilters(typ, category string) {
	c.mu.Lock()
	c.typ = orAll(typ)
	c.category = orAll(category)
	snap, ok := c.restartLocked()
	c.mu.Unlock()
	if ok {
		c.notify(snap)
	}
}

// restartLocked supersedes any pending or in-flight search and, for long
// enough queries, arms the debounce timer.
func (c *Controller) restartLocked() (Snapshot, bool) {
	if c.closed {
		return Snapshot{}, false
	}
	c.seq++
	c.stopPendingLocked()

	text := strings.TrimSpace(c.query)
	if utf8.RuneCountInString(text) < MinQueryLength {
		c.state = StateIdle
		c.results = nil
		c.err = nil
		return c.changedLocked(), true
	}

	c.state = StateDebouncing
	seq := c.seq
	p := Params{Text: text, Type: c.typ, Category: c.category}
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(seq, p) })
	return c.changedLocked(), true
}

func (c *Controller) stopPendingLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) fire(seq uint64, p Params) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.timer = nil
	c.cancel = cancel
	c.state = StateLoading
	loading := c.changedLocked()
	c.mu.Unlock()
	c.notify(loading)

	results, err := c.fetcher.Search(ctx, p)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		cancel()
		return
	}
	cancel()
	c.cancel = nil
	switch {
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn("search request failed",
				slog.String("query", p.Text),
				slog.String("error", err.Error()))
		}
		c.state = StateError
		c.results = nil
		c.err = err
	case len(results) == 0:
		c.state = StateEmpty
		c.results = nil
		c.err = nil
	default:
		c.state = StateDisplayed
		c.results = results
		c.err = nil
	}
	done := c.changedLocked()
	c.mu.Unlock()
	c.notify(done)
}

// Focus marks the input as focused and cancels a pending blur hide.
func (c *Controller) Focus() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.blurTimer != nil {
		c.blurTimer.Stop()
		c.blurTimer = nil
	}
	c.focused = true
	snap := c.changedLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Blur hides the dropdown after the grace delay, leaving time for a click
// on a result to land.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.focused {
		return
	}
	if c.blurTimer != nil {
		c.blurTimer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(c.blurGrace, func() {
		c.mu.Lock()
		if c.closed || c.blurTimer != t {
			c.mu.Unlock()
			return
		}
		c.blurTimer = nil
		c.focused = false
		snap := c.changedLocked()
		c.mu.Unlock()
		c.notify(snap)
	})
	c.blurTimer = t
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops all timers and aborts any in-flight request.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.seq++
	c.stopPendingLocked()
	if c.blurTimer != nil {
		c.blurTimer.Stop()
		c.blurTimer = nil
	}
}

// changedLocked records a state change and returns the resulting snapshot.
func (c *Controller) changedLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	results := make([]models.Record, len(c.results))
	copy(results, c.results)
	return Snapshot{
		Version: c.version,
		State:   c.state,
		Query:   c.query,
		Results: results,
		Err:     c.err,
		Focused: c.focused,
		Visible: c.focused && (c.state == StateDisplayed || c.state == StateEmpty || c.state == StateError),
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.observer == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if s.Version <= c.delivered {
		return
	}
	c.delivered = s.Version
	c.observer(s)
}
