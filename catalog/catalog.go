package catalog

import (
	"sync"
	"time"

	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SearchDebounce is how long search input must stay unchanged before it filters
const SearchDebounce = 300 * time.Millisecond

// View is the derived catalog published to listeners
type View struct {
	Categories    []string         `json:"categories"`
	Tags          []string         `json:"tags"`
	Projects      []models.Project `json:"projects"`
	Filter        FilterState      `json:"filter"`
	PendingSearch string           `json:"pendingSearch"`
}

type timer interface {
	Stop() bool
}

func afterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// ProjectSource publishes versioned snapshots of the project collection, normally a
// *content.Store
type ProjectSource interface {
	Snapshot() content.Snapshot
	Subscribe(fn func(content.Snapshot)) (unsubscribe func())
}

// Catalog keeps a filtered view of a project collection up to date as the
// collection and the filter predicates change.
type Catalog struct {
	logger    zerolog.Logger
	debounce  time.Duration
	afterFunc func(time.Duration, func()) timer

	mu         sync.Mutex
	closed     bool
	source     []models.Project
	state      FilterState
	pending    string
	timer      timer
	generation uint64
	view       View
	unwatch    func()
	// version of the last source snapshot applied
	sourceVersion uint64

	outbox       *View
	publishing   bool
	listeners    map[int]func(View)
	nextListener int
}

type Option func(*Catalog)

func WithDebounce(d time.Duration) Option {
	return func(c *Catalog) {
		c.debounce = d
	}
}

func withAfterFunc(fn func(time.Duration, func()) timer) Option {
	return func(c *Catalog) {
		c.afterFunc = fn
	}
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		logger:    log.With().Str("component", "catalog").Logger(),
		debounce:  SearchDebounce,
		afterFunc: afterFunc,
		source:    []models.Project{},
		state:     DefaultFilterState(),
		listeners: map[int]func(View){},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = c.computeLocked()
	return c
}

// update runs fn under the lock and, when fn reports a change, recomputes the view
// and queues it for listeners.
func (c *Catalog) update(fn func() bool) {
	c.mu.Lock()
	if c.closed || !fn() {
		c.mu.Unlock()
		return
	}
	c.view = c.computeLocked()
	view := cloneView(c.view)
	c.outbox = &view
	if c.publishing {
		c.mu.Unlock()
		return
	}
	c.publishing = true
	c.mu.Unlock()

	c.publish()
}

// publish delivers the newest queued view until nothing newer is waiting, so
// listeners never receive an older view after a newer one.
func (c *Catalog) publish() {
	for {
		c.mu.Lock()
		view := c.outbox
		c.outbox = nil
		if view == nil {
			c.publishing = false
			c.mu.Unlock()
			return
		}
		listeners := make([]func(View), 0, len(c.listeners))
		for _, l := range c.listeners {
			listeners = append(listeners, l)
		}
		c.mu.Unlock()

		for _, l := range listeners {
			l(cloneView(*view))
		}
	}
}

func (c *Catalog) computeLocked() View {
	return View{
		Categories:    Categories(c.source),
		Tags:          Tags(c.source),
		Projects:      Apply(c.source, c.state),
		Filter:        cloneState(c.state),
		PendingSearch: c.pending,
	}
}

// SetProjects replaces the source collection. Its order is kept in the view.
func (c *Catalog) SetProjects(projects []models.Project) {
	src := make([]models.Project, len(projects))
	for i, p := range projects {
		src[i] = p.Clone()
	}
	c.update(func() bool {
		c.source = src
		return true
	})
}

// applySnapshot takes the projects of snap unless a newer snapshot was applied already.
func (c *Catalog) applySnapshot(snap content.Snapshot) {
	src := make([]models.Project, len(snap.Projects))
	for i, p := range snap.Projects {
		src[i] = p.Clone()
	}
	c.update(func() bool {
		if snap.Version < c.sourceVersion {
			return false
		}
		c.sourceVersion = snap.Version
		c.source = src
		return true
	})
}

// SetCategory selects a category; "" selects All.
func (c *Catalog) SetCategory(category string) {
	if category == "" {
		category = All
	}
	c.update(func() bool {
		c.state.ActiveCategory = category
		return true
	})
}

// SetTags replaces the active tag set
func (c *Catalog) SetTags(tags []string) {
	set := []string{}
	for _, t := range tags {
		if t != "" && !contains(set, t) {
			set = append(set, t)
		}
	}
	c.update(func() bool {
		c.state.ActiveTags = set
		return true
	})
}

// ToggleTag adds tag to the active set, or removes it when already active.
func (c *Catalog) ToggleTag(tag string) {
	c.update(func() bool {
		next := make([]string, 0, len(c.state.ActiveTags)+1)
		found := false
		for _, t := range c.state.ActiveTags {
			if t == tag {
				found = true
				continue
			}
			next = append(next, t)
		}
		if !found {
			next = append(next, tag)
		}
		c.state.ActiveTags = next
		return true
	})
}

// SetSearchInput records a keystroke. The search query takes the input's value once
// no further input arrived for the debounce interval.
func (c *Catalog) SetSearchInput(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.pending = raw
	c.view.PendingSearch = raw
	c.stopTimerLocked()
	gen := c.generation
	c.timer = c.afterFunc(c.debounce, func() {
		c.commitSearch(gen)
	})
}

// commitSearch applies the pending input unless a later keystroke, a clear or Close
// superseded the timer that fired.
func (c *Catalog) commitSearch(gen uint64) {
	c.mu.Lock()
	stale := c.closed || gen != c.generation
	c.mu.Unlock()
	if stale {
		return
	}

	c.update(func() bool {
		if gen != c.generation {
			return false
		}
		c.timer = nil
		c.state.SearchQuery = c.pending
		return true
	})
}

// stopTimerLocked cancels the pending debounce and invalidates a callback that may
// already be waiting for the lock.
func (c *Catalog) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

// ClearFilters resets every predicate and drops pending search input.
func (c *Catalog) ClearFilters() {
	c.update(func() bool {
		c.stopTimerLocked()
		c.pending = ""
		c.state = DefaultFilterState()
		return true
	})
}

func (c *Catalog) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneView(c.view)
}

func (c *Catalog) Filter() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneState(c.state)
}

// Subscribe registers fn to receive the view after every recompute
func (c *Catalog) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Watch follows src: the view is recomputed whenever src publishes a change.
// Snapshots older than one already applied are ignored, so notifications that race
// each other cannot leave a stale collection behind. A previous source stops being
// watched.
func (c *Catalog) Watch(src ProjectSource) {
	c.mu.Lock()
	previous := c.unwatch
	c.unwatch = nil
	c.sourceVersion = 0
	c.mu.Unlock()
	if previous != nil {
		previous()
	}

	unsubscribe := src.Subscribe(c.applySnapshot)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		unsubscribe()
		return
	}
	c.unwatch = unsubscribe
	c.mu.Unlock()

	c.applySnapshot(src.Snapshot())
}

// Close stops the debounce timer and the source subscription. The view no longer
// changes afterwards.
func (c *Catalog) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	unwatch := c.unwatch
	c.unwatch = nil
	c.listeners = map[int]func(View){}
	c.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
	c.logger.Debug().Msg("Catalog closed")
}

func cloneState(s FilterState) FilterState {
	s.ActiveTags = append([]string{}, s.ActiveTags...)
	return s
}

func cloneView(v View) View {
	v.Categories = append([]string{}, v.Categories...)
	v.Tags = append([]string{}, v.Tags...)
	projects := make([]models.Project, len(v.Projects))
	for i, p := range v.Projects {
		projects[i] = p.Clone()
	}
	v.Projects = projects
	v.Filter = cloneState(v.Filter)
	return v
}
