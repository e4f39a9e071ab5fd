// Package engagement applies user toggles (like, save, share, streak) to the
// ledger and to the in-memory feed.
package engagement

import (
	"maps"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
)

// Applier persists a toggle. *ledger.Ledger implements it.
type Applier interface {
	Apply(itemID string, action ledger.ActionType) (ledger.Counters, uint8, error)
}

// Result describes what a Toggle did.
type Result struct {
	ItemID string
	Action ledger.ActionType
	Count  int64
	On     bool

	// OpenComments is set for the comments action, which opens the
	// read-only comment view instead of toggling.
	OpenComments bool

	// Ignored is set for display-only and unknown actions.
	Ignored bool
}

// Change is delivered to listeners after a toggle updated a feed entry.
type Change struct {
	Index  int
	Action ledger.ActionType
	Entry  aggregator.FeedEntry
}

// Controller owns the in-memory feed state that toggles mutate.
type Controller struct {
	ledger Applier
	logger zerolog.Logger

	mu        sync.RWMutex
	feed      []aggregator.FeedEntry
	index     map[string]int
	listeners []func(Change)
}

// NewController returns a Controller over feed.
func NewController(led Applier, feed []aggregator.FeedEntry, logger zerolog.Logger) *Controller {
	c := &Controller{ledger: led, logger: logger}
	c.SetFeed(feed)
	return c
}

// SetFeed replaces the feed, e.g. after a reload.
func (c *Controller) SetFeed(feed []aggregator.FeedEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.feed = make([]aggregator.FeedEntry, len(feed))
	c.index = make(map[string]int, len(feed))
	for i, e := range feed {
		e.Flags = cloneFlags(e.Flags)
		c.feed[i] = e
		c.index[e.ID] = i
	}
}

// OnChange registers fn to run after every toggle that touched a feed entry.
func (c *Controller) OnChange(fn func(Change)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Feed returns a copy of the current feed.
func (c *Controller) Feed() []aggregator.FeedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]aggregator.FeedEntry, len(c.feed))
	for i, e := range c.feed {
		e.Flags = cloneFlags(e.Flags)
		out[i] = e
	}
	return out
}

// Entry returns the feed entry at index.
func (c *Controller) Entry(index int) (aggregator.FeedEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.feed) {
		return aggregator.FeedEntry{}, false
	}
	e := c.feed[index]
	e.Flags = cloneFlags(e.Flags)
	return e, true
}

// Toggle flips action for itemID. Comments and display-only or unknown
// actions are no-ops reported through Result, never errors. Only storage
// failures return an error, in which case the feed is left unchanged.
func (c *Controller) Toggle(itemID string, action ledger.ActionType) (Result, error) {
	res := Result{ItemID: itemID, Action: action}

	switch {
	case action == ledger.ActionComments:
		res.OpenComments = true
		return res, nil
	case !action.Toggleable():
		res.Ignored = true
		c.logger.Debug().Str("item", itemID).Str("action", string(action)).Msg("ignoring non-toggleable action")
		return res, nil
	}

	counters, flag, err := c.ledger.Apply(itemID, action)
	if err != nil {
		return res, err
	}
	res.Count = counters.Get(action)
	res.On = flag == 1

	c.mu.Lock()
	i, ok := c.index[itemID]
	var change Change
	var listeners []func(Change)
	if ok {
		e := &c.feed[i]
		// Only this action's counter: another action's toggle may be in flight.
		e.Counters = e.Counters.With(action, res.Count)
		if e.Flags == nil {
			e.Flags = ledger.Flags{}
		}
		e.Flags[action] = flag

		change = Change{Index: i, Action: action, Entry: *e}
		change.Entry.Flags = cloneFlags(e.Flags)
		listeners = append(listeners, c.listeners...)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}

	c.logger.Debug().
		Str("item", itemID).
		Str("action", string(action)).
		Int64("count", res.Count).
		Bool("on", res.On).
		Msg("toggled")
	return res, nil
}

func cloneFlags(f ledger.Flags) ledger.Flags {
	if f == nil {
		return ledger.Flags{}
	}
	return maps.Clone(f)
}
