// Package aggregator assembles the feed from the media catalog and the engagement ledger.
//
// This package enables feedreel to:
// - Merge videos and image groups into one feed
// - Seed missing engagement entries on first sight
// - Shuffle the feed once per load
// - Provide a unified FeedEntry for display and playback
package aggregator

import (
	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
)

// FeedEntry is a media item joined with its engagement state: the renderable unit.
type FeedEntry struct {
	catalog.MediaItem
	Counters ledger.Counters `json:"counters"`
	Flags    ledger.Flags    `json:"flags"`
}

// Count returns the displayed count for action.
func (e FeedEntry) Count(action ledger.ActionType) int64 {
	return e.Counters.Get(action)
}

// On reports whether the current user has action toggled on.
func (e FeedEntry) On(action ledger.ActionType) bool {
	return e.Flags.On(action)
}

// FeedOptions configures feed retrieval.
type FeedOptions struct {
	Limit int
	Kinds []catalog.Kind
}
