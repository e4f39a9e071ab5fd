package ui

import (
	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/engagement"
	"github.com/gauthierbraillon/feedreel/internal/playback"
)

// PlaybackMsg carries a scheduler state change into the program.
type PlaybackMsg playback.State

// EntryChangedMsg carries a toggled entry into the program so only that
// entry is redrawn.
type EntryChangedMsg engagement.Change

// ToggledMsg reports the outcome of a toggle key.
type ToggledMsg struct {
	Result engagement.Result
	Err    error
}

// OpenedMsg reports the outcome of opening a media URL.
type OpenedMsg struct {
	URL string
	Err error
}

// ReloadedMsg carries a rebuilt feed into the program.
type ReloadedMsg struct {
	Entries []aggregator.FeedEntry
	Err     error
}
