package ui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/catalog"
)

// ErrNoPlayableSource is returned for entries that are not videos or have
// no rendition.
var ErrNoPlayableSource = errors.New("no playable source")

// StatusPlayer stands in for media elements in the terminal: playing is a
// status line, not decoded video. It refuses entries without a video source.
type StatusPlayer struct {
	mu      sync.Mutex
	entries []aggregator.FeedEntry
	muted   map[int]bool
}

// NewStatusPlayer returns a player over entries.
func NewStatusPlayer(entries []aggregator.FeedEntry) *StatusPlayer {
	return &StatusPlayer{entries: entries, muted: make(map[int]bool)}
}

// SetEntries replaces the entries after a reload. Mute state is dropped.
func (p *StatusPlayer) SetEntries(entries []aggregator.FeedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = entries
	p.muted = make(map[int]bool)
}

func (p *StatusPlayer) Play(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.entries) {
		return fmt.Errorf("item %d: %w", index, ErrNoPlayableSource)
	}
	e := p.entries[index]
	if e.Kind != catalog.KindVideo || len(e.Sources) == 0 || e.Sources[0] == "" {
		return fmt.Errorf("%s: %w", e.ID, ErrNoPlayableSource)
	}
	return nil
}

func (p *StatusPlayer) Pause(int) {}

func (p *StatusPlayer) Mute(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted[index] = true
}

// Unmute turns sound on for index, as a user tap does.
func (p *StatusPlayer) Unmute(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.muted, index)
}

// Muted reports whether index was last started muted.
func (p *StatusPlayer) Muted(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted[index]
}
