// Package playback decides which feed item plays as the viewport moves.
//
// The Scheduler reacts to visibility transitions from a VisibilityWatcher and
// to user taps. At most one item plays at a time; an item the user paused
// stays paused until it leaves the viewport.
package playback

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// None marks an unset active or override index.
const None = -1

// DefaultThreshold is the visible fraction an item needs to autoplay.
const DefaultThreshold = 0.5

// Player controls the media element of each feed item.
type Player interface {
	Play(index int) error
	Pause(index int)
	Mute(index int)
}

// State is a snapshot of the scheduler.
type State struct {
	Active   int
	Override int
	Playing  []int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithThreshold sets the visibility ratio required to autoplay.
func WithThreshold(threshold float64) Option {
	return func(s *Scheduler) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// WithLogger sets the logger used for rejected playback.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithNotify registers fn to receive the state after every event.
// fn runs without the scheduler lock held.
func WithNotify(fn func(State)) Option {
	return func(s *Scheduler) { s.notify = fn }
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	player    Player
	threshold float64
	logger    zerolog.Logger
	notify    func(State)

	mu       sync.Mutex
	active   int
	override int
	playing  map[int]bool
	watched  map[int]bool // nil until the first Watch: every index is observed
}

// NewScheduler returns a Scheduler driving player.
func NewScheduler(player Player, opts ...Option) *Scheduler {
	s := &Scheduler{
		player:    player,
		threshold: DefaultThreshold,
		logger:    zerolog.Nop(),
		active:    None,
		override:  None,
		playing:   make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run applies events from w until ctx is done or the event channel closes.
func (s *Scheduler) Run(ctx context.Context, w VisibilityWatcher) error {
	events := w.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ev)
		}
	}
}

// Handle applies one visibility transition. An enter below the threshold
// counts as an exit.
func (s *Scheduler) Handle(ev VisibilityEvent) {
	s.mu.Lock()
	if s.watched != nil && !s.watched[ev.Index] {
		s.mu.Unlock()
		return
	}
	if ev.Entered && ev.Ratio >= s.threshold {
		s.enter(ev.Index)
	} else {
		s.exit(ev.Index)
	}
	st := s.stateLocked()
	s.mu.Unlock()

	s.publish(st)
}

// Tap toggles item index on explicit user request.
func (s *Scheduler) Tap(index int) {
	s.mu.Lock()
	if s.playing[index] {
		s.player.Pause(index)
		delete(s.playing, index)
		s.override = index
		if s.active == index {
			s.active = None
		}
	} else {
		s.pauseOthers(index)
		if s.start(index) {
			s.active = index
			s.override = None
		}
	}
	st := s.stateLocked()
	s.mu.Unlock()

	s.publish(st)
}

// Watch replaces the set of observed indexes. Items dropped from the set are
// paused and forgotten.
func (s *Scheduler) Watch(indexes []int) {
	next := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		next[i] = true
	}

	s.mu.Lock()
	for i := range s.playing {
		if !next[i] {
			s.player.Pause(i)
			delete(s.playing, i)
		}
	}
	if s.active != None && !next[s.active] {
		s.active = None
	}
	if s.override != None && !next[s.override] {
		s.override = None
	}
	s.watched = next
	st := s.stateLocked()
	s.mu.Unlock()

	s.publish(st)
}

// State returns a snapshot.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Playing reports whether index is playing.
func (s *Scheduler) Playing(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing[index]
}

func (s *Scheduler) enter(i int) {
	if i == s.override || s.playing[i] {
		return
	}
	s.pauseOthers(i)
	s.player.Mute(i)
	if s.start(i) {
		s.active = i
	}
}

func (s *Scheduler) exit(i int) {
	if s.playing[i] {
		s.player.Pause(i)
		delete(s.playing, i)
	}
	if s.active == i {
		s.active = None
	}
	if s.override == i {
		s.override = None
	}
}

// start plays i and reports success. A rejected play leaves i paused.
func (s *Scheduler) start(i int) bool {
	if err := s.player.Play(i); err != nil {
		s.logger.Warn().Err(err).Int("index", i).Msg("playback rejected")
		return false
	}
	s.playing[i] = true
	return true
}

// pauseOthers pauses every item but i. Active is cleared with its item so it
// never names a paused item, even when i is then rejected.
func (s *Scheduler) pauseOthers(i int) {
	for j := range s.playing {
		if j != i {
			s.player.Pause(j)
			delete(s.playing, j)
		}
	}
	if s.active != i {
		s.active = None
	}
}

func (s *Scheduler) stateLocked() State {
	playing := make([]int, 0, len(s.playing))
	for i := range s.playing {
		playing = append(playing, i)
	}
	slices.Sort(playing)
	return State{Active: s.active, Override: s.override, Playing: playing}
}

func (s *Scheduler) publish(st State) {
	if s.notify != nil {
		s.notify(st)
	}
}
