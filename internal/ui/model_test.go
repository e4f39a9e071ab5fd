package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/carousel"
	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/engagement"
	"github.com/gauthierbraillon/feedreel/internal/kvstore"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
	"github.com/gauthierbraillon/feedreel/internal/playback"
)

type harness struct {
	model    Model
	deps     Deps
	changes  []engagement.Change
	opened   []string
	watcher  *playback.ViewportWatcher
	schedule *playback.Scheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	led := ledger.New(kvstore.NewMemory(), ledger.WithSeed(9))
	feed := []aggregator.FeedEntry{
		{MediaItem: catalog.MediaItem{ID: "v1", Kind: catalog.KindVideo, Sources: []string{"https://videos.pexels.com/1.mp4"}}},
		{MediaItem: catalog.MediaItem{ID: "post-0", Kind: catalog.KindImageGroup, Sources: []string{"https://images.pexels.com/a.jpg", "https://images.pexels.com/b.jpg", "https://images.pexels.com/c.jpg"}}},
		{MediaItem: catalog.MediaItem{ID: "v2", Kind: catalog.KindVideo, Sources: []string{"https://videos.pexels.com/2.mp4"}}},
	}
	for i := range feed {
		c, err := led.GetOrCreate(feed[i].ID)
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		feed[i].Counters = c
	}

	h := &harness{}
	ctrl := engagement.NewController(led, feed, zerolog.Nop())
	ctrl.OnChange(func(ch engagement.Change) { h.changes = append(h.changes, ch) })
	player := NewStatusPlayer(feed)
	h.schedule = playback.NewScheduler(player)
	h.watcher = playback.NewViewportWatcher(len(feed), ItemHeight, ItemHeight, playback.DefaultThreshold, 16)
	h.deps = Deps{
		Controller: ctrl,
		Scheduler:  h.schedule,
		Watcher:    h.watcher,
		Carousel:   carousel.New(),
		Player:     player,
		Open: func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		},
	}
	h.model = NewModel(h.deps)
	return h
}

func (h *harness) press(t *testing.T, key string) tea.Cmd {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "down", "up", "left", "right", "enter", "esc":
		msg = tea.KeyMsg{Type: map[string]tea.KeyType{
			"down": tea.KeyDown, "up": tea.KeyUp, "left": tea.KeyLeft,
			"right": tea.KeyRight, "enter": tea.KeyEnter, "esc": tea.KeyEsc,
		}[key]}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

// run executes cmd and feeds its message back into the model.
func (h *harness) run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		next, _ := h.model.Update(msg)
		h.model = next.(Model)
	}
	return msg
}

// pump applies pending viewport events to the scheduler.
func (h *harness) pump() {
	for {
		select {
		case ev := <-h.watcher.Events():
			h.schedule.Handle(ev)
		default:
			next, _ := h.model.Update(PlaybackMsg(h.schedule.State()))
			h.model = next.(Model)
			return
		}
	}
}

func TestAC900_UI_FirstCardAutoplaysMuted(t *testing.T) {
	h := newHarness(t)

	h.run(h.model.Init())
	h.pump()

	if !h.schedule.Playing(0) {
		t.Fatal("user should see the first video autoplay")
	}
	if view := h.model.View(); !strings.Contains(view, "playing (muted)") {
		t.Errorf("user should see the muted playing status, got:\n%s", view)
	}
}

func TestAC901_UI_ScrollingMovesPlayback(t *testing.T) {
	h := newHarness(t)
	h.run(h.model.Init())
	h.pump()

	h.run(h.press(t, "j"))
	h.pump()
	if h.schedule.Playing(0) {
		t.Error("scrolling away should pause the first video")
	}
	if h.model.Cursor() != 1 {
		t.Fatalf("cursor should move to 1, got %d", h.model.Cursor())
	}

	h.run(h.press(t, "down"))
	h.pump()
	if !h.schedule.Playing(2) {
		t.Error("user should see the second video autoplay when it fills the screen")
	}
}

func TestAC902_UI_ImageGroupsNeverPlay(t *testing.T) {
	h := newHarness(t)
	h.run(h.press(t, "j"))
	h.pump()

	h.run(h.press(t, " "))

	if h.schedule.Playing(1) {
		t.Error("tapping an image group should not start playback")
	}
}

func TestAC903_UI_SpacePausesAndHoldsUntilScrolledAway(t *testing.T) {
	h := newHarness(t)
	h.run(h.model.Init())
	h.pump()

	h.run(h.press(t, " "))
	if h.schedule.Playing(0) {
		t.Fatal("space should pause the playing video")
	}
	if st := h.schedule.State(); st.Override != 0 {
		t.Errorf("paused video should hold the override, got %+v", st)
	}

	h.run(h.press(t, " "))
	if !h.schedule.Playing(0) {
		t.Error("second space should resume playback")
	}
	if h.deps.Player.Muted(0) {
		t.Error("tapped playback should have sound on")
	}
}

func TestAC904_UI_LikeKeyTogglesAndRedrawsEntry(t *testing.T) {
	h := newHarness(t)
	before := h.model.Entries()[0].Counters.Likes

	msg := h.run(h.press(t, "l"))
	if toggled, ok := msg.(ToggledMsg); !ok || toggled.Err != nil || !toggled.Result.On {
		t.Fatalf("like key should toggle likes on, got %+v", msg)
	}
	if len(h.changes) != 1 {
		t.Fatalf("controller should publish one change, got %d", len(h.changes))
	}

	next, _ := h.model.Update(EntryChangedMsg(h.changes[0]))
	h.model = next.(Model)

	entry := h.model.Entries()[0]
	if entry.Counters.Likes != before+1 || !entry.On(ledger.ActionLikes) {
		t.Errorf("user should see likes+1 with the filled icon, got %+v", entry)
	}
	if !strings.Contains(h.model.View(), "♥") {
		t.Error("view should render the filled like icon")
	}
}

func TestAC905_UI_CommentsKeyOpensReadOnlyView(t *testing.T) {
	h := newHarness(t)

	h.run(h.press(t, "c"))
	if view := h.model.View(); !strings.Contains(view, "read-only") {
		t.Errorf("user should see the read-only comments view, got:\n%s", view)
	}

	h.press(t, "esc")
	if view := h.model.View(); strings.Contains(view, "read-only") {
		t.Error("esc should close the comments view")
	}
}

func TestAC906_UI_ArrowKeysPageCarousel(t *testing.T) {
	h := newHarness(t)
	h.press(t, "j")

	h.press(t, "right")
	if got := h.deps.Carousel.Index(1); got != 1 {
		t.Fatalf("right arrow should move to slide 1, got %d", got)
	}
	if view := h.model.View(); !strings.Contains(view, "○●○") || !strings.Contains(view, "b.jpg") {
		t.Errorf("user should see slide 2 and its dot, got:\n%s", view)
	}

	h.press(t, "left")
	if got := h.deps.Carousel.Index(1); got != 0 {
		t.Errorf("left arrow should return to slide 0, got %d", got)
	}

	h.press(t, "left")
	if got := h.deps.Carousel.Index(1); got != 0 {
		t.Errorf("carousel should clamp at the first slide, got %d", got)
	}
}

func TestAC907_UI_OpenKeyOpensCurrentSource(t *testing.T) {
	h := newHarness(t)
	h.press(t, "j")
	h.press(t, "right")

	h.run(h.press(t, "o"))

	if len(h.opened) != 1 || h.opened[0] != "https://images.pexels.com/b.jpg" {
		t.Errorf("user should open the visible photo, got %v", h.opened)
	}
}

func TestAC907_UI_OpenFailureIsShown(t *testing.T) {
	h := newHarness(t)
	next, _ := h.model.Update(OpenedMsg{URL: "x", Err: errors.New("no browser")})
	h.model = next.(Model)

	if !strings.Contains(h.model.View(), "no browser") {
		t.Error("user should see why the URL could not be opened")
	}
}

func TestAC908_UI_QuitKey(t *testing.T) {
	h := newHarness(t)

	cmd := h.press(t, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestAC909_UI_EmptyFeed(t *testing.T) {
	led := ledger.New(kvstore.NewMemory())
	deps := Deps{
		Controller: engagement.NewController(led, nil, zerolog.Nop()),
		Scheduler:  playback.NewScheduler(NewStatusPlayer(nil)),
		Watcher:    playback.NewViewportWatcher(0, ItemHeight, ItemHeight, 0.5, 1),
		Carousel:   carousel.New(),
	}
	m := NewModel(deps)

	if !strings.Contains(m.View(), "No items") {
		t.Error("user should see an empty feed message")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if next.(Model).Cursor() != 0 {
		t.Error("keys on an empty feed should be harmless")
	}
}

func TestAC911_UI_ReloadResetsFeedState(t *testing.T) {
	h := newHarness(t)
	reordered := []aggregator.FeedEntry{h.model.Entries()[1], h.model.Entries()[0], h.model.Entries()[2]}
	h.deps.Reload = func() ([]aggregator.FeedEntry, error) { return reordered, nil }
	h.model = NewModel(h.deps)

	h.run(h.model.Init())
	h.pump()
	h.run(h.press(t, "j"))
	h.pump()
	h.run(h.press(t, "right"))
	if h.deps.Carousel.Index(1) != 1 {
		t.Fatalf("carousel should move before reload, got slide %d", h.deps.Carousel.Index(1))
	}

	msg := h.run(h.press(t, "R"))
	h.pump()

	if reloaded, ok := msg.(ReloadedMsg); !ok || reloaded.Err != nil {
		t.Fatalf("R should reload the feed, got %+v", msg)
	}
	if h.model.Cursor() != 0 || h.model.Entries()[0].ID != "post-0" {
		t.Errorf("user should be back at the top of the new feed, got cursor %d on %s", h.model.Cursor(), h.model.Entries()[0].ID)
	}
	if h.deps.Carousel.Index(1) != 0 {
		t.Error("carousel positions should not carry over to the new feed")
	}
	if got := h.deps.Controller.Feed()[0].ID; got != "post-0" {
		t.Errorf("toggles should target the new feed, controller has %s first", got)
	}
	if h.schedule.Playing(0) {
		t.Error("image group now at the top should not play")
	}
	if !strings.Contains(h.model.View(), "feed reloaded") {
		t.Error("user should see that the feed was reloaded")
	}
}

func TestAC911_UI_ReloadFailureKeepsFeed(t *testing.T) {
	h := newHarness(t)
	h.deps.Reload = func() ([]aggregator.FeedEntry, error) { return nil, errors.New("storage unavailable") }
	h.model = NewModel(h.deps)

	h.run(h.press(t, "R"))

	if len(h.model.Entries()) != 3 || h.model.Entries()[0].ID != "v1" {
		t.Error("failed reload should keep the current feed")
	}
	if !strings.Contains(h.model.View(), "storage unavailable") {
		t.Error("user should see why the reload failed")
	}
}
