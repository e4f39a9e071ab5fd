// Package ui is the interactive terminal feed: one card per screen, autoplay
// as the cursor moves, engagement keys and image carousels.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/carousel"
	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/display"
	"github.com/gauthierbraillon/feedreel/internal/engagement"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
	"github.com/gauthierbraillon/feedreel/internal/playback"
)

// ItemHeight is the number of viewport rows one card occupies. The viewport
// is one card tall, so only the card under the cursor is visible.
const ItemHeight = 6

// slideWidth is the carousel unit; one key press scrolls three quarters of it.
const (
	slideWidth = 1.0
	keyScroll  = 0.75
)

var toggleKeys = map[string]ledger.ActionType{
	"l": ledger.ActionLikes,
	"s": ledger.ActionSaves,
	"h": ledger.ActionShares,
	"r": ledger.ActionStreak,
	"c": ledger.ActionComments,
}

// Deps are the engine components the model drives.
type Deps struct {
	Controller *engagement.Controller
	Scheduler  *playback.Scheduler
	Watcher    *playback.ViewportWatcher
	Carousel   *carousel.Paginator
	Player     *StatusPlayer
	Open       func(url string) error

	// Reload rebuilds the feed. R is ignored when nil.
	Reload func() ([]aggregator.FeedEntry, error)
}

// Model is the bubbletea model of the feed.
type Model struct {
	deps      Deps
	formatter *display.TerminalFormatter

	entries  []aggregator.FeedEntry
	cursor   int
	playback playback.State
	comments string // item id whose comments are shown, "" when closed
	status   string
	err      error
	width    int
	height   int
}

// NewModel builds the model and registers the video entries with the
// scheduler's watch set.
func NewModel(deps Deps) Model {
	m := Model{
		deps:      deps,
		formatter: display.NewTerminalFormatter(),
		entries:   deps.Controller.Feed(),
		playback:  playback.State{Active: playback.None, Override: playback.None},
	}
	deps.Scheduler.Watch(videoIndexes(m.entries))
	return m
}

func videoIndexes(entries []aggregator.FeedEntry) []int {
	var videos []int
	for i, e := range entries {
		if e.Kind == catalog.KindVideo {
			videos = append(videos, i)
		}
	}
	return videos
}

// Init scrolls the viewport to the first card so it can autoplay.
func (m Model) Init() tea.Cmd {
	w := m.deps.Watcher
	return func() tea.Msg {
		w.Scroll(0)
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PlaybackMsg:
		m.playback = playback.State(msg)
		return m, nil

	case EntryChangedMsg:
		if msg.Index >= 0 && msg.Index < len(m.entries) {
			m.entries[msg.Index] = msg.Entry
		}
		return m, nil

	case ToggledMsg:
		switch {
		case msg.Err != nil:
			m.err = msg.Err
		case msg.Result.OpenComments:
			m.comments = msg.Result.ItemID
		default:
			m.status = strings.TrimSpace(m.formatter.FormatToggle(msg.Result))
		}
		return m, nil

	case ReloadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.entries = msg.Entries
		m.cursor = 0
		m.status = fmt.Sprintf("feed reloaded: %d items", len(msg.Entries))
		return m, nil

	case OpenedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.status = "opened " + msg.URL
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	if m.comments != "" {
		switch msg.String() {
		case "esc", "c", "q":
			m.comments = ""
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			return m, m.scrollCmd()
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			return m, m.scrollCmd()
		}
		return m, nil

	case " ", "enter":
		return m, m.OnItemTap(m.cursor)

	case "left", "right":
		delta := keyScroll
		if key == "left" {
			delta = -keyScroll
		}
		offset := float64(m.deps.Carousel.Index(m.cursor))*slideWidth + delta
		m.OnCarouselScroll(m.cursor, offset)
		return m, nil

	case "R":
		if m.deps.Reload != nil {
			return m, m.reloadCmd()
		}
		return m, nil

	case "o":
		if url := m.currentSource(); url != "" && m.deps.Open != nil {
			return m, openCmd(m.deps.Open, url)
		}
		return m, nil

	default:
		if action, ok := toggleKeys[key]; ok && len(m.entries) > 0 {
			return m, m.OnToggle(m.entries[m.cursor].ID, action)
		}
	}

	return m, nil
}

// OnItemTap returns a command toggling playback of entry index. A tap turns
// sound on. The scheduler publishes its new state, so the command must not run
// inside Update.
func (m Model) OnItemTap(index int) tea.Cmd {
	player, sched := m.deps.Player, m.deps.Scheduler
	return func() tea.Msg {
		if player != nil {
			player.Unmute(index)
		}
		sched.Tap(index)
		return nil
	}
}

// OnToggle returns a command applying action to itemID.
func (m Model) OnToggle(itemID string, action ledger.ActionType) tea.Cmd {
	ctrl := m.deps.Controller
	return func() tea.Msg {
		res, err := ctrl.Toggle(itemID, action)
		return ToggledMsg{Result: res, Err: err}
	}
}

// OnCarouselScroll moves the carousel of entry index toward offset.
func (m Model) OnCarouselScroll(index int, offset float64) {
	if index < 0 || index >= len(m.entries) {
		return
	}
	e := m.entries[index]
	if e.Kind != catalog.KindImageGroup {
		return
	}
	m.deps.Carousel.OnScroll(index, len(e.Sources), offset, slideWidth)
}

// Cursor returns the index of the entry on screen.
func (m Model) Cursor() int { return m.cursor }

// Entries returns the entries as currently rendered.
func (m Model) Entries() []aggregator.FeedEntry { return m.entries }

func (m Model) scrollCmd() tea.Cmd {
	w := m.deps.Watcher
	offset := m.cursor * ItemHeight
	return func() tea.Msg {
		w.Scroll(offset)
		return nil
	}
}

// reloadCmd rebuilds the feed and resets every index-keyed component before
// the first card of the new feed is scrolled into view.
func (m Model) reloadCmd() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		entries, err := d.Reload()
		if err != nil {
			return ReloadedMsg{Err: err}
		}

		d.Scheduler.Watch([]int{})
		if d.Player != nil {
			d.Player.SetEntries(entries)
		}
		d.Controller.SetFeed(entries)
		d.Carousel.Reset()
		d.Watcher.SetCount(0)
		d.Watcher.SetCount(len(entries))
		d.Scheduler.Watch(videoIndexes(entries))
		d.Watcher.Scroll(0)

		return ReloadedMsg{Entries: entries}
	}
}

func (m Model) currentSource() string {
	if len(m.entries) == 0 {
		return ""
	}
	e := m.entries[m.cursor]
	if len(e.Sources) == 0 {
		return ""
	}
	slide := 0
	if e.Kind == catalog.KindImageGroup {
		slide = min(m.deps.Carousel.Index(m.cursor), len(e.Sources)-1)
	}
	return e.Sources[slide]
}

func openCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return OpenedMsg{URL: url, Err: open(url)}
	}
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return m.formatter.FormatFeed(nil) + HelpText.Render("q quit") + "\n"
	}

	if m.comments != "" {
		body := fmt.Sprintf("Comments on %s\n\nComments are read-only here.\n\n%s",
			m.comments, HelpText.Render("esc close"))
		return CommentsPanel.Render(body) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.renderCard(m.cursor))
	b.WriteString("\n")

	status := fmt.Sprintf("%d/%d", m.cursor+1, len(m.entries))
	if m.status != "" {
		status += "  " + m.status
	}
	b.WriteString(StatusBar.Render(status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(ErrorText.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString(HelpText.Render("j/k scroll • space play/pause • l like • s save • h share • r streak • c comments • ←/→ photos • o open • R reload • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCard(index int) string {
	e := m.entries[index]

	lines := []string{KindBadge.Render(strings.ToUpper(string(e.Kind))) + e.ID}

	switch e.Kind {
	case catalog.KindVideo:
		lines = append(lines, m.renderPlayback(index))
	case catalog.KindImageGroup:
		slide := m.deps.Carousel.Index(index)
		if slide < len(e.Sources) {
			lines = append(lines, e.Sources[slide])
		}
		lines = append(lines, Dots.Render(m.deps.Carousel.Dots(index, len(e.Sources))))
	}

	lines = append(lines, m.renderEngagement(e))

	style := Card
	if index == m.cursor {
		style = SelectedCard
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderPlayback(index int) string {
	playing := false
	for _, i := range m.playback.Playing {
		if i == index {
			playing = true
		}
	}
	if !playing {
		return PausedText.Render("⏸ paused")
	}
	label := "▶ playing"
	if m.deps.Player != nil && m.deps.Player.Muted(index) {
		label += " (muted)"
	}
	return PlayingText.Render(label)
}

func (m Model) renderEngagement(e aggregator.FeedEntry) string {
	actions := []ledger.ActionType{
		ledger.ActionLikes,
		ledger.ActionComments,
		ledger.ActionSaves,
		ledger.ActionShares,
		ledger.ActionStreak,
	}
	parts := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		icon := display.Icon(a, e.On(a))
		if e.On(a) {
			icon = ActiveIcon.Render(icon)
		}
		parts = append(parts, fmt.Sprintf("%s %d", icon, e.Count(a)))
	}
	parts = append(parts, display.Icon(ledger.ActionChime, false))
	return strings.Join(parts, "  ")
}
