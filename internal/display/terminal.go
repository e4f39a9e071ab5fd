// Package display provides terminal output formatting for feedreel.
package display

import (
	"fmt"
	"strings"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/engagement"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
)

const separator = " • "

const maxURLLen = 72

// icons holds the off and on variant of each action.
var icons = map[ledger.ActionType][2]string{
	ledger.ActionLikes:    {"♡", "♥"},
	ledger.ActionComments: {"💬", "💬"},
	ledger.ActionSaves:    {"□", "■"},
	ledger.ActionShares:   {"△", "▲"},
	ledger.ActionStreak:   {"☆", "★"},
	ledger.ActionChime:    {"♪", "♪"},
}

// displayOrder is the order counters appear in, matching the side rail.
var displayOrder = []ledger.ActionType{
	ledger.ActionLikes,
	ledger.ActionComments,
	ledger.ActionSaves,
	ledger.ActionShares,
	ledger.ActionStreak,
}

// Icon returns the on or off variant for action.
func Icon(action ledger.ActionType, on bool) string {
	pair, ok := icons[action]
	if !ok {
		return "?"
	}
	if on {
		return pair[1]
	}
	return pair[0]
}

// TerminalFormatter formats feed entries for terminal display.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// FormatItem formats a single feed entry for display.
func (f *TerminalFormatter) FormatItem(entry aggregator.FeedEntry) string {
	var lines []string

	lines = append(lines, f.FormatHeader(entry))
	lines = append(lines, "  "+f.FormatEngagement(entry.Counters, entry.Flags))

	for _, src := range entry.Sources {
		if src != "" {
			lines = append(lines, "  "+f.TruncateText(src, maxURLLen))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatHeader returns "[KIND] id", with the photo count for image groups.
func (f *TerminalFormatter) FormatHeader(entry aggregator.FeedEntry) string {
	header := fmt.Sprintf("[%s] %s", strings.ToUpper(string(entry.Kind)), entry.ID)
	if entry.Kind == catalog.KindImageGroup {
		header += fmt.Sprintf(" (%s)", pluralize(len(entry.Sources), "photo"))
	}
	return header
}

// FormatEngagement renders every counter with its icon state, then the
// display-only chime.
func (f *TerminalFormatter) FormatEngagement(c ledger.Counters, flags ledger.Flags) string {
	parts := make([]string, 0, len(displayOrder)+1)
	for _, a := range displayOrder {
		parts = append(parts, fmt.Sprintf("%s %d %s", Icon(a, flags.On(a)), c.Get(a), a))
	}
	parts = append(parts, Icon(ledger.ActionChime, false))
	return strings.Join(parts, separator)
}

// FormatFeed formats multiple feed entries for display.
func (f *TerminalFormatter) FormatFeed(entries []aggregator.FeedEntry) string {
	if len(entries) == 0 {
		return "No items to display.\n"
	}

	var formatted []string
	for _, entry := range entries {
		formatted = append(formatted, f.FormatItem(entry))
	}

	return strings.Join(formatted, "\n---\n\n")
}

// FormatToggle describes the outcome of a toggle.
func (f *TerminalFormatter) FormatToggle(res engagement.Result) string {
	switch {
	case res.OpenComments:
		return fmt.Sprintf("%s comments on %s are read-only\n", Icon(ledger.ActionComments, false), res.ItemID)
	case res.Ignored:
		return fmt.Sprintf("%s cannot be toggled\n", res.Action)
	}
	state := "off"
	if res.On {
		state = "on"
	}
	return fmt.Sprintf("%s %d %s (%s)\n", Icon(res.Action, res.On), res.Count, res.Action, state)
}

// FormatStats describes the stored state of one item.
func (f *TerminalFormatter) FormatStats(itemID string, c ledger.Counters, flags ledger.Flags, found bool) string {
	if !found {
		return fmt.Sprintf("No engagement recorded for %s.\n", itemID)
	}
	return itemID + "\n  " + f.FormatEngagement(c, flags) + "\n"
}

// pluralize returns "N unit" or "N units" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return text[:maxLen-3] + "..."
}
