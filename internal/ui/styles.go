package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the feed view.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
)

// SelectedCard frames the entry under the cursor.
var SelectedCard = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// Card frames every other entry.
var Card = lipgloss.NewStyle().
	Border(lipgloss.HiddenBorder()).
	Padding(0, 1)

// KindBadge labels the media kind.
var KindBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// PlayingText marks the playing entry.
var PlayingText = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// PausedText marks paused entries.
var PausedText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ActiveIcon highlights an engagement icon that is toggled on.
var ActiveIcon = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// Dots renders the carousel indicator.
var Dots = lipgloss.NewStyle().
	Foreground(colorHighlight)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// HelpText style for key hints.
var HelpText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorText style for error messages.
var ErrorText = lipgloss.NewStyle().
	Foreground(colorError)

// CommentsPanel frames the read-only comments view.
var CommentsPanel = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorHighlight).
	Padding(1, 2)
