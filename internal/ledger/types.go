// Package ledger keeps the simulated engagement counters and the current user's
// toggle flags for every feed item, persisted in a kvstore.Store.
package ledger

// ActionType names an engagement counter.
type ActionType string

const (
	ActionLikes    ActionType = "likes"
	ActionComments ActionType = "comments"
	ActionSaves    ActionType = "saves"
	ActionShares   ActionType = "shares"
	ActionStreak   ActionType = "streak"
	// ActionChime is shown next to the counters but has no user toggle and no stored count.
	ActionChime ActionType = "chime"
)

// ToggleActions lists the actions a user can switch on and off, in display order.
var ToggleActions = []ActionType{ActionLikes, ActionSaves, ActionShares, ActionStreak}

// ParseAction maps a name to a known ActionType.
func ParseAction(s string) (ActionType, bool) {
	switch a := ActionType(s); a {
	case ActionLikes, ActionComments, ActionSaves, ActionShares, ActionStreak, ActionChime:
		return a, true
	}
	return "", false
}

// Toggleable reports whether the action has an on/off user flag.
func (a ActionType) Toggleable() bool {
	switch a {
	case ActionLikes, ActionSaves, ActionShares, ActionStreak:
		return true
	}
	return false
}

// Counters holds the engagement counts of one item. Values are never negative.
type Counters struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Saves    int64 `json:"saves"`
	Streak   int64 `json:"streak"`
}

// Get returns the count for a; unknown and display-only actions read as 0.
func (c Counters) Get(a ActionType) int64 {
	switch a {
	case ActionLikes:
		return c.Likes
	case ActionComments:
		return c.Comments
	case ActionShares:
		return c.Shares
	case ActionSaves:
		return c.Saves
	case ActionStreak:
		return c.Streak
	}
	return 0
}

// With returns a copy of c with the count for a replaced (clamped at 0).
func (c Counters) With(a ActionType, v int64) Counters {
	c.set(a, v)
	return c
}

func (c *Counters) set(a ActionType, v int64) {
	if v < 0 {
		v = 0
	}
	switch a {
	case ActionLikes:
		c.Likes = v
	case ActionComments:
		c.Comments = v
	case ActionShares:
		c.Shares = v
	case ActionSaves:
		c.Saves = v
	case ActionStreak:
		c.Streak = v
	}
}

func (c Counters) clamped() Counters {
	for _, a := range []ActionType{ActionLikes, ActionComments, ActionShares, ActionSaves, ActionStreak} {
		c.set(a, c.Get(a))
	}
	return c
}

// Flags maps an action to the user's 0/1 state for one item.
type Flags map[ActionType]uint8

// On reports whether a is toggled on.
func (f Flags) On(a ActionType) bool {
	return f[a] == 1
}
