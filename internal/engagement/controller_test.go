package engagement

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/kvstore"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
)

type failingApplier struct{}

func (failingApplier) Apply(string, ledger.ActionType) (ledger.Counters, uint8, error) {
	return ledger.Counters{}, 0, errors.New("disk full")
}

// newFixture seeds v1 through the ledger so feed and store agree.
func newFixture(t *testing.T) (*Controller, *ledger.Ledger) {
	t.Helper()
	led := ledger.New(kvstore.NewMemory(), ledger.WithSeed(3))
	counters, err := led.GetOrCreate("v1")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	feed := []aggregator.FeedEntry{{
		MediaItem: catalog.MediaItem{ID: "v1", Kind: catalog.KindVideo, Sources: []string{"a.mp4"}},
		Counters:  counters,
		Flags:     ledger.Flags{},
	}}
	return NewController(led, feed, zerolog.Nop()), led
}

// TestAC600_Toggle_LikeTwiceRestoresCount covers the like on / like off round trip.
func TestAC600_Toggle_LikeTwiceRestoresCount(t *testing.T) {
	c, _ := newFixture(t)
	before, _ := c.Entry(0)

	res, err := c.Toggle("v1", ledger.ActionLikes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.On || res.Count != before.Counters.Likes+1 {
		t.Errorf("user liking should see count+1 and the on icon, got %+v", res)
	}
	entry, _ := c.Entry(0)
	if !entry.On(ledger.ActionLikes) || entry.Count(ledger.ActionLikes) != before.Counters.Likes+1 {
		t.Errorf("feed entry should reflect the like, got %+v", entry)
	}

	res, err = c.Toggle("v1", ledger.ActionLikes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.On || res.Count != before.Counters.Likes {
		t.Errorf("user unliking should see the original count and the off icon, got %+v", res)
	}
}

func TestAC601_Toggle_PersistsThroughLedger(t *testing.T) {
	c, led := newFixture(t)

	if _, err := c.Toggle("v1", ledger.ActionSaves); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counters, flags, ok, err := led.Lookup("v1")
	if err != nil || !ok {
		t.Fatalf("v1 should be stored (ok=%v err=%v)", ok, err)
	}
	entry, _ := c.Entry(0)
	if counters.Saves != entry.Counters.Saves || !flags.On(ledger.ActionSaves) {
		t.Errorf("stored state should match feed, stored %+v %v feed %+v", counters, flags, entry)
	}
}

func TestAC602_Toggle_CommentsOpensView(t *testing.T) {
	c, _ := newFixture(t)
	before, _ := c.Entry(0)

	res, err := c.Toggle("v1", ledger.ActionComments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OpenComments {
		t.Error("comments should open the comment view")
	}
	after, _ := c.Entry(0)
	if after.Counters != before.Counters {
		t.Errorf("comments should not change counters, got %+v want %+v", after.Counters, before.Counters)
	}
}

func TestAC603_Toggle_DisplayOnlyAndUnknownAreIgnored(t *testing.T) {
	c, led := newFixture(t)

	for _, action := range []ledger.ActionType{ledger.ActionChime, ledger.ActionType("dance")} {
		res, err := c.Toggle("v1", action)
		if err != nil {
			t.Errorf("%s: should not be an error, got %v", action, err)
		}
		if !res.Ignored {
			t.Errorf("%s: should be reported as ignored", action)
		}
	}

	_, flags, _, _ := led.Lookup("v1")
	if len(flags) != 0 {
		t.Errorf("ignored actions should not write flags, got %v", flags)
	}
}

func TestAC604_Toggle_StorageFailureLeavesFeedUnchanged(t *testing.T) {
	feed := []aggregator.FeedEntry{{MediaItem: catalog.MediaItem{ID: "v1"}, Counters: ledger.Counters{Likes: 10}}}
	c := NewController(failingApplier{}, feed, zerolog.Nop())

	if _, err := c.Toggle("v1", ledger.ActionLikes); err == nil {
		t.Fatal("storage failure should be returned")
	}
	entry, _ := c.Entry(0)
	if entry.Counters.Likes != 10 || entry.On(ledger.ActionLikes) {
		t.Errorf("feed should be unchanged after a failed toggle, got %+v", entry)
	}
}

func TestAC605_Toggle_NotifiesListeners(t *testing.T) {
	c, _ := newFixture(t)

	var got []Change
	c.OnChange(func(ch Change) { got = append(got, ch) })

	if _, err := c.Toggle("v1", ledger.ActionShares); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("listener should run once, ran %d times", len(got))
	}
	if got[0].Index != 0 || got[0].Action != ledger.ActionShares || !got[0].Entry.On(ledger.ActionShares) {
		t.Errorf("change should describe the share toggle, got %+v", got[0])
	}
}

func TestAC606_Toggle_ActionsOnSameItemAreIndependent(t *testing.T) {
	c, _ := newFixture(t)
	before, _ := c.Entry(0)

	var wg sync.WaitGroup
	for _, a := range ledger.ToggleActions {
		wg.Add(1)
		go func(a ledger.ActionType) {
			defer wg.Done()
			if _, err := c.Toggle("v1", a); err != nil {
				t.Errorf("%s: unexpected error: %v", a, err)
			}
		}(a)
	}
	wg.Wait()

	after, _ := c.Entry(0)
	for _, a := range ledger.ToggleActions {
		if after.Count(a) != before.Count(a)+1 || !after.On(a) {
			t.Errorf("%s: each action should move by exactly one, before %d after %d", a, before.Count(a), after.Count(a))
		}
	}
}

func TestAC607_Toggle_FeedSnapshotIsACopy(t *testing.T) {
	c, _ := newFixture(t)

	snapshot := c.Feed()
	snapshot[0].Flags[ledger.ActionLikes] = 1

	if entry, _ := c.Entry(0); entry.On(ledger.ActionLikes) {
		t.Error("mutating a snapshot should not change controller state")
	}
}
