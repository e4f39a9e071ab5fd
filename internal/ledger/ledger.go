package ledger

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/feedreel/internal/kvstore"
)

// Record keys in the backing store.
const (
	EngagementKey  = "engagement"
	UserActionsKey = "userActions"
)

// Default baseline range for seeded counters.
const (
	DefaultSeedMin int64 = 20
	DefaultSeedMax int64 = 5000
)

// ErrNotToggleable is returned by Apply for actions without a user flag.
var ErrNotToggleable = errors.New("action is not toggleable")

type engagementRecord map[string]Counters

type actionsRecord map[string]Flags

// Option configures a Ledger.
type Option func(*Ledger)

// WithRand injects the generator used for baseline counts.
func WithRand(r *rand.Rand) Option {
	return func(l *Ledger) { l.rng = r }
}

// WithSeed is WithRand with a deterministic PCG source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithRange sets the inclusive baseline range for new entries.
func WithRange(minCount, maxCount int64) Option {
	return func(l *Ledger) {
		l.min, l.max = minCount, maxCount
	}
}

// WithLogger sets the logger used for recoverable storage problems.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// Ledger is the engagement store. All methods are safe for concurrent use;
// every read-modify-write runs under a single lock.
type Ledger struct {
	mu     sync.Mutex
	store  kvstore.Store
	rng    *rand.Rand
	min    int64
	max    int64
	logger zerolog.Logger
}

// New returns a Ledger over store.
func New(store kvstore.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		min:    DefaultSeedMin,
		max:    DefaultSeedMax,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.min < 0 {
		l.min = 0
	}
	if l.max < l.min {
		l.max = l.min
	}
	return l
}

// GetOrCreate returns the counters for itemID, seeding and persisting a new
// entry the first time the id is seen. Stored values are never changed.
func (l *Ledger) GetOrCreate(itemID string) (Counters, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	engagement, err := l.loadEngagement()
	if err != nil {
		return Counters{}, err
	}
	if c, ok := engagement[itemID]; ok {
		return c, nil
	}

	c := l.seed()
	engagement[itemID] = c
	if err := l.putEngagement(engagement); err != nil {
		return Counters{}, err
	}
	l.logger.Debug().Str("item", itemID).Int64("likes", c.Likes).Msg("seeded engagement entry")
	return c, nil
}

// Lookup returns the stored counters and flags without seeding.
func (l *Ledger) Lookup(itemID string) (Counters, Flags, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	engagement, err := l.loadEngagement()
	if err != nil {
		return Counters{}, nil, false, err
	}
	actions, err := l.loadActions()
	if err != nil {
		return Counters{}, nil, false, err
	}
	c, ok := engagement[itemID]
	return c, copyFlags(actions[itemID]), ok, nil
}

// Flags returns the user's flags for itemID. Missing entries are all off.
func (l *Ledger) Flags(itemID string) (Flags, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	actions, err := l.loadActions()
	if err != nil {
		return nil, err
	}
	return copyFlags(actions[itemID]), nil
}

// Flag returns the user's 0/1 state for one action on itemID.
func (l *Ledger) Flag(itemID string, action ActionType) (uint8, error) {
	flags, err := l.Flags(itemID)
	if err != nil {
		return 0, err
	}
	return flags[action], nil
}

// Apply toggles action for itemID: an "on" flag decrements the counter
// (never below 0) and turns off, an "off" flag increments and turns on.
// Counters and flags are written in one batch, counters first.
func (l *Ledger) Apply(itemID string, action ActionType) (Counters, uint8, error) {
	if !action.Toggleable() {
		return Counters{}, 0, fmt.Errorf("%w: %s", ErrNotToggleable, action)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	engagement, err := l.loadEngagement()
	if err != nil {
		return Counters{}, 0, err
	}
	actions, err := l.loadActions()
	if err != nil {
		return Counters{}, 0, err
	}

	c, ok := engagement[itemID]
	if !ok {
		c = l.seed()
	}
	flags := actions[itemID]
	if flags == nil {
		flags = Flags{}
	}

	var flag uint8
	if flags[action] == 1 {
		c.set(action, c.Get(action)-1)
		flag = 0
	} else {
		c.set(action, c.Get(action)+1)
		flag = 1
	}
	flags[action] = flag
	engagement[itemID] = c
	actions[itemID] = flags

	engagementData, err := json.Marshal(engagement)
	if err != nil {
		return Counters{}, 0, fmt.Errorf("failed to marshal engagement: %w", err)
	}
	actionsData, err := json.Marshal(actions)
	if err != nil {
		return Counters{}, 0, fmt.Errorf("failed to marshal user actions: %w", err)
	}
	err = l.store.PutBatch(
		kvstore.Entry{Key: EngagementKey, Value: engagementData},
		kvstore.Entry{Key: UserActionsKey, Value: actionsData},
	)
	if err != nil {
		return Counters{}, 0, fmt.Errorf("failed to persist toggle: %w", err)
	}

	return c, flag, nil
}

func (l *Ledger) seed() Counters {
	return Counters{
		Likes:    l.draw(),
		Comments: l.draw(),
		Shares:   l.draw(),
		Saves:    l.draw(),
		Streak:   l.draw(),
	}
}

func (l *Ledger) draw() int64 {
	return l.min + l.rng.Int64N(l.max-l.min+1)
}

func (l *Ledger) loadEngagement() (engagementRecord, error) {
	data, err := l.store.Get(EngagementKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return engagementRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read engagement: %w", err)
	}

	var rec engagementRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec == nil {
		l.logger.Warn().Err(err).Str("record", EngagementKey).Msg("unreadable record, starting empty")
		return engagementRecord{}, nil
	}
	for id, c := range rec {
		rec[id] = c.clamped()
	}
	return rec, nil
}

func (l *Ledger) loadActions() (actionsRecord, error) {
	data, err := l.store.Get(UserActionsKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return actionsRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user actions: %w", err)
	}

	var rec actionsRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec == nil {
		l.logger.Warn().Err(err).Str("record", UserActionsKey).Msg("unreadable record, starting empty")
		return actionsRecord{}, nil
	}
	for _, flags := range rec {
		for a, v := range flags {
			if v != 1 {
				flags[a] = 0
			}
		}
	}
	return rec, nil
}

func (l *Ledger) putEngagement(rec engagementRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal engagement: %w", err)
	}
	if err := kvstore.Put(l.store, EngagementKey, data); err != nil {
		return fmt.Errorf("failed to persist engagement: %w", err)
	}
	return nil
}

func copyFlags(f Flags) Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
