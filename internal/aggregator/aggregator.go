package aggregator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
)

// Catalog supplies media items. *catalog.Client implements it.
type Catalog interface {
	FetchAll(ctx context.Context) (videos, images []catalog.MediaItem)
}

// Ledger supplies engagement state. *ledger.Ledger implements it.
type Ledger interface {
	GetOrCreate(itemID string) (ledger.Counters, error)
	Flags(itemID string) (ledger.Flags, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithRand injects the generator used for the load-time shuffle.
func WithRand(r *rand.Rand) Option {
	return func(a *Aggregator) { a.rng = r }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// Aggregator collects catalog items and ledger state into the feed.
type Aggregator struct {
	catalog Catalog
	ledger  Ledger
	rng     *rand.Rand
	logger  zerolog.Logger
	items   []FeedEntry
}

// New creates a new Aggregator instance.
func New(cat Catalog, led Ledger, opts ...Option) *Aggregator {
	a := &Aggregator{
		catalog: cat,
		ledger:  led,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  zerolog.Nop(),
		items:   make([]FeedEntry, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildFeed fetches the catalog, joins each item with its (possibly newly
// seeded) counters and flags, and shuffles once. The result replaces any
// previously built feed. Catalog failures yield fewer items, never an error;
// ledger failures abort the build.
func (a *Aggregator) BuildFeed(ctx context.Context) ([]FeedEntry, error) {
	videos, images := a.catalog.FetchAll(ctx)

	media := make([]catalog.MediaItem, 0, len(videos)+len(images))
	media = append(media, videos...)
	media = append(media, images...)

	entries := make([]FeedEntry, 0, len(media))
	for _, item := range media {
		counters, err := a.ledger.GetOrCreate(item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load engagement for %s: %w", item.ID, err)
		}
		flags, err := a.ledger.Flags(item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user actions for %s: %w", item.ID, err)
		}
		entries = append(entries, FeedEntry{MediaItem: item, Counters: counters, Flags: flags})
	}

	a.rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})

	a.logger.Info().
		Int("videos", len(videos)).
		Int("image_groups", len(images)).
		Msg("feed assembled")

	a.items = entries
	return slices.Clone(entries), nil
}

// GetFeed returns the assembled feed filtered by options, in feed order.
func (a *Aggregator) GetFeed(opts FeedOptions) []FeedEntry {
	result := make([]FeedEntry, 0, len(a.items))
	for _, item := range a.items {
		if len(opts.Kinds) > 0 && !slices.Contains(opts.Kinds, item.Kind) {
			continue
		}
		result = append(result, item)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}
