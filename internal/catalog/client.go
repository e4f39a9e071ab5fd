package catalog

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/feedreel/internal/pexels"
)

// DefaultBatchSize is the number of photos per image group.
const DefaultBatchSize = 3

// Source is the raw catalog API. *pexels.Client implements it.
type Source interface {
	FetchVideos(ctx context.Context, query string, perPage int) ([]pexels.Video, error)
	FetchCurated(ctx context.Context, perPage int) ([]pexels.Photo, error)
}

// Options configures what the Client asks the Source for.
type Options struct {
	VideoQuery string
	VideoCount int
	ImageCount int
	BatchSize  int
	Logger     zerolog.Logger
}

// DefaultOptions mirrors the catalog requests the feed was designed around.
func DefaultOptions() Options {
	return Options{
		VideoQuery: "nature",
		VideoCount: 5,
		ImageCount: 9,
		BatchSize:  DefaultBatchSize,
		Logger:     zerolog.Nop(),
	}
}

// Client fetches typed media items from a Source.
type Client struct {
	source Source
	opts   Options
}

// NewClient returns a Client over source.
func NewClient(source Source, opts Options) *Client {
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Client{source: source, opts: opts}
}

// FetchVideos returns one video item per catalog video that has a playable rendition.
func (c *Client) FetchVideos(ctx context.Context) []MediaItem {
	videos, err := c.source.FetchVideos(ctx, c.opts.VideoQuery, c.opts.VideoCount)
	if err != nil {
		c.opts.Logger.Warn().Err(err).Str("source", "videos").Msg("catalog fetch failed")
		return []MediaItem{}
	}

	items := make([]MediaItem, 0, len(videos))
	for _, v := range videos {
		link := firstLink(v.Files)
		if v.ID == "" || link == "" {
			c.opts.Logger.Debug().Str("video", v.ID).Msg("skipping video without id or rendition")
			continue
		}
		items = append(items, MediaItem{
			ID:      v.ID,
			Kind:    KindVideo,
			Sources: []string{link},
		})
	}
	return items
}

// FetchImages returns curated photos grouped into image-group items of BatchSize.
// The last group may be smaller.
func (c *Client) FetchImages(ctx context.Context) []MediaItem {
	photos, err := c.source.FetchCurated(ctx, c.opts.ImageCount)
	if err != nil {
		c.opts.Logger.Warn().Err(err).Str("source", "images").Msg("catalog fetch failed")
		return []MediaItem{}
	}

	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.Large != "" {
			urls = append(urls, p.Large)
		}
	}
	return group(urls, c.opts.BatchSize)
}

// FetchAll issues both fetches concurrently and waits for both.
func (c *Client) FetchAll(ctx context.Context) (videos, images []MediaItem) {
	var g errgroup.Group

	g.Go(func() error {
		videos = c.FetchVideos(ctx)
		return nil
	})
	g.Go(func() error {
		images = c.FetchImages(ctx)
		return nil
	})

	_ = g.Wait() // both goroutines report failures as empty results

	return videos, images
}

func group(urls []string, size int) []MediaItem {
	items := make([]MediaItem, 0, (len(urls)+size-1)/size)
	for start := 0; start < len(urls); start += size {
		end := min(start+size, len(urls))
		items = append(items, MediaItem{
			ID:      ImageGroupID(len(items)),
			Kind:    KindImageGroup,
			Sources: append([]string(nil), urls[start:end]...),
		})
	}
	return items
}

func firstLink(files []pexels.VideoFile) string {
	for _, f := range files {
		if f.Link != "" {
			return f.Link
		}
	}
	return ""
}
