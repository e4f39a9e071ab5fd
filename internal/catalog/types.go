// Package catalog turns the external media catalog into feed-ready MediaItems.
//
// Fetch failures never propagate: a failed source yields an empty slice and a
// warning, so the feed is built from whatever succeeded.
package catalog

import "fmt"

// Kind identifies the type of a media item.
type Kind string

const (
	KindVideo      Kind = "video"
	KindImageGroup Kind = "image-group"
)

// MediaItem is one immutable catalog entry.
type MediaItem struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	Sources []string `json:"sources"`
}

// ImageGroupID is the deterministic id of the image batch at index.
func ImageGroupID(index int) string {
	return fmt.Sprintf("post-%d", index)
}
