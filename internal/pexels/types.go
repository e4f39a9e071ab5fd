// Package pexels provides a client for the Pexels video and photo APIs.
//
// This package enables feedreel to:
// - Search videos and read their renditions
// - Read the curated photo listing
package pexels

// Video is one video search result.
type Video struct {
	ID       string
	URL      string
	Image    string
	Duration int
	Author   string
	Files    []VideoFile
}

// VideoFile is one rendition of a video.
type VideoFile struct {
	Link    string
	Quality string
	Width   int
	Height  int
}

// Photo is one curated photo.
type Photo struct {
	ID           string
	Photographer string
	Alt          string
	Large        string
	Original     string
}
