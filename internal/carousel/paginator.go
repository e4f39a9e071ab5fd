// Package carousel pages through the photos of an image group.
package carousel

import (
	"strings"
	"sync"
)

// Snap is the aligned scroll target after a slide change.
type Snap struct {
	Index  int
	Offset float64
}

type slideState struct {
	index    int
	last     float64
	seenLast bool
}

// Paginator tracks the current slide of every carousel in the feed.
type Paginator struct {
	mu     sync.Mutex
	slides map[int]*slideState
}

// New returns an empty Paginator.
func New() *Paginator {
	return &Paginator{slides: make(map[int]*slideState)}
}

// OnScroll moves the carousel of item itemIndex by at most one slide when
// offset passes the half-slide point on either side of the current slide.
// It returns the snap target and true when the slide changed.
func (p *Paginator) OnScroll(itemIndex, totalSlides int, offset, slideWidth float64) (Snap, bool) {
	if totalSlides <= 0 || slideWidth <= 0 {
		return Snap{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.slides[itemIndex]
	if st == nil {
		st = &slideState{}
		p.slides[itemIndex] = st
	}
	if st.seenLast && st.last == offset {
		return Snap{}, false
	}
	st.last, st.seenLast = offset, true

	cur := clamp(st.index, totalSlides)
	next := cur
	half := slideWidth / 2
	switch base := float64(cur) * slideWidth; {
	case offset > base+half:
		next = cur + 1
	case offset < base-half:
		next = cur - 1
	}
	next = clamp(next, totalSlides)
	st.index = next

	if next == cur {
		return Snap{}, false
	}
	return Snap{Index: next, Offset: float64(next) * slideWidth}, true
}

// Index returns the current slide of itemIndex, 0 if it never moved.
func (p *Paginator) Index(itemIndex int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st := p.slides[itemIndex]; st != nil {
		return st.index
	}
	return 0
}

// Reset forgets all carousel positions, e.g. after the feed reloads.
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slides = make(map[int]*slideState)
}

// Dots renders the slide indicator, e.g. "○●○" for slide 1 of 3.
func (p *Paginator) Dots(itemIndex, totalSlides int) string {
	if totalSlides <= 0 {
		return ""
	}
	cur := clamp(p.Index(itemIndex), totalSlides)

	var b strings.Builder
	for i := 0; i < totalSlides; i++ {
		if i == cur {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}

func clamp(i, total int) int {
	return max(0, min(i, total-1))
}
