package playback

import "sync"

// VisibilityEvent reports that item Index entered or left the viewport.
// Ratio is the visible fraction at the time of the transition.
type VisibilityEvent struct {
	Index   int
	Ratio   float64
	Entered bool
}

// VisibilityWatcher emits visibility transitions. The channel closes when
// the watcher is closed.
type VisibilityWatcher interface {
	Events() <-chan VisibilityEvent
}

// ManualWatcher is a VisibilityWatcher fed by explicit Enter and Exit calls.
type ManualWatcher struct {
	ch     chan VisibilityEvent
	mu     sync.Mutex
	closed bool
}

// NewManualWatcher returns a watcher whose channel holds up to buffer events.
func NewManualWatcher(buffer int) *ManualWatcher {
	return &ManualWatcher{ch: make(chan VisibilityEvent, buffer)}
}

func (w *ManualWatcher) Events() <-chan VisibilityEvent { return w.ch }

// Enter emits an enter event. It blocks while the buffer is full.
func (w *ManualWatcher) Enter(index int, ratio float64) {
	w.send(VisibilityEvent{Index: index, Ratio: ratio, Entered: true})
}

// Exit emits an exit event.
func (w *ManualWatcher) Exit(index int) {
	w.send(VisibilityEvent{Index: index})
}

// Close closes the event channel. Later sends are dropped.
func (w *ManualWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}

func (w *ManualWatcher) send(ev VisibilityEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.ch <- ev
	}
}

// ViewportWatcher derives visibility transitions from a scroll offset over a
// column of equally tall items.
type ViewportWatcher struct {
	ManualWatcher

	itemHeight int
	viewHeight int
	threshold  float64

	stateMu sync.Mutex
	count   int
	visible map[int]bool
}

// NewViewportWatcher returns a watcher over count items of itemHeight rows
// seen through a viewport of viewHeight rows.
func NewViewportWatcher(count, itemHeight, viewHeight int, threshold float64, buffer int) *ViewportWatcher {
	if itemHeight < 1 {
		itemHeight = 1
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &ViewportWatcher{
		ManualWatcher: ManualWatcher{ch: make(chan VisibilityEvent, buffer)},
		itemHeight:    itemHeight,
		viewHeight:    viewHeight,
		threshold:     threshold,
		count:         count,
		visible:       make(map[int]bool),
	}
}

// SetCount changes the number of items. Items past the new end that were
// visible get an exit event.
func (w *ViewportWatcher) SetCount(count int) {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	w.count = count
	for i := range w.visible {
		if i >= count {
			delete(w.visible, i)
			w.Exit(i)
		}
	}
}

// Scroll moves the viewport top to offset rows and emits an event for each
// item that crossed the threshold.
func (w *ViewportWatcher) Scroll(offset int) {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	for i := 0; i < w.count; i++ {
		ratio := w.ratio(i, offset)
		switch {
		case ratio >= w.threshold && !w.visible[i]:
			w.visible[i] = true
			w.Enter(i, ratio)
		case ratio < w.threshold && w.visible[i]:
			delete(w.visible, i)
			w.Exit(i)
		}
	}
}

// Visible reports whether index is currently above the threshold.
func (w *ViewportWatcher) Visible(index int) bool {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return w.visible[index]
}

func (w *ViewportWatcher) ratio(i, offset int) float64 {
	top := i * w.itemHeight
	bottom := top + w.itemHeight
	overlap := min(bottom, offset+w.viewHeight) - max(top, offset)
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / float64(w.itemHeight)
}
