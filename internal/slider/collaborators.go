package slider

import "image"

// ImageSource is the read-only set of slides. Every image is exactly the size
// of the visible window.
type ImageSource interface {
	Count() int
	ImageAt(index int) *image.RGBA
}

// Blitter copies a width x height block from src at sp to dst at dp and
// returns once the copy is complete. Points are relative to the Min corner
// of each image.
type Blitter interface {
	CopyRegion(src *image.RGBA, sp image.Point, dst *image.RGBA, dp image.Point, width, height int) error
}

// TouchInput is sampled once per poll cycle.
type TouchInput interface {
	PollState() TouchState
}

// Panel is the display side: it scans out the active window and raises the
// refresh handler once per physical refresh.
type Panel interface {
	SetActiveWindow(w AddressRange) error
	SelectColumnRange(r PixelRange) error
	SetRefreshHandler(h func())
}
