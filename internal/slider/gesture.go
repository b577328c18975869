package slider

import "image"

// TouchState is one sample of the touch controller.
type TouchState struct {
	Detected bool
	Position image.Point
}

// Coordinate returns the touch position along axis.
func (t TouchState) Coordinate(axis Axis) int {
	if axis == Vertical {
		return t.Position.Y
	}
	return t.Position.X
}

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureStart
	GestureDrag
	GestureRelease
)

func (k GestureKind) String() string {
	switch k {
	case GestureStart:
		return "start"
	case GestureDrag:
		return "drag"
	case GestureRelease:
		return "release"
	}
	return "none"
}

// Gesture is what one poll cycle means for the scroll state.
type Gesture struct {
	Kind  GestureKind
	Delta int
}

type ReleaseKind int

const (
	Snap ReleaseKind = iota
	Flick
)

func (k ReleaseKind) String() string {
	if k == Flick {
		return "flick"
	}
	return "snap"
}

// Classify tells a flick (|delta| > threshold) from a snap.
func Classify(delta, threshold int) ReleaseKind {
	if delta > threshold || -delta > threshold {
		return Flick
	}
	return Snap
}

// ScrollState is the slider position and the gesture in progress.
type ScrollState struct {
	Index int
	Axis  Axis

	dragging   bool
	dragOrigin int
}

// Dragging reports whether a gesture is active.
func (s *ScrollState) Dragging() bool {
	return s.dragging
}

// DragOrigin returns the first coordinate of the active gesture.
func (s *ScrollState) DragOrigin() (int, bool) {
	return s.dragOrigin, s.dragging
}

// Observe feeds one touch sample and reports the resulting gesture step.
func (s *ScrollState) Observe(t TouchState) Gesture {
	c := t.Coordinate(s.Axis)
	switch {
	case t.Detected && !s.dragging:
		s.dragging = true
		s.dragOrigin = c
		return Gesture{Kind: GestureStart}
	case t.Detected:
		return Gesture{Kind: GestureDrag, Delta: c - s.dragOrigin}
	case s.dragging:
		s.dragging = false
		return Gesture{Kind: GestureRelease, Delta: c - s.dragOrigin}
	}
	return Gesture{Kind: GestureNone}
}

// Cancel drops the active gesture without a release.
func (s *ScrollState) Cancel() {
	s.dragging = false
	s.dragOrigin = 0
}
