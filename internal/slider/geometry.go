package slider

import "image"

// Source tells which image of the set a Blit reads from, relative to the
// current index.
type Source int

const (
	SourceCurrent Source = iota
	SourceNext
	SourcePrevious
)

func (s Source) String() string {
	switch s {
	case SourceNext:
		return "next"
	case SourcePrevious:
		return "previous"
	}
	return "current"
}

// delta is the index displacement of the source.
func (s Source) delta() int {
	switch s {
	case SourceNext:
		return 1
	case SourcePrevious:
		return -1
	}
	return 0
}

// Blit is one block copy of a composite frame. Offsets are relative to the
// origin of the source image and of the destination half.
type Blit struct {
	Source    Source
	SrcOffset image.Point
	DstOffset image.Point
	Width     int
	Height    int
}

// Tile returns the copies composing a frame where the current image is
// displaced by offset along the axis. A positive offset opens a gap at the
// leading edge that the next image fills, a negative one opens a gap at the
// trailing edge that the previous image fills. The copies always cover the
// window exactly once.
func Tile(axis Axis, size image.Point, offset int) []Blit {
	dim := axis.Dimension(size)
	offset = ClampOffset(offset, dim)

	if offset == 0 {
		return []Blit{{Source: SourceCurrent, Width: size.X, Height: size.Y}}
	}

	var current, neighbour Blit
	if offset > 0 {
		current.Source = SourceCurrent
		current.DstOffset = axis.point(offset)
		current.Width, current.Height = axis.extent(dim-offset, size)

		neighbour.Source = SourceNext
		neighbour.SrcOffset = axis.point(dim - offset)
		neighbour.Width, neighbour.Height = axis.extent(offset, size)
	} else {
		current.Source = SourceCurrent
		current.SrcOffset = axis.point(-offset)
		current.Width, current.Height = axis.extent(dim+offset, size)

		neighbour.Source = SourcePrevious
		neighbour.DstOffset = axis.point(dim + offset)
		neighbour.Width, neighbour.Height = axis.extent(-offset, size)
	}
	return []Blit{current, neighbour}
}

// Animation returns the offsets of a slide from `from` back to rest, moving by
// step each frame and ending with settle frames at offset 0.
func Animation(from, step, settle int) []int {
	var offsets []int
	switch {
	case from < 0:
		for o := from + step; o < 0; o += step {
			offsets = append(offsets, o)
		}
	case from > 0:
		for o := from - step; o > 0; o -= step {
			offsets = append(offsets, o)
		}
	}
	for i := 0; i < settle; i++ {
		offsets = append(offsets, 0)
	}
	return offsets
}
