package slider

import (
	"fmt"
	"image"
	"strings"
)

// Axis is the direction along which images slide.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("slider: unknown axis %q", s)
}

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Toggle returns the other axis.
func (a Axis) Toggle() Axis {
	if a == Vertical {
		return Horizontal
	}
	return Vertical
}

// Dimension returns the visible size along the axis.
func (a Axis) Dimension(size image.Point) int {
	if a == Vertical {
		return size.Y
	}
	return size.X
}

// point builds a point displaced by v along the axis.
func (a Axis) point(v int) image.Point {
	if a == Vertical {
		return image.Pt(0, v)
	}
	return image.Pt(v, 0)
}

// extent returns the width and height of a strip of length along the axis
// spanning the full window across it.
func (a Axis) extent(along int, size image.Point) (int, int) {
	if a == Vertical {
		return size.X, along
	}
	return along, size.Y
}

// Wrap maps any index onto [0, n). n must be at least 1.
func Wrap(index, n int) int {
	m := index % n
	if m < 0 {
		m += n
	}
	return m
}

// ClampOffset keeps an offset strictly inside (-dim, dim).
func ClampOffset(offset, dim int) int {
	switch {
	case offset >= dim:
		return dim - 1
	case offset <= -dim:
		return -(dim - 1)
	}
	return offset
}
