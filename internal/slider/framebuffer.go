package slider

import (
	"image"
)

// Region names one half of the frame buffer.
type Region int

const (
	RegionA Region = iota
	RegionB
)

func (r Region) Other() Region {
	if r == RegionA {
		return RegionB
	}
	return RegionA
}

func (r Region) String() string {
	if r == RegionB {
		return "B"
	}
	return "A"
}

// AddressRange locates a half in frame buffer memory the way a display
// controller layer sees it: a start offset and a line pitch, in bytes.
type AddressRange struct {
	Base   int
	Pitch  int
	Width  int
	Height int
}

// PixelRange is an inclusive range of columns (horizontal partition) or
// rows (vertical partition) of the frame buffer.
type PixelRange struct {
	Axis  Axis
	First int
	Last  int
}

func (r PixelRange) Len() int {
	return r.Last - r.First + 1
}

// Bytes encodes the range as a 16-bit big endian start/end pair, the payload
// of a column or page address command.
func (r PixelRange) Bytes() []byte {
	return []byte{byte(r.First >> 8), byte(r.First), byte(r.Last >> 8), byte(r.Last)}
}

// FrameBuffer is display memory holding two visible windows. The halves sit
// side by side for the horizontal axis and on top of each other for the
// vertical axis; switching partition reinterprets the same memory.
type FrameBuffer struct {
	size image.Point
	axis Axis
	pix  []byte
	mem  *image.RGBA
}

func NewFrameBuffer(size image.Point, axis Axis) *FrameBuffer {
	fb := &FrameBuffer{
		size: size,
		pix:  make([]byte, 2*4*size.X*size.Y),
	}
	fb.Repartition(axis)
	return fb
}

// Repartition lays the two halves out for axis. Pixel content is not moved.
func (f *FrameBuffer) Repartition(axis Axis) {
	f.axis = axis
	bounds := image.Rect(0, 0, 2*f.size.X, f.size.Y)
	if axis == Vertical {
		bounds = image.Rect(0, 0, f.size.X, 2*f.size.Y)
	}
	f.mem = &image.RGBA{
		Pix:    f.pix,
		Stride: 4 * bounds.Dx(),
		Rect:   bounds,
	}
}

func (f *FrameBuffer) Size() image.Point {
	return f.size
}

func (f *FrameBuffer) Axis() Axis {
	return f.axis
}

// Pix returns the raw memory. The slice never changes, only its layout.
func (f *FrameBuffer) Pix() []byte {
	return f.pix
}

// Memory exposes the whole buffer, both halves included.
func (f *FrameBuffer) Memory() *image.RGBA {
	return f.mem
}

func (f *FrameBuffer) origin(r Region) image.Point {
	if r == RegionA {
		return image.Point{}
	}
	return f.axis.point(f.axis.Dimension(f.size))
}

// Half returns the half r as an image sharing the frame buffer memory.
func (f *FrameBuffer) Half(r Region) *image.RGBA {
	o := f.origin(r)
	return f.mem.SubImage(image.Rectangle{Min: o, Max: o.Add(f.size)}).(*image.RGBA)
}

// Window returns the scan address of half r.
func (f *FrameBuffer) Window(r Region) AddressRange {
	o := f.origin(r)
	return AddressRange{
		Base:   f.mem.PixOffset(o.X, o.Y),
		Pitch:  f.mem.Stride,
		Width:  f.size.X,
		Height: f.size.Y,
	}
}

// ColumnRange returns the columns (or rows) of the buffer covered by half r.
func (f *FrameBuffer) ColumnRange(r Region) PixelRange {
	o := f.origin(r)
	first := o.X
	if f.axis == Vertical {
		first = o.Y
	}
	return PixelRange{
		Axis:  f.axis,
		First: first,
		Last:  first + f.axis.Dimension(f.size) - 1,
	}
}

// ScanOut copies the window w into a new image, the way a display controller
// reads memory while refreshing the panel.
func (f *FrameBuffer) ScanOut(w AddressRange) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w.Width, w.Height))
	f.ScanOutInto(w, img)
	return img
}

// ScanOutInto copies the window w into dst, which must be at least w sized.
func (f *FrameBuffer) ScanOutInto(w AddressRange, dst *image.RGBA) {
	for y := 0; y < w.Height; y++ {
		src := f.pix[w.Base+y*w.Pitch : w.Base+y*w.Pitch+4*w.Width]
		copy(dst.Pix[y*dst.Stride:], src)
	}
}
