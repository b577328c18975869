package slider

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameBufferHorizontalPartition(t *testing.T) {
	fb := NewFrameBuffer(image.Pt(800, 480), Horizontal)

	assert.Equal(t, image.Rect(0, 0, 800, 480), fb.Half(RegionA).Rect)
	assert.Equal(t, image.Rect(800, 0, 1600, 480), fb.Half(RegionB).Rect)
	assert.Equal(t, AddressRange{Base: 0, Pitch: 1600 * 4, Width: 800, Height: 480}, fb.Window(RegionA))
	assert.Equal(t, AddressRange{Base: 800 * 4, Pitch: 1600 * 4, Width: 800, Height: 480}, fb.Window(RegionB))
	assert.Equal(t, PixelRange{Axis: Horizontal, First: 0, Last: 799}, fb.ColumnRange(RegionA))
	assert.Equal(t, PixelRange{Axis: Horizontal, First: 800, Last: 1599}, fb.ColumnRange(RegionB))
}

func TestFrameBufferVerticalPartition(t *testing.T) {
	fb := NewFrameBuffer(image.Pt(800, 480), Horizontal)
	fb.Repartition(Vertical)

	assert.Equal(t, image.Rect(0, 480, 800, 960), fb.Half(RegionB).Rect)
	assert.Equal(t, AddressRange{Base: 480 * 800 * 4, Pitch: 800 * 4, Width: 800, Height: 480}, fb.Window(RegionB))
	assert.Equal(t, PixelRange{Axis: Vertical, First: 480, Last: 959}, fb.ColumnRange(RegionB))
}

func TestFrameBufferScanOut(t *testing.T) {
	fb := NewFrameBuffer(image.Pt(4, 2), Horizontal)
	red := color.RGBA{R: 255, A: 255}
	fb.Half(RegionB).SetRGBA(fb.Half(RegionB).Rect.Min.X+3, 1, red)

	out := fb.ScanOut(fb.Window(RegionB))
	assert.Equal(t, red, out.RGBAAt(3, 1))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(0, 0))

	out = fb.ScanOut(fb.Window(RegionA))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(3, 1))
}

func TestPixelRangeBytes(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x8F}, PixelRange{First: 0, Last: 399}.Bytes())
	assert.Equal(t, []byte{0x01, 0x90, 0x03, 0x1F}, PixelRange{First: 400, Last: 799}.Bytes())
	assert.Equal(t, 400, PixelRange{First: 400, Last: 799}.Len())
}
