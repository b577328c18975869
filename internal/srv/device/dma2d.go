package device

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/image/draw"
)

var ErrTransferBounds = errors.New("dma2d: transfer out of bounds")

// Dma2d is a memory to memory block copy engine. Unlike draw.Draw it refuses
// rectangles that do not fit instead of clipping them.
type Dma2d struct {
	transfers atomic.Uint64
	failures  atomic.Uint64
}

func NewDma2d() *Dma2d {
	return &Dma2d{}
}

func (d *Dma2d) CopyRegion(src *image.RGBA, sp image.Point, dst *image.RGBA, dp image.Point, width, height int) error {
	if width <= 0 || height <= 0 {
		d.failures.Add(1)
		return fmt.Errorf("%w: empty %dx%d block", ErrTransferBounds, width, height)
	}

	block := image.Rect(0, 0, width, height)
	sr := block.Add(src.Rect.Min.Add(sp))
	if !sr.In(src.Rect) {
		d.failures.Add(1)
		return fmt.Errorf("%w: source %v outside %v", ErrTransferBounds, sr, src.Rect)
	}
	dr := block.Add(dst.Rect.Min.Add(dp))
	if !dr.In(dst.Rect) {
		d.failures.Add(1)
		return fmt.Errorf("%w: destination %v outside %v", ErrTransferBounds, dr, dst.Rect)
	}

	draw.Draw(dst, dr, src, sr.Min, draw.Src)
	d.transfers.Add(1)
	return nil
}

// Stats returns the number of completed and refused transfers.
func (d *Dma2d) Stats() (transfers, failures uint64) {
	return d.transfers.Load(), d.failures.Load()
}
