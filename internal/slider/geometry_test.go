package slider

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coverage counts how many copies write each pixel of the window.
func coverage(blits []Blit, size image.Point) []int {
	counts := make([]int, size.X*size.Y)
	for _, b := range blits {
		for y := b.DstOffset.Y; y < b.DstOffset.Y+b.Height; y++ {
			for x := b.DstOffset.X; x < b.DstOffset.X+b.Width; x++ {
				counts[y*size.X+x]++
			}
		}
	}
	return counts
}

func TestTileCoversWindowExactlyOnce(t *testing.T) {
	size := image.Pt(40, 24)
	for _, axis := range []Axis{Horizontal, Vertical} {
		dim := axis.Dimension(size)
		for offset := -dim + 1; offset < dim; offset++ {
			blits := Tile(axis, size, offset)
			for i, c := range coverage(blits, size) {
				require.Equal(t, 1, c, "%s offset %d pixel %d", axis, offset, i)
			}

			sum := 0
			for _, b := range blits {
				along := b.Width
				if axis == Vertical {
					along = b.Height
				}
				sum += along
				assert.True(t, image.Rect(0, 0, b.Width, b.Height).Add(b.SrcOffset).In(image.Rectangle{Max: size}),
					"%s offset %d source window %v out of image", axis, offset, b)
			}
			assert.Equal(t, dim, sum, "%s offset %d", axis, offset)
		}
	}
}

func TestTileFullPanel(t *testing.T) {
	size := image.Pt(800, 480)

	blits := Tile(Horizontal, size, 130)
	require.Len(t, blits, 2)
	assert.Equal(t, Blit{Source: SourceCurrent, DstOffset: image.Pt(130, 0), Width: 670, Height: 480}, blits[0])
	assert.Equal(t, Blit{Source: SourceNext, SrcOffset: image.Pt(670, 0), Width: 130, Height: 480}, blits[1])

	blits = Tile(Horizontal, size, -200)
	require.Len(t, blits, 2)
	assert.Equal(t, Blit{Source: SourceCurrent, SrcOffset: image.Pt(200, 0), Width: 600, Height: 480}, blits[0])
	assert.Equal(t, Blit{Source: SourcePrevious, DstOffset: image.Pt(600, 0), Width: 200, Height: 480}, blits[1])

	blits = Tile(Vertical, size, 100)
	require.Len(t, blits, 2)
	assert.Equal(t, Blit{Source: SourceCurrent, DstOffset: image.Pt(0, 100), Width: 800, Height: 380}, blits[0])
	assert.Equal(t, Blit{Source: SourceNext, SrcOffset: image.Pt(0, 380), Width: 800, Height: 100}, blits[1])

	assert.Equal(t, []Blit{{Source: SourceCurrent, Width: 800, Height: 480}}, Tile(Vertical, size, 0))
}

func TestTileClampsOffset(t *testing.T) {
	size := image.Pt(800, 480)
	assert.Equal(t, Tile(Horizontal, size, 799), Tile(Horizontal, size, 2000))
	assert.Equal(t, Tile(Vertical, size, -479), Tile(Vertical, size, -480))
}

func TestAnimation(t *testing.T) {
	assert.Equal(t, []int{-40, -10, 0, 0}, Animation(-70, 30, 2))
	assert.Equal(t, []int{30, 20, 10, 0, 0}, Animation(40, 10, 2))
	assert.Equal(t, []int{0}, Animation(0, 10, 1))
	assert.Equal(t, []int{0, 0}, Animation(-1, 30, 2))

	for _, o := range Animation(-670, 30, 2) {
		assert.True(t, o <= 0 && o > -670)
	}
}
