package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePng(t *testing.T, filename string, size image.Point, c color.RGBA) {
	img := image.NewRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(filename)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestGenerate(t *testing.T) {
	size := image.Pt(80, 40)
	set := Generate(DefaultCount, size)

	require.Equal(t, DefaultCount, set.Count())
	assert.Equal(t, size, set.Size())
	for i := 0; i < set.Count(); i++ {
		assert.Equal(t, image.Rectangle{Max: size}, set.ImageAt(i).Bounds())
	}
	assert.NotEqual(t, set.ImageAt(0).RGBAAt(0, 0), set.ImageAt(1).RGBAAt(0, 0))
}

func TestGenerateAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, Generate(0, image.Pt(10, 10)).Count())
}

func TestLoadFolder(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	writePng(t, filepath.Join(dir, "b.png"), image.Pt(40, 20), blue)
	writePng(t, filepath.Join(dir, "a.PNG"), image.Pt(20, 10), red)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))

	set, err := LoadFolder(dir, image.Pt(40, 20))
	require.NoError(t, err)
	require.Equal(t, 2, set.Count())

	assert.Equal(t, red, set.ImageAt(0).RGBAAt(10, 5), "a.PNG comes first and is scaled up")
	assert.Equal(t, image.Pt(40, 20), set.ImageAt(0).Bounds().Size())
	assert.Equal(t, blue, set.ImageAt(1).RGBAAt(39, 19))
}

func TestLoadFolderEmpty(t *testing.T) {
	_, err := LoadFolder(t.TempDir(), image.Pt(10, 10))
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = LoadFolder(filepath.Join(t.TempDir(), "missing"), image.Pt(10, 10))
	assert.Error(t, err)
}

func TestNewCopiesSubImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	src.SetRGBA(15, 5, color.RGBA{1, 2, 3, 255})
	sub := src.SubImage(image.Rect(10, 0, 20, 10))

	set, err := New([]image.Image{sub}, image.Pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), set.ImageAt(0).Bounds())
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, set.ImageAt(0).RGBAAt(5, 5))

	_, err = New(nil, image.Pt(10, 10))
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestAddCenteredLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 24))
	AddCenteredLabel(img, 16, "12")

	lit := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 64; x++ {
			if img.RGBAAt(x, y) == col {
				lit++
				assert.InDelta(t, 32, x, float64(LabelWidth("12")))
			}
		}
	}
	assert.NotZero(t, lit)
}
