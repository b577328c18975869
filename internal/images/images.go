package images

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const DefaultCount = 24

var ErrNoImage = errors.New("no image found")

// ImageSet is an immutable list of slides, all sized to the visible window.
type ImageSet struct {
	size   image.Point
	images []*image.RGBA
}

// New converts every image into an RGBA copy of exactly size pixels.
func New(imgs []image.Image, size image.Point) (*ImageSet, error) {
	if len(imgs) == 0 {
		return nil, ErrNoImage
	}
	set := &ImageSet{size: size}
	for _, img := range imgs {
		set.images = append(set.images, fit(img, size))
	}
	return set, nil
}

// LoadFolder decodes the png and jpeg files of dir in lexical order.
func LoadFolder(dir string, size image.Point) (*ImageSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var imgs []image.Image
	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			logrus.Warnf("Skip image %s: %v", name, err)
			continue
		}
		imgs = append(imgs, img)
	}
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImage, dir)
	}

	logrus.Infof("%d images loaded from %s", len(imgs), dir)
	return New(imgs, size)
}

func decodeFile(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// Generate builds count placeholder slides: a colour gradient with the slide
// number in the middle.
func Generate(count int, size image.Point) *ImageSet {
	if count < 1 {
		count = 1
	}
	set := &ImageSet{size: size}
	for i := 0; i < count; i++ {
		img := image.NewRGBA(image.Rectangle{Max: size})
		from, to := palette(i, count), palette(i+count/2+1, count)
		for y := 0; y < size.Y; y++ {
			c := blend(from, to, y, size.Y)
			for x := 0; x < size.X; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		AddCenteredLabel(img, size.Y/2, fmt.Sprintf("%d / %d", i+1, count))
		set.images = append(set.images, img)
	}
	return set
}

func (s *ImageSet) Count() int {
	return len(s.images)
}

func (s *ImageSet) ImageAt(index int) *image.RGBA {
	return s.images[index]
}

func (s *ImageSet) Size() image.Point {
	return s.size
}

func fit(img image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	if img.Bounds().Size() == size {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}
	return dst
}

// palette walks the hue circle.
func palette(i, n int) color.RGBA {
	h := (i % n) * 360 / n
	x := uint8(255 * (60 - abs(h%120-60)) / 60)
	switch h / 60 {
	case 0:
		return color.RGBA{255, x, 0, 255}
	case 1:
		return color.RGBA{x, 255, 0, 255}
	case 2:
		return color.RGBA{0, 255, x, 255}
	case 3:
		return color.RGBA{0, x, 255, 255}
	case 4:
		return color.RGBA{x, 0, 255, 255}
	}
	return color.RGBA{255, 0, x, 255}
}

func blend(a, b color.RGBA, pos, length int) color.RGBA {
	mix := func(u, v uint8) uint8 {
		return uint8((int(u)*(length-pos) + int(v)*pos) / length)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
