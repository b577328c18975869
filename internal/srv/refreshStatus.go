package srv

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/jypelle/dsislider/internal/images"
	"github.com/jypelle/dsislider/internal/slider"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) refreshStatus(snapshot slider.Snapshot) {
	logrus.Debugf("Display status")
	s.statusDisplayDevice.ShowImage(statusImage(s.statusDisplayDevice.Bounds(), snapshot))
}

func statusImage(bounds image.Rectangle, snapshot slider.Snapshot) *image.RGBA {
	img := image.NewRGBA(bounds)
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)

	images.AddCenteredLabel(img, 20, fmt.Sprintf("image %d/%d", snapshot.Index+1, snapshot.Count))
	images.AddCenteredLabel(img, 38, snapshot.Axis.String())

	// Progress bar
	width := bounds.Dx() - 24
	draw.Draw(img, image.Rect(12, 48, 12+width, 49), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	if snapshot.Count > 0 {
		step := width / snapshot.Count
		if step < 2 {
			step = 2
		}
		x := 12 + snapshot.Index*width/snapshot.Count
		draw.Draw(img, image.Rect(x, 45, x+step, 52), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	}

	if snapshot.LastError != "" {
		images.AddLabel(img, 2, 62, "!")
	}
	return img
}
