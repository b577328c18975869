//go:build !amd64 || !cgo

package device

import "image"

type simulationWindow struct{}

func (w *simulationWindow) open(title string, size image.Point) {
}

func (w *simulationWindow) show(img image.Image) {
}

func (w *simulationWindow) close() {
}
