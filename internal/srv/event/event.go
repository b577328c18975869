package event

import (
	"image"

	"github.com/jypelle/dsislider/apimodel"
	"github.com/jypelle/dsislider/internal/slider"
)

// Slider
type SliderEvent struct {
	Snapshot slider.Snapshot
}

// Buttons
type ButtonId int

const (
	ORIENTATION_BUTTON ButtonId = iota
)

type ButtonEventType int

const (
	PRESS_EVENT_TYPE ButtonEventType = iota
	RELEASE_EVENT_TYPE
)

type ButtonEvent struct {
	ButtonId        ButtonId
	ButtonEventType ButtonEventType
	PressStepCount  int64
}

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

type ApiEventTouchData struct {
	Touch apimodel.TouchState
}

type ApiEventAxisToggleData struct{}

// The event loop fills State before answering.
type ApiEventStateData struct {
	State *apimodel.SliderState
}

// The event loop fills Frame before answering.
type ApiEventFrameData struct {
	Frame *image.Image
}
