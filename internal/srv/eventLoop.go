package srv

import (
	"github.com/jypelle/dsislider/apimodel"
	"github.com/jypelle/dsislider/internal/slider"
	"github.com/jypelle/dsislider/internal/srv/device"
	"github.com/jypelle/dsislider/internal/srv/event"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	// A nil channel never delivers
	var apiEventChannel chan event.ApiEvent
	if s.apiDevice != nil {
		apiEventChannel = s.apiDevice.EventChannel()
	}

	for loop := true; loop; {
		select {
		case ev := <-s.sliderEventChannel:
			logrus.Debugf("Receive slider event: image %d, %s", ev.Snapshot.Index, ev.Snapshot.Axis)
			s.ServerState.SetIndex(ev.Snapshot.Index)
			s.ServerState.SetAxis(ev.Snapshot.Axis)
			s.refreshStatus(ev.Snapshot)
		case ev := <-s.buttonsDevice.EventChannel():
			logrus.Debugf("Receive button event: %d, %d, %d", ev.ButtonId, ev.ButtonEventType, ev.PressStepCount)
			switch ev.ButtonId {
			case event.ORIENTATION_BUTTON:
				if ev.ButtonEventType == event.PRESS_EVENT_TYPE && ev.PressStepCount == 1 {
					s.controller.ToggleAxis()
				}
			}
		case ev := <-apiEventChannel:
			ev.Result <- s.handleApiEvent(ev.Data)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}

func (s *ServerApp) handleApiEvent(data interface{}) error {
	switch data := data.(type) {
	case event.ApiEventTouchData:
		if s.simulatedTouch == nil {
			return device.ErrUnavailable
		}
		position := s.simulatedTouch.PollState().Position
		if data.Touch.X != nil {
			position.X = *data.Touch.X
		}
		if data.Touch.Y != nil {
			position.Y = *data.Touch.Y
		}
		s.simulatedTouch.Set(slider.TouchState{Detected: data.Touch.Detected, Position: position})
	case event.ApiEventAxisToggleData:
		s.controller.ToggleAxis()
	case event.ApiEventStateData:
		*data.State = sliderState(s.controller.Snapshot())
	case event.ApiEventFrameData:
		if s.simulatedPanel == nil {
			return device.ErrUnavailable
		}
		*data.Frame = s.simulatedPanel.LastFrame()
	}
	return nil
}

func sliderState(snapshot slider.Snapshot) apimodel.SliderState {
	return apimodel.SliderState{
		Index:         snapshot.Index,
		Count:         snapshot.Count,
		Axis:          snapshot.Axis.String(),
		ActiveRegion:  snapshot.Active.String(),
		Dragging:      snapshot.Dragging,
		Offset:        snapshot.Offset,
		Refreshes:     snapshot.Refreshes,
		Swaps:         snapshot.Swaps,
		IdleRefreshes: snapshot.IdleRefreshes,
		LastError:     snapshot.LastError,
	}
}
