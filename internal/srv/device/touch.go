package device

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/jypelle/dsislider/internal/slider"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// FT6x06 registers
const (
	ft6x06TouchStatus = 0x02 // TD_STATUS, then P1_XH, P1_XL, P1_YH, P1_YL
	ft6x06MaxTouches  = 2
)

// TouchPanel reads a capacitive touch controller over I²C.
type TouchPanel struct {
	lock   sync.Mutex
	bus    i2c.BusCloser
	dev    *i2c.Dev
	last   image.Point
	errors int64
	warned time.Time
}

func NewTouchPanel(busName string, addr uint16) (*TouchPanel, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("unable to open i2c bus: %w", err)
	}

	d := &TouchPanel{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}

	var status [1]byte
	if err := d.dev.Tx([]byte{ft6x06TouchStatus}, status[:]); err != nil {
		bus.Close()
		return nil, fmt.Errorf("no touch controller at 0x%02x: %w", addr, err)
	}
	logrus.Infof("Touch controller found at 0x%02x", addr)
	return d, nil
}

// PollState reads the first touch point. A failed read counts as no touch.
func (d *TouchPanel) PollState() slider.TouchState {
	d.lock.Lock()
	defer d.lock.Unlock()

	var buf [5]byte
	if err := d.dev.Tx([]byte{ft6x06TouchStatus}, buf[:]); err != nil {
		d.errors++
		if time.Since(d.warned) > 5*time.Second {
			d.warned = time.Now()
			logrus.Warnf("Touch read failed (%d errors): %v", d.errors, err)
		}
		return slider.TouchState{Position: d.last}
	}

	detected, position := decodeTouch(buf)
	if detected {
		d.last = position
	}
	return slider.TouchState{Detected: detected, Position: d.last}
}

func (d *TouchPanel) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.bus.Close()
}

func decodeTouch(buf [5]byte) (bool, image.Point) {
	touches := buf[0] & 0x0f
	if touches == 0 || touches > ft6x06MaxTouches {
		return false, image.Point{}
	}
	x := int(buf[1]&0x0f)<<8 | int(buf[2])
	y := int(buf[3]&0x0f)<<8 | int(buf[4])
	return true, image.Pt(x, y)
}

// SimulatedTouch holds a touch state set from the API.
type SimulatedTouch struct {
	lock  sync.RWMutex
	state slider.TouchState
}

func NewSimulatedTouch() *SimulatedTouch {
	return &SimulatedTouch{}
}

func (d *SimulatedTouch) Set(state slider.TouchState) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.state = state
}

func (d *SimulatedTouch) PollState() slider.TouchState {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.state
}
