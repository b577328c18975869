package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/jypelle/dsislider/internal/slider"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DCS commands
const (
	cmdSleepOut    = 0x11
	cmdDisplayOn   = 0x29
	cmdColumnSet   = 0x2A
	cmdPageSet     = 0x2B
	cmdMemoryWrite = 0x2C
	cmdTearingOn   = 0x35
	cmdPixelFormat = 0x3A

	pixelFormatRGB565 = 0x55
)

type SpiPanelParam struct {
	SpiBus   string
	SpeedMHz int64
	DcPin    string
	TePin    string
}

// SpiPanel is a command mode panel on a SPI bus. Its tearing effect line
// marks the end of every refresh; the active window is then streamed to the
// panel memory as RGB565.
type SpiPanel struct {
	fb *slider.FrameBuffer

	busLock sync.Mutex
	port    spi.PortCloser
	conn    spi.Conn
	dc      gpio.PinOut
	te      gpio.PinIn

	lock    sync.RWMutex
	handler func()
	window  slider.AddressRange
	line    []byte

	askDone chan bool
	done    chan bool
}

func NewSpiPanel(fb *slider.FrameBuffer, param SpiPanelParam) (*SpiPanel, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	d := &SpiPanel{
		fb:      fb,
		window:  fb.Window(slider.RegionA),
		line:    make([]byte, 2*fb.Size().X),
		askDone: make(chan bool),
		done:    make(chan bool),
	}

	var err error
	d.port, err = spireg.Open(param.SpiBus)
	if err != nil {
		return nil, fmt.Errorf("unable to open spi bus: %w", err)
	}
	d.conn, err = d.port.Connect(physic.Frequency(param.SpeedMHz)*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		d.port.Close()
		return nil, fmt.Errorf("unable to configure spi bus: %w", err)
	}

	dc := gpioreg.ByName(param.DcPin)
	if dc == nil {
		d.port.Close()
		return nil, fmt.Errorf("failed to find %s dc pin", param.DcPin)
	}
	d.dc = dc

	te := gpioreg.ByName(param.TePin)
	if te == nil {
		d.port.Close()
		return nil, fmt.Errorf("failed to find %s te pin", param.TePin)
	}
	if err := te.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		d.port.Close()
		return nil, fmt.Errorf("failed to setup %s te pin: %w", param.TePin, err)
	}
	d.te = te

	return d, nil
}

func (d *SpiPanel) Start() {
	logrus.Infof("Start spi panel device")

	if err := d.init(); err != nil {
		logrus.Fatalf("Unable to initialize panel: %v", err)
	}

	go func() {
		for loop := true; loop; {
			select {
			case <-d.askDone:
				loop = false
			default:
				if !d.te.WaitForEdge(100 * time.Millisecond) {
					continue
				}
				if err := d.refresh(); err != nil {
					logrus.Warnf("Panel refresh failed: %v", err)
					continue
				}
				d.lock.RLock()
				handler := d.handler
				d.lock.RUnlock()
				if handler != nil {
					handler()
				}
			}
		}
		d.done <- true
	}()
}

func (d *SpiPanel) Stop() {
	logrus.Infof("Stop spi panel device")

	d.askDone <- true
	<-d.done

	d.busLock.Lock()
	defer d.busLock.Unlock()
	d.te.In(gpio.PullDown, gpio.NoEdge)
	d.port.Close()
}

func (d *SpiPanel) init() error {
	if err := d.command(cmdSleepOut); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	if err := d.command(cmdPixelFormat, pixelFormatRGB565); err != nil {
		return err
	}
	if err := d.command(cmdTearingOn, 0x00); err != nil {
		return err
	}
	return d.command(cmdDisplayOn)
}

func (d *SpiPanel) command(cmd byte, data ...byte) error {
	d.busLock.Lock()
	defer d.busLock.Unlock()
	return d.commandLocked(cmd, data...)
}

func (d *SpiPanel) commandLocked(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("command 0x%02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	if err := d.conn.Tx(data, nil); err != nil {
		return fmt.Errorf("command 0x%02x data: %w", cmd, err)
	}
	return nil
}

// refresh streams the active window into panel memory.
func (d *SpiPanel) refresh() error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	d.busLock.Lock()
	defer d.busLock.Unlock()

	size := d.fb.Size()
	if err := d.commandLocked(cmdColumnSet, addressRange(0, size.X-1)...); err != nil {
		return err
	}
	if err := d.commandLocked(cmdPageSet, addressRange(0, size.Y-1)...); err != nil {
		return err
	}
	if err := d.commandLocked(cmdMemoryWrite); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}

	pix := d.fb.Pix()
	w := d.window
	for y := 0; y < w.Height; y++ {
		start := w.Base + y*w.Pitch
		rgb565Line(d.line, pix[start:start+4*w.Width])
		if err := d.conn.Tx(d.line, nil); err != nil {
			return fmt.Errorf("line %d: %w", y, err)
		}
	}
	return nil
}

// SetActiveWindow selects the half streamed at the next refresh.
func (d *SpiPanel) SetActiveWindow(w slider.AddressRange) error {
	size := d.fb.Size()
	if w.Width != size.X || w.Height != size.Y {
		return fmt.Errorf("window %dx%d does not match panel %v", w.Width, w.Height, size)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.window = w
	return nil
}

// SelectColumnRange checks that the range matches the active window, the
// partition the panel is streamed from.
func (d *SpiPanel) SelectColumnRange(r slider.PixelRange) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if r.Len() != r.Axis.Dimension(d.fb.Size()) {
		return fmt.Errorf("range %d-%d does not cover the panel", r.First, r.Last)
	}
	first := d.window.Base / 4
	if r.Axis == slider.Vertical {
		first = d.window.Base / d.window.Pitch
	}
	if first != r.First {
		return fmt.Errorf("range %d-%d does not start the active window", r.First, r.Last)
	}
	return nil
}

func (d *SpiPanel) SetRefreshHandler(h func()) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.handler = h
}

func addressRange(first, last int) []byte {
	return slider.PixelRange{First: first, Last: last}.Bytes()
}

// rgb565Line packs RGBA pixels into big endian RGB565.
func rgb565Line(dst, src []byte) {
	for i, j := 0, 0; i+3 < len(src) && j+1 < len(dst); i, j = i+4, j+2 {
		v := uint16(src[i]&0xf8)<<8 | uint16(src[i+1]&0xfc)<<3 | uint16(src[i+2])>>3
		dst[j] = byte(v >> 8)
		dst[j+1] = byte(v)
	}
}
