package device

import (
	"image"
	"sync"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// StatusDisplay is the small OLED screen next to the panel. Without the
// hardware it only remembers the last image.
type StatusDisplay struct {
	oledLock    sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.BusCloser
	i2cBusName  string

	lock     sync.RWMutex
	hardware bool
	lastImg  image.Image

	askDone chan bool
	askImg  chan image.Image
	done    chan bool
}

func NewStatusDisplay(hardware bool, i2cBusName string) *StatusDisplay {
	if hardware {
		if _, err := host.Init(); err != nil {
			logrus.Fatalf("Unable to initialize host: %v", err)
		}
	}

	return &StatusDisplay{
		hardware:   hardware,
		i2cBusName: i2cBusName,
		askDone:    make(chan bool),
		askImg:     make(chan image.Image),
		done:       make(chan bool),
	}
}

func (d *StatusDisplay) Start() {
	logrus.Infof("Start status display device")

	if !d.hardware {
		return
	}

	var err error
	d.i2cBus, err = i2creg.Open(d.i2cBusName)
	if err != nil {
		logrus.Fatalf("Unable to open i2c bus: %v\n", err)
	}

	// Open a handle to a ssd1306 connected on the I²C bus:
	d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &ssd1306.DefaultOpts)
	if err != nil {
		logrus.Fatalf("Unable to initialize oled display: %v\n", err)
	}

	d.oledDisplay.SetContrast(1)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.askDone:
				loop = false
			case newImg := <-d.askImg:
				d.oledLock.Lock()
				if err := d.oledDisplay.Draw(d.oledDisplay.Bounds(), newImg, image.Point{}); err != nil {
					logrus.Warnf("Unable to draw status: %v", err)
				}
				d.oledLock.Unlock()
			}
		}
		d.oledLock.Lock()
		d.oledDisplay.Halt()
		d.i2cBus.Close()
		d.oledLock.Unlock()
		d.done <- true
	}()
}

func (d *StatusDisplay) Stop() {
	logrus.Infof("Stop status display device")

	if d.hardware {
		d.askDone <- true
		<-d.done
	}
}

func (d *StatusDisplay) ShowImage(img image.Image) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.lastImg = img
	if d.hardware {
		d.askImg <- img
	}
}

func (d *StatusDisplay) LastImage() image.Image {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.lastImg
}

// Bounds is the size of the OLED screen.
func (d *StatusDisplay) Bounds() image.Rectangle {
	return image.Rect(0, 0, 128, 64)
}
