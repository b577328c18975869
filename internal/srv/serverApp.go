package srv

import (
	"github.com/jypelle/dsislider/internal/images"
	"github.com/jypelle/dsislider/internal/slider"
	"github.com/jypelle/dsislider/internal/srv/config"
	"github.com/jypelle/dsislider/internal/srv/device"
	"github.com/jypelle/dsislider/internal/srv/event"
	"github.com/jypelle/dsislider/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig

	imageSet    *images.ImageSet
	frameBuffer *slider.FrameBuffer
	controller  *slider.Controller

	dma2dDevice         *device.Dma2d
	panelDevice         device.PanelDevice
	simulatedPanel      *device.SimulatedPanel
	touchPanelDevice    *device.TouchPanel
	simulatedTouch      *device.SimulatedTouch
	buttonsDevice       *device.Buttons
	statusDisplayDevice *device.StatusDisplay
	apiDevice           *device.Api

	sliderEventChannel chan event.SliderEvent

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of dsislider server %s ...", version.AppVersion.String())

	app := &ServerApp{
		sliderEventChannel: make(chan event.SliderEvent),
		eventLoopAskDone:   make(chan bool),
		eventLoopDone:      make(chan bool),
		ServerConfig:       config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	size := app.PanelSize()

	// Slides
	var err error
	app.imageSet, err = LoadImageSet(app.ServerConfig)
	if err != nil {
		logrus.Fatalf("Unable to load images: %v", err)
	}

	app.frameBuffer = slider.NewFrameBuffer(size, app.ServerState.Axis())
	app.dma2dDevice = device.NewDma2d()

	var touch slider.TouchInput
	if app.SimulationMode {
		app.simulatedPanel = device.NewSimulatedPanel(app.frameBuffer, app.PanelParam.RefreshRate, true)
		app.panelDevice = app.simulatedPanel
		app.simulatedTouch = device.NewSimulatedTouch()
		touch = app.simulatedTouch
	} else {
		hw := app.HardwareParam
		app.panelDevice, err = device.NewSpiPanel(app.frameBuffer, device.SpiPanelParam{
			SpiBus:   hw.SpiBus,
			SpeedMHz: hw.SpiSpeedMHz,
			DcPin:    hw.DcPin,
			TePin:    hw.TePin,
		})
		if err != nil {
			logrus.Fatalf("Unable to open panel: %v", err)
		}
		app.touchPanelDevice, err = device.NewTouchPanel(hw.TouchI2cBus, hw.TouchAddress)
		if err != nil {
			logrus.Fatalf("Unable to open touch panel: %v", err)
		}
		touch = app.touchPanelDevice
	}

	app.controller, err = slider.NewController(
		app.SliderOptions(app.ServerState),
		app.frameBuffer,
		app.imageSet,
		app.dma2dDevice,
		touch,
		app.panelDevice,
	)
	if err != nil {
		logrus.Fatalf("Unable to create slider: %v", err)
	}
	app.controller.OnChange(func(snapshot slider.Snapshot) {
		app.sliderEventChannel <- event.SliderEvent{Snapshot: snapshot}
	})

	app.buttonsDevice = device.NewButtons(app.SimulationMode, app.HardwareParam.OrientationButtonPin)
	app.statusDisplayDevice = device.NewStatusDisplay(!app.SimulationMode && app.HardwareParam.StatusDisplay, app.HardwareParam.StatusI2cBus)
	if app.ApiParam.Enabled {
		app.apiDevice = device.NewApi(app.ServerConfig)
	}

	logrus.Debugln("Server created")

	return app
}

// LoadImageSet reads the configured image folder, or generates numbered
// slides when no folder is set.
func LoadImageSet(sc *config.ServerConfig) (*images.ImageSet, error) {
	folder := sc.GetCompleteImagesFolder()
	if folder == "" {
		logrus.Infof("No image folder, generating %d slides", sc.ImagesParam.Count)
		return images.Generate(sc.ImagesParam.Count, sc.PanelSize()), nil
	}
	return images.LoadFolder(folder, sc.PanelSize())
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting dsislider server ...")

	logrus.Printf("Starting devices ...")

	// Start status display device
	s.statusDisplayDevice.Start()

	// Start panel refresh
	s.panelDevice.Start()

	// Start event loop
	go s.eventLoop()

	// Show the first image and start polling touch
	if err := s.controller.Start(); err != nil {
		logrus.Fatalf("Unable to show first image: %v", err)
	}
	s.refreshStatus(s.controller.Snapshot())

	// Start buttons device
	s.buttonsDevice.Start()

	// Start api device
	if s.apiDevice != nil {
		s.apiDevice.Start()
	}
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping dsislider server ...")

	// Stop api
	if s.apiDevice != nil {
		s.apiDevice.StopSendingEvent()
	}

	// Stop buttons device
	s.buttonsDevice.StopSendingEvent()

	// Stop slider
	s.controller.Stop()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Stop panel refresh
	s.panelDevice.Stop()

	// Release touch controller
	if s.touchPanelDevice != nil {
		if err := s.touchPanelDevice.Close(); err != nil {
			logrus.Warnf("Unable to close touch panel: %v", err)
		}
	}

	// Stop status display device
	s.statusDisplayDevice.Stop()

	// Flush state backup
	s.ServerConfig.ServerState.FlushSave()

	logrus.Printf("Server stopped")
}
