package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/jypelle/dsislider/internal/slider"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	PanelParam    PanelParam    `yaml:"panel"`
	SliderParam   SliderParam   `yaml:"slider"`
	ImagesParam   ImagesParam   `yaml:"images"`
	HardwareParam HardwareParam `yaml:"hardware"`
	ApiParam      ApiParam      `yaml:"api"`
}

type PanelParam struct {
	Width       int   `yaml:"width"`
	Height      int   `yaml:"height"`
	RefreshRate int64 `yaml:"refresh_rate"`
}

type SliderParam struct {
	Axis           string `yaml:"axis"`
	FlickThreshold int    `yaml:"flick_threshold"`
	FlickStep      int    `yaml:"flick_step"`
	SnapStep       int    `yaml:"snap_step"`
	SettleFrames   int    `yaml:"settle_frames"`
	FrameDelayMs   int64  `yaml:"frame_delay_ms"`
	PollIntervalMs int64  `yaml:"poll_interval_ms"`
	SwapTimeoutMs  int64  `yaml:"swap_timeout_ms"`
	BlitRetries    int    `yaml:"blit_retries"`
}

type ImagesParam struct {
	// Empty folder means generated slides
	Folder string `yaml:"folder"`
	Count  int    `yaml:"count"`
}

type HardwareParam struct {
	SpiBus               string `yaml:"spi_bus"`
	SpiSpeedMHz          int64  `yaml:"spi_speed_mhz"`
	DcPin                string `yaml:"dc_pin"`
	TePin                string `yaml:"te_pin"`
	OrientationButtonPin string `yaml:"orientation_button_pin"`
	TouchI2cBus          string `yaml:"touch_i2c_bus"`
	TouchAddress         uint16 `yaml:"touch_address"`
	StatusDisplay        bool   `yaml:"status_display"`
	StatusI2cBus         string `yaml:"status_i2c_bus"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}

func (p *ServerParam) Validate() error {
	if p.PanelParam.Width <= 1 || p.PanelParam.Height <= 1 {
		return fmt.Errorf("invalid panel size %dx%d", p.PanelParam.Width, p.PanelParam.Height)
	}
	if p.PanelParam.RefreshRate <= 0 {
		return errors.New("panel refresh_rate must be positive")
	}
	if _, err := slider.ParseAxis(p.SliderParam.Axis); err != nil {
		return err
	}
	if p.SliderParam.FlickThreshold <= 0 {
		return errors.New("slider flick_threshold must be positive")
	}
	if p.SliderParam.FlickStep <= 0 || p.SliderParam.SnapStep <= 0 {
		return errors.New("slider flick_step and snap_step must be positive")
	}
	if p.SliderParam.SettleFrames < 1 {
		return errors.New("slider settle_frames must be at least 1")
	}
	if p.SliderParam.PollIntervalMs <= 0 {
		return errors.New("slider poll_interval_ms must be positive")
	}
	if p.SliderParam.FrameDelayMs < 0 || p.SliderParam.SwapTimeoutMs < 0 || p.SliderParam.BlitRetries < 0 {
		return errors.New("slider timings and retries cannot be negative")
	}
	return nil
}

func (p *ServerParam) PanelSize() image.Point {
	return image.Pt(p.PanelParam.Width, p.PanelParam.Height)
}

// SliderOptions builds the controller options, starting from the saved
// image index and axis.
func (p *ServerParam) SliderOptions(state *ServerState) slider.Options {
	return slider.Options{
		Size:           p.PanelSize(),
		Axis:           state.Axis(),
		StartIndex:     state.Index(),
		FlickThreshold: p.SliderParam.FlickThreshold,
		FlickStep:      p.SliderParam.FlickStep,
		SnapStep:       p.SliderParam.SnapStep,
		SettleFrames:   p.SliderParam.SettleFrames,
		FrameDelay:     time.Duration(p.SliderParam.FrameDelayMs) * time.Millisecond,
		PollInterval:   time.Duration(p.SliderParam.PollIntervalMs) * time.Millisecond,
		SwapTimeout:    time.Duration(p.SliderParam.SwapTimeoutMs) * time.Millisecond,
		BlitRetries:    p.SliderParam.BlitRetries,
	}
}
