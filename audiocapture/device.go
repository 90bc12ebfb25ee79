package audiocapture

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// DeviceInfo describes an available input device.
type DeviceInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

var initOnce sync.Once

// Initialize prepares the PortAudio runtime. Safe to call more than once.
func Initialize() error {
	var err error
	initOnce.Do(func() {
		err = portaudio.Initialize()
	})
	return err
}

// Terminate releases the PortAudio runtime.
func Terminate() error {
	return portaudio.Terminate()
}

// ListDevices returns all available audio input devices.
func ListDevices() ([]DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}

	var out []DeviceInfo
	for i, dev := range devices {
		if dev.MaxInputChannels > 0 {
			out = append(out, DeviceInfo{Index: i, Name: dev.Name})
		}
	}
	return out, nil
}

// FindDevice returns the index of the first input device whose name contains
// the given substring, or -1 when no device matches (the system default is
// used in that case).
func FindDevice(name string) int {
	if name == "" {
		return -1
	}
	devices, err := ListDevices()
	if err != nil {
		return -1
	}
	for _, dev := range devices {
		if strings.Contains(dev.Name, name) {
			return dev.Index
		}
	}
	return -1
}

// InputDevice captures microphone audio through PortAudio.
type InputDevice struct {
	sampleRate  int
	channels    int
	deviceIndex int // -1 selects the system default input

	mu     sync.Mutex
	stream *portaudio.Stream
	stop   chan struct{}
}

// NewInputDevice creates a PortAudio-backed input device.
func NewInputDevice(sampleRate, channels, deviceIndex int) *InputDevice {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}
	return &InputDevice{sampleRate: sampleRate, channels: channels, deviceIndex: deviceIndex}
}

// Start opens the input stream and begins delivering frames to onFrames on
// the PortAudio callback thread.
func (d *InputDevice) Start(onFrames func(samples []float32), onError func(err error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		return ErrAlreadyRecording
	}
	if err := Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	params, err := d.streamParameters()
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	stream, err := portaudio.OpenStream(*params, func(in []float32) {
		select {
		case <-stop:
			return
		default:
		}
		onFrames(in)
	})
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		if onError != nil {
			onError(err)
		}
		return fmt.Errorf("start stream: %w", err)
	}

	d.stream = stream
	d.stop = stop
	return nil
}

// Stop closes the input stream. Safe to call when not started.
func (d *InputDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil

	err := d.stream.Stop()
	if cerr := d.stream.Close(); err == nil {
		err = cerr
	}
	d.stream = nil
	if err != nil {
		return fmt.Errorf("stop stream: %w", err)
	}
	return nil
}

func (d *InputDevice) streamParameters() (*portaudio.StreamParameters, error) {
	var dev *portaudio.DeviceInfo
	var err error

	if d.deviceIndex >= 0 {
		devices, derr := portaudio.Devices()
		if derr != nil {
			return nil, fmt.Errorf("query devices: %w", derr)
		}
		if d.deviceIndex >= len(devices) {
			return nil, fmt.Errorf("device index out of range: %d", d.deviceIndex)
		}
		dev = devices[d.deviceIndex]
	} else {
		dev, err = portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
	}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = d.channels
	params.SampleRate = float64(d.sampleRate)
	return &params, nil
}
