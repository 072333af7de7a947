//go:build !nogpu

package layer

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by host device providers that can hand out
// their HAL device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// AttachProvider attaches the layer to the device shared by a host
// application. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue; the render target
// format is taken from SurfaceFormat.
func (l *Layer) AttachProvider(provider gpucontext.DeviceProvider) error {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return err
	}
	return l.Attach(device, queue, provider.SurfaceFormat())
}

func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return device, queue, nil
}
