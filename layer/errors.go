//go:build !nogpu

package layer

import "errors"

var (
	// ErrNotAttached is returned by Draw before Attach when the layer was
	// created WithStrict. Non-strict layers skip the frame silently.
	ErrNotAttached = errors.New("layer: not attached to a GPU device")

	// ErrDisposed is returned by any call after Detach.
	ErrDisposed = errors.New("layer: disposed")

	// ErrNoHALProvider is returned by AttachProvider when the provider does
	// not expose HAL device and queue handles.
	ErrNoHALProvider = errors.New("layer: provider does not expose HAL types")
)
