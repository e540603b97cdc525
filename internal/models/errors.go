package models

import "errors"

var (
	// ErrConnection means no usable actuator port was found.
	ErrConnection = errors.New("actuator not found")
	// ErrModelLoad means the network configuration or weights could not be loaded.
	ErrModelLoad = errors.New("model load failed")
	// ErrCaptureOpen means the camera, video or image could not be opened.
	ErrCaptureOpen = errors.New("capture open failed")
	// ErrTransport is an I/O failure on the actuator connection.
	ErrTransport = errors.New("actuator transport failure")
	// ErrNotOpen is returned by operations on a released actuator connection.
	ErrNotOpen = errors.New("actuator connection not open")
)
