package core

import (
	"errors"
)

var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrNilMesh            = errors.New("nil mesh")
	ErrNilGeometry        = errors.New("nil geometry")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrNotRegistered      = errors.New("not registered")
	ErrNoFreeSlot         = errors.New("no free slot available")
	ErrEmptyVertexData    = errors.New("vertex data is empty")
	ErrMalformedVertices  = errors.New("vertex data length is not a multiple of 3")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrWatcherClosed      = errors.New("config watcher already closed")
	ErrSystemNotAvailable = errors.New("system not available")
	ErrUnknown            = errors.New("unknown")
)
