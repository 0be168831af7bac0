package scene

import "errors"

var (
	ErrInvalidGeometry = errors.New("scene: invalid surface geometry")
	ErrSceneFrozen     = errors.New("scene: geometry store is frozen")
	ErrInvalidConfig   = errors.New("scene: invalid configuration")
	ErrUnknownSurface  = errors.New("scene: unknown surface id")
)
