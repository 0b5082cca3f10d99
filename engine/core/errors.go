package core

import (
	"errors"
)

var (
	// ErrAlreadyBegun is returned when begin is called twice without a matching end.
	ErrAlreadyBegun = errors.New("begin called while already begun, call end first")
	// ErrNotBegun is returned by operations that are only valid between begin and end.
	ErrNotBegun = errors.New("operation requires begin to be called first")
	// ErrCacheBuilding is returned by cache operations that are invalid between begin and end.
	ErrCacheBuilding = errors.New("operation not allowed while the cache is being built")
	// ErrShaderCannotRender signals a shader factory that is inconsistent with CanRender.
	ErrShaderCannotRender = errors.New("unable to provide a shader for this renderable")
	// ErrTooManyAttributeTypes is returned when more than 64 attribute types get registered.
	ErrTooManyAttributeTypes = errors.New("cannot register more than 64 attribute types")
	// ErrPoolDoubleFree is returned when an object goes back to a pool it is already in.
	ErrPoolDoubleFree = errors.New("object freed twice to the same pool")
	// ErrStaleHandle is returned when a pooled object is accessed after being reclaimed.
	ErrStaleHandle = errors.New("pooled object was reclaimed and may have been reused")
	// ErrMeshCapacity is returned when geometry does not fit the capacity of a mesh.
	ErrMeshCapacity = errors.New("geometry exceeds mesh capacity")
	ErrUnknown      = errors.New("unknown")
)
