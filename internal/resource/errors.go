package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is the kind of every registry configuration failure.
	ErrConfig = errors.New("resource configuration error")
	// ErrNotFound is returned when a resource name is not in the registry.
	ErrNotFound = errors.New("resource not found")
	// ErrLoad is the kind of every backend load failure.
	ErrLoad = errors.New("resource load failed")
)

// ConfigError reports a missing, malformed or invalid registry.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrConfig, e.Err)
	}
	return fmt.Sprintf("%s in %s: %v", ErrConfig, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error { return []error{ErrConfig, e.Err} }

// NotFoundError reports a lookup of an unregistered resource name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ResourceLoadError reports a backend failure while materialising a
// resource. No handle is kept after it.
type ResourceLoadError struct {
	Name string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("%s: %q: %v", ErrLoad, e.Name, e.Err)
}

func (e *ResourceLoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }
