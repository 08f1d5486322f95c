package platform

import (
	"fmt"
	"runtime"
	"time"
)

// Provider bundles the platform backends for the current OS.
type Provider struct {
	Host   Host
	Events Events
}

// ProviderOptions configures how a backend captures drags and paces frames.
type ProviderOptions struct {
	Button        MouseButton   // Button that starts a window drag
	Modifier      string        // Modifier held with the button, e.g. "Mod1" (empty = none)
	FrameInterval time.Duration // Time between frame ticks
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("desktop-throw has no window system backend for %s/%s; supported: linux (X11)", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/x11/init.go for the X11 registration.
var NewProviderFunc func(opts ProviderOptions) (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}
