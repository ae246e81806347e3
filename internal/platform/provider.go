package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Inputter      Inputter
	WindowManager WindowManager
	Launcher      Launcher
}

// ErrUnsupported is returned on platforms without a desktop backend.
var ErrUnsupported = fmt.Errorf("desktop actions are not supported on %s/%s", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go and internal/platform/linux/init.go.
var NewProviderFunc func() (*Provider, error)

// CheckPermissionsFunc is set by platform packages that need an OS grant
// before keystrokes can be sent. It returns an error describing the fix.
var CheckPermissionsFunc func() error

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
