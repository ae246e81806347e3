//go:build darwin && cgo

package darwin

import "github.com/mj1618/weel/internal/platform"

func init() {
	platform.CheckPermissionsFunc = CheckAccessibilityPermission
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Inputter:      NewInputter(),
			WindowManager: NewWindowManager(),
			Launcher:      platform.NewExecLauncher(),
		}, nil
	}
}
