//go:build linux

package linux

import (
	"os"
	"os/exec"

	"github.com/mj1618/weel/internal/platform"
)

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		p := &platform.Provider{Launcher: platform.NewExecLauncher()}
		// Without a display or xdotool only the launcher is usable.
		if os.Getenv("DISPLAY") == "" {
			return p, nil
		}
		if _, err := exec.LookPath("xdotool"); err != nil {
			return p, nil
		}
		x := NewXdotool(platform.RunCommand)
		p.Inputter = x
		p.WindowManager = x
		return p, nil
	}
}
