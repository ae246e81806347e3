//go:build !linux && !darwin

package trigger

import (
	"fmt"
	"os"
	"runtime"
)

func OpenSerial(device string, baud int) (*os.File, error) {
	return nil, fmt.Errorf("serial pads are not supported on %s", runtime.GOOS)
}
