package platform

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Runner executes a command and returns its stdout. On failure the error
// carries the trimmed stderr when there is any.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// RunCommand is the default Runner, backed by os/exec.
func RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%s: %w (%s)", name, err, msg)
		}
		return stdout.String(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.String(), nil
}

// ExecLauncher implements Launcher with the stock commands of each OS:
// open/osascript/pmset on macOS, xdg-open/pkill/systemctl on Linux and
// start/taskkill/rundll32 on Windows.
type ExecLauncher struct {
	goos string
	run  Runner
}

// NewExecLauncher returns a launcher for the running OS.
func NewExecLauncher() *ExecLauncher {
	return NewExecLauncherFor(runtime.GOOS, RunCommand)
}

// NewExecLauncherFor returns a launcher that issues goos's commands
// through run.
func NewExecLauncherFor(goos string, run Runner) *ExecLauncher {
	return &ExecLauncher{goos: goos, run: run}
}

func (l *ExecLauncher) open(ctx context.Context, target string) error {
	var err error
	switch l.goos {
	case "darwin":
		_, err = l.run(ctx, "open", target)
	case "windows":
		_, err = l.run(ctx, "cmd", "/C", "start", "", target)
	default:
		_, err = l.run(ctx, "xdg-open", target)
	}
	return err
}

func (l *ExecLauncher) OpenURL(ctx context.Context, url string) error {
	return l.open(ctx, url)
}

func (l *ExecLauncher) OpenPath(ctx context.Context, path string) error {
	return l.open(ctx, path)
}

// OpenApp launches app. On macOS a bare name that fails to open is retried
// as "<name>.app" with open -a. On Linux the value is the command itself.
func (l *ExecLauncher) OpenApp(ctx context.Context, app string) (string, error) {
	switch l.goos {
	case "darwin":
		_, err := l.run(ctx, "open", app)
		if err == nil {
			return app, nil
		}
		if strings.HasSuffix(app, ".app") {
			return "", err
		}
		bundle := app + ".app"
		if _, err2 := l.run(ctx, "open", "-a", bundle); err2 != nil {
			return "", fmt.Errorf("%w. Retry with .app also failed: %v", err, err2)
		}
		return bundle, nil
	case "windows":
		_, err := l.run(ctx, "cmd", "/C", "start", "", app)
		return app, err
	default:
		fields := strings.Fields(app)
		if len(fields) == 0 {
			return "", fmt.Errorf("empty command")
		}
		_, err := l.run(ctx, fields[0], fields[1:]...)
		return app, err
	}
}

func (l *ExecLauncher) CloseApp(ctx context.Context, name string) error {
	var err error
	switch l.goos {
	case "darwin":
		_, err = l.run(ctx, "osascript", "-e", fmt.Sprintf("quit app %q", name))
	case "windows":
		image := name
		if !strings.HasSuffix(strings.ToLower(image), ".exe") {
			image += ".exe"
		}
		_, err = l.run(ctx, "taskkill", "/IM", image)
	default:
		_, err = l.run(ctx, "pkill", "-x", name)
	}
	return err
}

func (l *ExecLauncher) RunScript(ctx context.Context, script string) (string, error) {
	if l.goos == "windows" {
		return l.run(ctx, "cmd", "/C", script)
	}
	return l.run(ctx, "sh", "-c", script)
}

func (l *ExecLauncher) Sleep(ctx context.Context) error {
	var err error
	switch l.goos {
	case "darwin":
		_, err = l.run(ctx, "pmset", "sleepnow")
	case "windows":
		_, err = l.run(ctx, "rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0")
	default:
		_, err = l.run(ctx, "systemctl", "suspend")
	}
	return err
}
