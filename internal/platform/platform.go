package platform

import "context"

// Inputter simulates keyboard input.
type Inputter interface {
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
	MediaKey(key MediaKey) error
}

// WindowManager reports which application is in the foreground.
type WindowManager interface {
	GetFrontmostApp() (string, int, error)
}

// Launcher opens things and controls processes through OS commands.
type Launcher interface {
	OpenURL(ctx context.Context, url string) error
	// OpenApp launches an application by path or name and returns the name
	// it was finally opened under.
	OpenApp(ctx context.Context, app string) (string, error)
	OpenPath(ctx context.Context, path string) error
	CloseApp(ctx context.Context, name string) error
	// RunScript runs a shell command line and returns its stdout.
	RunScript(ctx context.Context, script string) (string, error)
	Sleep(ctx context.Context) error
}
