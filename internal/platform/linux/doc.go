// Package linux provides X11 keyboard input and frontmost-app lookup by
// shelling out to xdotool. On other platforms the package is empty.
package linux
