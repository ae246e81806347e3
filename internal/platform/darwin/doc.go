// Package darwin provides macOS keyboard, media key and frontmost-app support
// using CoreGraphics and AppKit. All functionality requires CGo.
// On other platforms, or when CGo is disabled, the package is empty.
package darwin
