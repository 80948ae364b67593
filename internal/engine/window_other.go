//go:build !windows

package engine

import "github.com/go-gl/glfw/v3.3/glfw"

// setDarkTitleBar is only implemented on Windows; elsewhere the window
// manager decides.
func setDarkTitleBar(*glfw.Window, float32, float32, float32) {}
