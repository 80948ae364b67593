package main

import (
	"os"
	"runtime"

	"Mower/internal/cli"
)

func init() {
	// GLFW and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(cli.Execute(cli.WebView))
}
