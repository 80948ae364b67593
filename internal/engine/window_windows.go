//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

// setDarkTitleBar switches the native title bar to dark mode with the
// given caption colour.
func setDarkTitleBar(window *glfw.Window, r, g, b float32) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	var useDarkMode int32 = 1
	procDwmSetWindowAttribute.Call(
		uintptr(unsafe.Pointer(hwnd)),
		DWMWA_USE_IMMERSIVE_DARK_MODE,
		uintptr(unsafe.Pointer(&useDarkMode)),
		unsafe.Sizeof(useDarkMode),
	)

	colorBGR := uint32(uint8(b*255))<<16 | uint32(uint8(g*255))<<8 | uint32(uint8(r*255))
	for _, attr := range []uintptr{DWMWA_BORDER_COLOR, DWMWA_CAPTION_COLOR} {
		procDwmSetWindowAttribute.Call(
			uintptr(unsafe.Pointer(hwnd)),
			attr,
			uintptr(unsafe.Pointer(&colorBGR)),
			unsafe.Sizeof(colorBGR),
		)
	}
}
