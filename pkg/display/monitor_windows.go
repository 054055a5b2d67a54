//go:build windows

package display

import (
	"fmt"
	"image"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	monitorDefaultToNull = 0x0
	monitorInfoPrimary   = 0x1
)

type rect struct {
	Left, Top, Right, Bottom int32
}

func (r rect) toRectangle() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor rect
	RcWork    rect
	DwFlags   uint32
}

var (
	user32Once           sync.Once
	user32               *windows.LazyDLL
	procMonitorFromPoint *windows.LazyProc
	procGetMonitorInfoW  *windows.LazyProc
	procGetDpiForWindow  *windows.LazyProc
	procGetDC            *windows.LazyProc
	procReleaseDC        *windows.LazyProc
	procGetForegroundWnd *windows.LazyProc
	procGetDesktopWindow *windows.LazyProc
	gdi32                *windows.LazyDLL
	procGetDeviceCaps    *windows.LazyProc
)

func initUser32() {
	user32Once.Do(func() {
		user32 = windows.NewLazySystemDLL("user32.dll")
		procMonitorFromPoint = user32.NewProc("MonitorFromPoint")
		procGetMonitorInfoW = user32.NewProc("GetMonitorInfoW")
		procGetDpiForWindow = user32.NewProc("GetDpiForWindow")
		procGetDC = user32.NewProc("GetDC")
		procReleaseDC = user32.NewProc("ReleaseDC")
		procGetForegroundWnd = user32.NewProc("GetForegroundWindow")
		procGetDesktopWindow = user32.NewProc("GetDesktopWindow")

		gdi32 = windows.NewLazySystemDLL("gdi32.dll")
		procGetDeviceCaps = gdi32.NewProc("GetDeviceCaps")
	})
}

// MonitorAt 通过 MonitorFromPoint + GetMonitorInfoW 查询包含该点的显示器及其工作区
func MonitorAt(pt image.Point) (Monitor, error) {
	initUser32()
	if err := procMonitorFromPoint.Find(); err != nil {
		return Monitor{}, fmt.Errorf("MonitorFromPoint 不可用: %w", err)
	}
	if err := procGetMonitorInfoW.Find(); err != nil {
		return Monitor{}, fmt.Errorf("GetMonitorInfoW 不可用: %w", err)
	}

	// POINT 按值传递：64 位平台打包进一个寄存器，32 位平台拆成两个参数
	var hmon uintptr
	if unsafe.Sizeof(uintptr(0)) == 8 {
		packed := uintptr(uint32(int32(pt.X))) | uintptr(uint32(int32(pt.Y)))<<32
		hmon, _, _ = procMonitorFromPoint.Call(packed, monitorDefaultToNull)
	} else {
		hmon, _, _ = procMonitorFromPoint.Call(uintptr(int32(pt.X)), uintptr(int32(pt.Y)), monitorDefaultToNull)
	}
	if hmon == 0 {
		return Monitor{}, fmt.Errorf("坐标 (%d,%d) 不在任何显示器上", pt.X, pt.Y)
	}

	mi := monitorInfo{CbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	ok, _, callErr := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&mi)))
	if ok == 0 {
		return Monitor{}, fmt.Errorf("GetMonitorInfoW 失败: %v", callErr)
	}

	return Monitor{
		Index:   -1,
		Bounds:  mi.RcMonitor.toRectangle(),
		Work:    mi.RcWork.toRectangle(),
		Primary: mi.DwFlags&monitorInfoPrimary != 0,
	}, nil
}
