//go:build windows

package display

import (
	"math"
	"sync"

	"github.com/go-vgo/robotgo"
)

// =====================================================================
// Windows 坐标空间
// =====================================================================
//
//   1. 物理像素: 截图像素、全局鼠标钩子报告的坐标
//   2. robotgo 坐标: robotgo.Location()/GetScreenSize() 所在空间
//
// DPI Aware 进程中 robotgo.GetScreenSize() 可能返回物理或逻辑尺寸，
// 因此首次使用时对比截图尺寸与 GetScreenSize() 探测缩放比。
// =====================================================================

const logpixelsX = 88

var (
	dpiOnce        sync.Once
	cachedDPIScale float64

	coordOnce   sync.Once
	coordScaleX float64
	coordScaleY float64
)

// DPIScale 获取 Windows DPI 缩放比例（1.0 = 100%）
func DPIScale() float64 {
	dpiOnce.Do(func() {
		cachedDPIScale = detectDPIScale()
	})
	return cachedDPIScale
}

func detectDPIScale() float64 {
	initUser32()
	var dpi int

	// 方法1: GetDpiForWindow (Windows 10 1607+)
	if procGetDpiForWindow.Find() == nil {
		hwnd, _, _ := procGetForegroundWnd.Call()
		if hwnd == 0 {
			hwnd, _, _ = procGetDesktopWindow.Call()
		}
		if hwnd != 0 {
			if d, _, _ := procGetDpiForWindow.Call(hwnd); d > 0 {
				dpi = int(d)
			}
		}
	}

	// 方法2: GDI GetDeviceCaps
	if dpi == 0 && procGetDC.Find() == nil && procGetDeviceCaps.Find() == nil {
		if dc, _, _ := procGetDC.Call(0); dc != 0 {
			if d, _, _ := procGetDeviceCaps.Call(dc, uintptr(logpixelsX)); d > 0 {
				dpi = int(d)
			}
			procReleaseDC.Call(0, dc)
		}
	}

	if dpi <= 0 {
		dpi = 96
	}
	return normalizeScale(float64(dpi) / 96.0)
}

// CoordinateScale 截图物理像素与 robotgo 坐标之比（物理 = robotgo * scale）
func CoordinateScale() (float64, float64) {
	coordOnce.Do(func() {
		coordScaleX, coordScaleY = 1.0, 1.0

		reportedW, reportedH := robotgo.GetScreenSize()
		if reportedW <= 0 || reportedH <= 0 {
			return
		}
		img, err := robotgo.CaptureImg()
		if err != nil || img == nil {
			// 截图失败，用 DPI 兜底
			s := DPIScale()
			coordScaleX, coordScaleY = s, s
			return
		}
		coordScaleX = normalizeScale(float64(img.Bounds().Dx()) / float64(reportedW))
		coordScaleY = normalizeScale(float64(img.Bounds().Dy()) / float64(reportedH))
	})
	return coordScaleX, coordScaleY
}

func normalizeScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1.0
	}
	if v < 0.5 || v > 4.0 {
		return 1.0
	}
	if math.Abs(v-1.0) < 0.05 {
		return 1.0
	}
	return v
}

// ToPhysical 将 robotgo 坐标转换为物理像素坐标
func ToPhysical(x, y int) (int, int) {
	sx, sy := CoordinateScale()
	return ScaleInt(x, sx), ScaleInt(y, sy)
}
