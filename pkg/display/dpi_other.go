//go:build !windows

package display

// DPIScale 非 Windows 平台返回 1.0
func DPIScale() float64 {
	return 1.0
}

// ToPhysical 非 Windows 平台无需缩放（macOS Retina 由 robotgo 自行处理）
func ToPhysical(x, y int) (int, int) {
	return x, y
}

// CoordinateScale 非 Windows 平台 robotgo 坐标即截图像素
func CoordinateScale() (float64, float64) {
	return 1.0, 1.0
}
