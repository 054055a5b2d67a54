// Package display 提供多显示器几何信息：显示器定位、工作区估算、坐标夹取
package display

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupported 当前平台不提供该系统接口
var ErrUnsupported = errors.New("当前平台不支持")

// Mode 截图模式
type Mode int

const (
	// Full 整个显示器（含任务栏）
	Full Mode = iota
	// WorkArea 显示器工作区（不含任务栏）
	WorkArea
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case WorkArea:
		return "work_area"
	default:
		return "unknown"
	}
}

// ParseMode 解析截图模式字符串
func ParseMode(s string) (Mode, error) {
	switch s {
	case "full", "":
		return Full, nil
	case "work_area", "workarea":
		return WorkArea, nil
	default:
		return Full, fmt.Errorf("未知的截图模式: %q", s)
	}
}

// Monitor 显示器信息（全局虚拟桌面坐标）
type Monitor struct {
	Index   int             `json:"index"`
	Bounds  image.Rectangle `json:"bounds"`
	Work    image.Rectangle `json:"work"` // 系统报告的工作区，未知时为空
	Primary bool            `json:"primary"`
}

// Rect 按模式返回截图矩形；工作区未知时按任务栏高度估算
func (m Monitor) Rect(mode Mode) image.Rectangle {
	if mode == Full {
		return m.Bounds
	}
	if !m.Work.Empty() {
		return m.Work
	}
	return EstimateWorkArea(m.Bounds)
}

// TaskbarHeight 根据屏幕高度估算任务栏高度（像素）
func TaskbarHeight(screenHeight int) int {
	switch {
	case screenHeight >= 2160:
		return 100
	case screenHeight >= 1440:
		return 80
	case screenHeight >= 1080:
		return 70
	default:
		return 60
	}
}

// EstimateWorkArea 从矩形底部扣除估算的任务栏高度
func EstimateWorkArea(bounds image.Rectangle) image.Rectangle {
	h := TaskbarHeight(bounds.Dy())
	if h >= bounds.Dy() {
		return bounds
	}
	work := bounds
	work.Max.Y -= h
	return work
}

// Locate 返回包含该点的第一个显示器；都不包含时（例如落在显示器之间的空隙）返回第一个显示器
func Locate(monitors []Monitor, pt image.Point) (Monitor, bool) {
	for _, m := range monitors {
		if pt.In(m.Bounds) {
			return m, true
		}
	}
	if len(monitors) > 0 {
		return monitors[0], false
	}
	return Monitor{}, false
}

// ClampMargin 主显示器外坐标夹取时保留的边距
const ClampMargin = 5

// Clamp 将点夹取到矩形内：小于下界取下界，达到或超过上界取 上界-ClampMargin
func Clamp(pt image.Point, r image.Rectangle) image.Point {
	return image.Point{
		X: clampAxis(pt.X, r.Min.X, r.Max.X),
		Y: clampAxis(pt.Y, r.Min.Y, r.Max.Y),
	}
}

func clampAxis(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v >= hi {
		v = hi - ClampMargin
		if v < lo {
			v = lo
		}
	}
	return v
}
