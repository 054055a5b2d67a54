package capture

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"

	"github.com/zoeyai/zoeyevidence/pkg/display"
)

// OSLocator 使用系统显示器接口定位
type OSLocator struct{}

// NewOSLocator 创建系统定位器
func NewOSLocator() OSLocator { return OSLocator{} }

// MonitorAt 查询包含该点的显示器
func (OSLocator) MonitorAt(pt image.Point) (display.Monitor, error) {
	return display.MonitorAt(pt)
}

// FastGrabBackend 基于 kbinani/screenshot 的多显示器截图
type FastGrabBackend struct{}

// NewFastGrabBackend 创建快速截图后端
func NewFastGrabBackend() FastGrabBackend { return FastGrabBackend{} }

// Monitors 枚举活动显示器
func (FastGrabBackend) Monitors() ([]display.Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoMonitor
	}

	monitors := make([]display.Monitor, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, display.Monitor{
			Index:   i,
			Bounds:  b,
			Primary: b.Min == image.Point{},
		})
	}
	return monitors, nil
}

// Grab 截取矩形
func (FastGrabBackend) Grab(r image.Rectangle) (image.Image, error) {
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("screenshot 截图失败: %w", err)
	}
	return img, nil
}

// robotgoScreen robotgo 中与截图相关的调用，坐标均为 robotgo 坐标空间
type robotgoScreen interface {
	DisplaysNum() int
	GetDisplayBounds(i int) (x, y, w, h int)
	GetScreenSize() (int, int)
	CaptureImg(args ...int) (image.Image, error)
}

type robotgoLib struct{}

func (robotgoLib) DisplaysNum() int                            { return robotgo.DisplaysNum() }
func (robotgoLib) GetDisplayBounds(i int) (int, int, int, int) { return robotgo.GetDisplayBounds(i) }
func (robotgoLib) GetScreenSize() (int, int)                   { return robotgo.GetScreenSize() }
func (robotgoLib) CaptureImg(args ...int) (image.Image, error) { return robotgo.CaptureImg(args...) }

// RobotgoBackend 基于 robotgo 的显示器枚举与截图。
// 对外一律使用物理像素（与截图和全局钩子一致），调用 robotgo 前后做坐标换算。
type RobotgoBackend struct {
	screen robotgoScreen
	scale  func() (float64, float64)
}

// NewRobotgoBackend 创建 robotgo 后端
func NewRobotgoBackend() RobotgoBackend {
	return RobotgoBackend{screen: robotgoLib{}, scale: display.CoordinateScale}
}

// Monitors 枚举显示器（物理像素）
func (b RobotgoBackend) Monitors() ([]display.Monitor, error) {
	n := b.screen.DisplaysNum()
	if n <= 0 {
		return nil, ErrNoMonitor
	}

	sx, sy := b.scale()
	monitors := make([]display.Monitor, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := b.screen.GetDisplayBounds(i)
		if w <= 0 || h <= 0 {
			continue
		}
		monitors = append(monitors, display.Monitor{
			Index:   i,
			Bounds:  display.ScaleRect(image.Rect(x, y, x+w, y+h), sx, sy),
			Primary: x == 0 && y == 0,
		})
	}
	return monitors, nil
}

// Grab 截取物理像素矩形
func (b RobotgoBackend) Grab(r image.Rectangle) (image.Image, error) {
	sx, sy := b.scale()
	lr := display.UnscaleRect(r, sx, sy)
	img, err := b.screen.CaptureImg(lr.Min.X, lr.Min.Y, lr.Dx(), lr.Dy())
	if err != nil {
		return nil, fmt.Errorf("robotgo 截图失败: %w", err)
	}
	return img, nil
}

// PrimaryBounds 主显示器范围（物理像素，与 GrabPrimary 的位图一致）
func (b RobotgoBackend) PrimaryBounds() (image.Rectangle, error) {
	w, h := b.screen.GetScreenSize()
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, ErrNoMonitor
	}
	sx, sy := b.scale()
	return display.ScaleRect(image.Rect(0, 0, w, h), sx, sy), nil
}

// GrabPrimary 截取主显示器全屏
func (b RobotgoBackend) GrabPrimary() (image.Image, error) {
	img, err := b.screen.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("robotgo 全屏截图失败: %w", err)
	}
	return img, nil
}
