package capture

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/zoeyai/zoeyevidence/pkg/display"
)

// MonitorLocator 系统级显示器定位（可报告真实工作区）
type MonitorLocator interface {
	MonitorAt(pt image.Point) (display.Monitor, error)
}

// Grabber 截取全局坐标下的矩形区域
type Grabber interface {
	Grab(r image.Rectangle) (image.Image, error)
}

// MonitorSource 可枚举显示器并截取区域的后端
type MonitorSource interface {
	Grabber
	Monitors() ([]display.Monitor, error)
}

// PrimarySource 只能截取主显示器的后端
type PrimarySource interface {
	PrimaryBounds() (image.Rectangle, error)
	GrabPrimary() (image.Image, error)
}

// NativeStrategy 由系统接口确定显示器和工作区，再用 g 截取该矩形
func NativeStrategy(loc MonitorLocator, g Grabber) Strategy {
	return Strategy{
		Name: "native",
		Capture: func(pt image.Point, mode display.Mode) (*Result, error) {
			m, err := loc.MonitorAt(pt)
			if err != nil {
				return nil, err
			}
			rect := m.Rect(mode)
			img, err := g.Grab(rect)
			if err != nil {
				return nil, fmt.Errorf("截取区域 %v 失败: %w", rect, err)
			}
			return &Result{
				Image:  img,
				Rect:   rect,
				Local:  pt.Sub(rect.Min),
				Method: fmt.Sprintf("native:%v", rect),
			}, nil
		},
	}
}

// MonitorStrategy 枚举 src 的显示器，选择包含该点的一个（没有则取第一个）；
// 工作区按屏幕高度估算任务栏
func MonitorStrategy(name string, src MonitorSource) Strategy {
	return Strategy{
		Name: name,
		Capture: func(pt image.Point, mode display.Mode) (*Result, error) {
			monitors, err := src.Monitors()
			if err != nil {
				return nil, err
			}
			if len(monitors) == 0 {
				return nil, ErrNoMonitor
			}

			m, hit := display.Locate(monitors, pt)
			rect := m.Rect(mode)
			img, err := src.Grab(rect)
			if err != nil {
				return nil, fmt.Errorf("截取显示器 %d 失败: %w", m.Index, err)
			}

			method := fmt.Sprintf("%s:display=%d", name, m.Index)
			if !hit {
				method += ",fallback"
			}
			return &Result{
				Image:  img,
				Rect:   rect,
				Local:  pt.Sub(rect.Min),
				Method: method,
			}, nil
		},
	}
}

// PrimaryStrategy 截取主显示器；工作区模式按估算裁掉任务栏，越界坐标夹取到显示器内
func PrimaryStrategy(src PrimarySource) Strategy {
	return Strategy{
		Name: "primary",
		Capture: func(pt image.Point, mode display.Mode) (*Result, error) {
			bounds, err := src.PrimaryBounds()
			if err != nil {
				return nil, err
			}
			if bounds.Empty() {
				return nil, ErrNoMonitor
			}
			img, err := src.GrabPrimary()
			if err != nil {
				return nil, err
			}

			rect := bounds
			if mode == display.WorkArea {
				rect = display.EstimateWorkArea(bounds)
				// 截图坐标系相对主显示器左上角
				crop := rect.Sub(bounds.Min).Add(img.Bounds().Min)
				img = cropImage(img, crop)
			}

			return &Result{
				Image:  img,
				Rect:   rect,
				Local:  display.Clamp(pt, rect).Sub(rect.Min),
				Method: "primary",
			}, nil
		},
	}
}

// DefaultStrategy 截取默认显示器全屏，坐标不做换算
func DefaultStrategy(src PrimarySource) Strategy {
	return Strategy{
		Name: "default",
		Capture: func(pt image.Point, mode display.Mode) (*Result, error) {
			img, err := src.GrabPrimary()
			if err != nil {
				return nil, err
			}
			return &Result{
				Image:  img,
				Rect:   img.Bounds(),
				Local:  pt,
				Method: "default",
			}, nil
		},
	}
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropImage 裁剪图像，结果左上角为 (0,0)
func cropImage(img image.Image, r image.Rectangle) image.Image {
	r = r.Intersect(img.Bounds())
	if si, ok := img.(subImager); ok {
		img = si.SubImage(r)
		r = img.Bounds()
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
