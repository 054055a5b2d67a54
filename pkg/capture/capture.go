// Package capture 根据点击坐标定位显示器并截取整屏或工作区。
//
// 截图由一组按优先级排列的策略完成，前一个策略失败（返回错误或 panic）
// 时自动降级到下一个；全部失败时返回占位图而不是错误，因为调用方运行在
// 全局鼠标钩子的回调里，错误无处上报。
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/display"
)

// ErrNoMonitor 后端没有报告任何显示器
var ErrNoMonitor = errors.New("未检测到显示器")

// Result 截图结果
type Result struct {
	// Image 截取的位图
	Image image.Image
	// Rect 截取区域（全局坐标）
	Rect image.Rectangle
	// Local 点击坐标相对于位图左上角的位置
	Local image.Point
	// Method 产生该位图的策略描述，仅用于诊断
	Method string
}

// StrategyFunc 单个截图策略
type StrategyFunc func(pt image.Point, mode display.Mode) (*Result, error)

// Strategy 命名的截图策略
type Strategy struct {
	Name    string
	Capture StrategyFunc
}

// Resolver 按顺序尝试截图策略
type Resolver struct {
	strategies []Strategy
}

// NewResolver 使用给定策略链创建 Resolver
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// NewDefaultResolver 使用本机后端创建完整策略链
func NewDefaultResolver() *Resolver {
	fast := NewFastGrabBackend()
	rg := NewRobotgoBackend()
	return NewResolver(
		NativeStrategy(NewOSLocator(), fast),
		MonitorStrategy("fastgrab", fast),
		MonitorStrategy("enumerate", rg),
		PrimaryStrategy(rg),
		DefaultStrategy(rg),
	)
}

// Strategies 返回策略名称（按尝试顺序）
func (r *Resolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name
	}
	return names
}

// Resolve 截取包含 pt 的显示器；不会返回错误
func (r *Resolver) Resolve(pt image.Point, mode display.Mode) Result {
	start := time.Now()
	var lastErr error

	for _, s := range r.strategies {
		res, err := run(s, pt, mode)
		if err == nil && (res == nil || res.Image == nil) {
			err = fmt.Errorf("%s: 未返回图像", s.Name)
		}
		if err != nil {
			logger.Debug("截图策略 %s 失败: %v", s.Name, err)
			lastErr = err
			continue
		}
		if res.Method == "" {
			res.Method = s.Name
		}
		logger.LogEvent("CAP", true, time.Since(start),
			fmt.Sprintf("%s %s (%d,%d)->(%d,%d)", res.Method, mode, pt.X, pt.Y, res.Local.X, res.Local.Y))
		return *res
	}

	if lastErr == nil {
		lastErr = errors.New("没有可用的截图策略")
	}
	logger.LogEvent("CAP", false, time.Since(start), lastErr.Error())
	return Placeholder(lastErr)
}

// run 执行单个策略，将 panic 转换为错误
func run(s Strategy, pt image.Point, mode display.Mode) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%s: panic: %v", s.Name, p)
		}
	}()
	return s.Capture(pt, mode)
}

// 占位图尺寸
const (
	PlaceholderWidth  = 200
	PlaceholderHeight = 150
)

// Placeholder 生成纯色占位图，Method 中携带最后一个错误
func Placeholder(cause error) Result {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 128, G: 128, B: 128, A: 255}), image.Point{}, draw.Src)

	msg := "unknown"
	if cause != nil {
		msg = cause.Error()
	}
	return Result{
		Image:  img,
		Rect:   img.Bounds(),
		Local:  image.Point{},
		Method: "placeholder: " + msg,
	}
}
