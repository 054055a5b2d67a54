//go:build !windows

package display

import "image"

// MonitorAt 非 Windows 平台没有可用的工作区查询接口
func MonitorAt(pt image.Point) (Monitor, error) {
	return Monitor{}, ErrUnsupported
}
