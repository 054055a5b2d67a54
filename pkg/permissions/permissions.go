// Package permissions 检查截图与全局点击监听所需的系统权限
package permissions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotGranted 缺少必要权限
var ErrNotGranted = errors.New("缺少系统权限")

// Status 权限状态
type Status struct {
	// Accessibility 辅助功能（全局鼠标监听）
	Accessibility bool `json:"accessibility"`
	// ScreenRecording 屏幕录制（截图）
	ScreenRecording bool `json:"screen_recording"`
}

// Check 检查当前权限（不触发系统弹窗）
func Check() Status {
	return check()
}

// Satisfies 判断是否满足需求；listen 为 true 时还需要辅助功能权限
func (s Status) Satisfies(listen bool) bool {
	if !s.ScreenRecording {
		return false
	}
	return !listen || s.Accessibility
}

// Instructions 缺失权限的授权说明；权限齐全时返回空字符串
func (s Status) Instructions(listen bool) string {
	if s.Satisfies(listen) {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n\n")
	if !s.ScreenRecording {
		b.WriteString("- 屏幕录制权限 (用于截取证据图像)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 屏幕录制\n\n")
	}
	if listen && !s.Accessibility {
		b.WriteString("- 辅助功能权限 (用于监听鼠标点击)\n")
		b.WriteString("  系统设置 > 隐私与安全性 > 辅助功能\n\n")
	}
	b.WriteString("授权后需要重启终端才能生效。")
	return b.String()
}

// Ensure 权限不足时返回带说明的错误，并打开对应的设置页面
func Ensure(listen bool) error {
	s := Check()
	if s.Satisfies(listen) {
		return nil
	}
	if !s.ScreenRecording {
		OpenScreenRecordingSettings()
	} else {
		OpenAccessibilitySettings()
	}
	return fmt.Errorf("%w\n\n%s", ErrNotGranted, s.Instructions(listen))
}
