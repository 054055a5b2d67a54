//go:build !darwin

package permissions

// 非 macOS 系统不需要额外授权
func check() Status {
	return Status{Accessibility: true, ScreenRecording: true}
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {}

// OpenScreenRecordingSettings 打开屏幕录制设置页面
func OpenScreenRecordingSettings() {}
