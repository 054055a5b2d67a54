package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatisfies(t *testing.T) {
	assert.True(t, Status{ScreenRecording: true}.Satisfies(false))
	assert.False(t, Status{ScreenRecording: true}.Satisfies(true))
	assert.True(t, Status{ScreenRecording: true, Accessibility: true}.Satisfies(true))
	assert.False(t, Status{Accessibility: true}.Satisfies(false))
}

func TestInstructions(t *testing.T) {
	full := Status{ScreenRecording: true, Accessibility: true}
	assert.Empty(t, full.Instructions(true))

	msg := Status{ScreenRecording: true}.Instructions(true)
	assert.Contains(t, msg, "辅助功能")
	assert.NotContains(t, msg, "屏幕录制权限")

	msg = Status{}.Instructions(false)
	assert.Contains(t, msg, "屏幕录制权限")
	assert.NotContains(t, msg, "辅助功能权限")
}
