package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, ModeFull, s.CaptureMode)
	assert.Equal(t, OverlayAuto, s.TimestampOverlay)
	assert.Equal(t, "#FFFFFF", s.Overlay.Color)
	assert.True(t, s.Marker.Enabled)
	require.NoError(t, s.Validate())
}

func TestManagerSaveAndLoad(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())
	assert.False(t, manager.Exists(), "初始时配置文件不应存在")

	s := DefaultSettings()
	s.OutputDir = "/tmp/evidencias"
	s.CaptureMode = ModeWorkArea
	s.Overlay.FontSize = 28
	s.Document.Author = "QA"

	require.NoError(t, manager.Save(s))
	assert.True(t, manager.Exists(), "保存后配置文件应存在")

	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestManagerLoadPartialFile(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)

	require.NoError(t, os.WriteFile(manager.GetConfigFile(), []byte("capture_mode: work_area\n"), 0600))

	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, ModeWorkArea, loaded.CaptureMode)
	// 未写出的字段使用默认值
	assert.Equal(t, DefaultSettings().Overlay, loaded.Overlay)
}

func TestManagerClear(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())

	require.NoError(t, manager.Save(DefaultSettings()))
	require.True(t, manager.Exists())

	require.NoError(t, manager.Clear())
	assert.False(t, manager.Exists(), "清除后配置文件不应存在")

	// 清除不存在的文件不应报错
	assert.NoError(t, manager.Clear())
}

func TestManagerLoadNonExistent(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())

	s, err := manager.Load()
	require.NoError(t, err, "加载不存在的配置不应报错")
	assert.Equal(t, DefaultSettings(), s)
}

func TestManagerLoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("capture_mode: [unclosed"), 0600))

	s, err := manager.Load()
	assert.Error(t, err, "加载损坏的配置应返回错误")
	require.NotNil(t, s, "即使出错也应返回默认配置")
	assert.Equal(t, ModeFull, s.CaptureMode)
}

func TestManagerLoadInvalidValue(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)
	require.NoError(t, os.WriteFile(manager.GetConfigFile(), []byte("capture_mode: sideways\n"), 0600))

	s, err := manager.Load()
	assert.Error(t, err)
	assert.Equal(t, ModeFull, s.CaptureMode)
}

func TestSaveRejectsInvalid(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())
	s := DefaultSettings()
	s.Overlay.X = 1.5

	assert.Error(t, manager.Save(s))
	assert.False(t, manager.Exists())
}

func TestManagerPaths(t *testing.T) {
	dir := t.TempDir()
	manager := NewManagerWithDir(dir)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), manager.GetConfigFile())
}

func TestDefaultManager(t *testing.T) {
	manager := GetDefaultManager()
	require.NotNil(t, manager)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("无法获取用户目录: %v", err)
	}
	assert.Equal(t, filepath.Join(homeDir, ".zoey-evidence", "config.yaml"), manager.GetConfigFile())
}

func TestConfigFilePermissions(t *testing.T) {
	manager := NewManagerWithDir(t.TempDir())
	require.NoError(t, manager.Save(DefaultSettings()))

	info, err := os.Stat(manager.GetConfigFile())
	require.NoError(t, err)
	t.Logf("配置文件权限: %o", info.Mode().Perm())
}
