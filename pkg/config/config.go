// Package config 管理截图取证工具的本地配置（YAML）
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
)

// 截图模式
const (
	ModeFull     = "full"
	ModeWorkArea = "work_area"
)

// 时间戳叠加策略
const (
	OverlayAuto   = "auto"
	OverlayAlways = "always"
	OverlayNever  = "never"
)

// OverlayStyle 时间戳叠加样式
type OverlayStyle struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Color      string  `yaml:"color"`
	Background string  `yaml:"background"`
	FontSize   int     `yaml:"font_size"`
	Format     string  `yaml:"format"`
}

// MarkerStyle 点击标记样式
type MarkerStyle struct {
	Enabled bool   `yaml:"enabled"`
	Radius  int    `yaml:"radius"`
	Color   string `yaml:"color"`
}

// DocumentSettings 文档生成设置
type DocumentSettings struct {
	Title         string `yaml:"title"`
	Author        string `yaml:"author"`
	MaxImageWidth int    `yaml:"max_image_width"`
}

// Settings 工具配置
type Settings struct {
	OutputDir        string           `yaml:"output_dir"`
	CaptureMode      string           `yaml:"capture_mode"`
	TimestampOverlay string           `yaml:"timestamp_overlay"`
	Overlay          OverlayStyle     `yaml:"overlay"`
	Marker           MarkerStyle      `yaml:"marker"`
	Document         DocumentSettings `yaml:"document"`
	LogLevel         string           `yaml:"log_level"`
	LogFile          string           `yaml:"log_file"`
}

// DefaultSettings 默认配置
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:        "evidencias",
		CaptureMode:      ModeFull,
		TimestampOverlay: OverlayAuto,
		Overlay: OverlayStyle{
			X:          0.80,
			Y:          0.94,
			Color:      "#FFFFFF",
			Background: "#000000B4",
			FontSize:   20,
			Format:     "02/01/2006 15:04:05",
		},
		Marker: MarkerStyle{
			Enabled: true,
			Radius:  12,
			Color:   "#FF0000",
		},
		Document: DocumentSettings{
			Title:         "Evidências de Teste",
			MaxImageWidth: 1600,
		},
		LogLevel: "info",
	}
}

// Validate 校验配置取值
func (s *Settings) Validate() error {
	switch s.CaptureMode {
	case ModeFull, ModeWorkArea:
	default:
		return fmt.Errorf("无效的截图模式: %q", s.CaptureMode)
	}
	switch s.TimestampOverlay {
	case OverlayAuto, OverlayAlways, OverlayNever:
	default:
		return fmt.Errorf("无效的时间戳策略: %q", s.TimestampOverlay)
	}
	if s.Overlay.X < 0 || s.Overlay.X > 1 || s.Overlay.Y < 0 || s.Overlay.Y > 1 {
		return errors.New("时间戳位置必须在 0..1 之间")
	}
	if s.Overlay.FontSize <= 0 {
		return errors.New("时间戳字号必须大于 0")
	}
	return nil
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return NewManagerWithDir(filepath.Join(homeDir, ".zoey-evidence"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.yaml"),
	}
}

// Load 加载配置，文件缺失的字段沿用默认值
func (m *Manager) Load() (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.configFile)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("配置文件无效: %w", err)
	}

	return settings, nil
}

// Save 保存配置
func (m *Manager) Save(settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.configFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}
