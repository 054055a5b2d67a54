// Package session 驱动一次截图取证会话：监听点击、截图、记账、汇编文档
package session

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/google/uuid"

	"github.com/zoeyai/zoeyevidence/pkg/annotate"
	"github.com/zoeyai/zoeyevidence/pkg/config"
	"github.com/zoeyai/zoeyevidence/pkg/display"
)

var (
	// ErrNotRecording 会话未在录制（或已暂停）
	ErrNotRecording = errors.New("当前未在录制")
	// ErrLedgerCleanup 文档已生成，但删除台账失败
	ErrLedgerCleanup = errors.New("文档已生成，删除台账失败")
)

// OverlayPolicy 时间戳叠加策略
type OverlayPolicy string

const (
	// OverlayAuto 仅在工作区模式下叠加（截图不含任务栏时钟）
	OverlayAuto   OverlayPolicy = config.OverlayAuto
	OverlayAlways OverlayPolicy = config.OverlayAlways
	OverlayNever  OverlayPolicy = config.OverlayNever
)

// ParseOverlayPolicy 解析叠加策略
func ParseOverlayPolicy(s string) (OverlayPolicy, error) {
	switch p := OverlayPolicy(s); p {
	case OverlayAuto, OverlayAlways, OverlayNever:
		return p, nil
	case "":
		return OverlayAuto, nil
	default:
		return "", fmt.Errorf("未知的时间戳策略: %q", s)
	}
}

// Applies 该模式下是否叠加时间戳
func (p OverlayPolicy) Applies(mode display.Mode) bool {
	switch p {
	case OverlayAlways:
		return true
	case OverlayNever:
		return false
	default:
		return mode == display.WorkArea
	}
}

// OverlayStyle 时间戳样式
type OverlayStyle struct {
	X, Y       float64
	Color      string
	Background string
	FontSize   int
	Format     string
}

// MarkerStyle 点击标记样式
type MarkerStyle struct {
	Enabled bool
	Radius  int
	Color   color.Color
}

// State 会话状态值；点击处理和文档汇编都基于它的快照
type State struct {
	ID        uuid.UUID
	Dir       string
	Mode      display.Mode
	Recording bool
	Paused    bool

	Overlay      OverlayPolicy
	OverlayStyle OverlayStyle
	Marker       MarkerStyle
}

// Active 正在录制且未暂停
func (s State) Active() bool {
	return s.Recording && !s.Paused
}

// NewState 使用默认样式创建会话状态
func NewState(dir string) State {
	st, _ := StateFromSettings(config.DefaultSettings(), dir)
	return st
}

// StateFromSettings 由配置生成会话状态；dir 为空时使用配置的输出目录
func StateFromSettings(s *config.Settings, dir string) (State, error) {
	if dir == "" {
		dir = s.OutputDir
	}
	mode, err := display.ParseMode(s.CaptureMode)
	if err != nil {
		return State{}, err
	}
	policy, err := ParseOverlayPolicy(s.TimestampOverlay)
	if err != nil {
		return State{}, err
	}
	markerColor, err := annotate.ParseHexColor(s.Marker.Color)
	if err != nil {
		return State{}, fmt.Errorf("标记颜色: %w", err)
	}

	return State{
		ID:      uuid.New(),
		Dir:     dir,
		Mode:    mode,
		Overlay: policy,
		OverlayStyle: OverlayStyle{
			X:          s.Overlay.X,
			Y:          s.Overlay.Y,
			Color:      s.Overlay.Color,
			Background: s.Overlay.Background,
			FontSize:   s.Overlay.FontSize,
			Format:     s.Overlay.Format,
		},
		Marker: MarkerStyle{
			Enabled: s.Marker.Enabled,
			Radius:  s.Marker.Radius,
			Color:   markerColor,
		},
	}, nil
}
