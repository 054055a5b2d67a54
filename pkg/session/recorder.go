package session

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/annotate"
	"github.com/zoeyai/zoeyevidence/pkg/capture"
	"github.com/zoeyai/zoeyevidence/pkg/display"
	"github.com/zoeyai/zoeyevidence/pkg/ledger"
)

// Resolver 按点击位置截图
type Resolver interface {
	Resolve(pt image.Point, mode display.Mode) capture.Result
}

// Recorder 把一次点击变成一张证据
type Recorder struct {
	mu       sync.Mutex
	resolver Resolver
	ledger   *ledger.Ledger
	now      func() time.Time
}

// NewRecorder 创建记录器
func NewRecorder(r Resolver, l *ledger.Ledger) *Recorder {
	return &Recorder{resolver: r, ledger: l, now: time.Now}
}

// HandleClick 截取点击所在显示器，画标记，保存 PNG 并追加台账。
// 未录制或已暂停时返回 ErrNotRecording。
func (r *Recorder) HandleClick(st State, x, y int) (*ledger.Entry, error) {
	if !st.Active() {
		return nil, ErrNotRecording
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.resolver.Resolve(image.Pt(x, y), st.Mode)
	img := annotate.ToRGBA(res.Image)
	if st.Marker.Enabled && st.Marker.Color != nil {
		annotate.DrawMarker(img, res.Local, st.Marker.Radius, st.Marker.Color)
	}

	name, err := r.writeImage(st.Dir, img)
	if err != nil {
		return nil, err
	}

	var overlay *ledger.Overlay
	if st.Overlay.Applies(st.Mode) {
		o := st.OverlayStyle
		overlay = &ledger.Overlay{
			Text:       r.now().Format(o.Format),
			X:          o.X,
			Y:          o.Y,
			Color:      o.Color,
			Background: o.Background,
			FontSize:   o.FontSize,
		}
	}

	entry, err := r.ledger.Append(name, overlay, res.Method)
	if err != nil {
		// 台账未记录，图像也不保留
		os.Remove(filepath.Join(st.Dir, name))
		return nil, fmt.Errorf("记录证据失败: %w", err)
	}

	logger.Info("证据 #%d 已保存: %s (%s)", entry.ID, name, res.Method)
	return &entry, nil
}

// writeImage 以 evidencia_NNN.png 命名写入，已存在的文件不会被覆盖
func (r *Recorder) writeImage(dir string, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建截图目录失败: %w", err)
	}

	id := r.ledger.NextID()
	for n := 1; n < 1000; n++ {
		name := fmt.Sprintf("evidencia_%03d.png", id)
		if n > 1 {
			name = fmt.Sprintf("evidencia_%03d_%d.png", id, n)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("创建截图文件失败: %w", err)
		}

		if err := png.Encode(f, img); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("写入截图失败: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("写入截图失败: %w", err)
		}
		return name, nil
	}
	return "", fmt.Errorf("无法为证据 %d 分配文件名", id)
}
