package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/display"
	"github.com/zoeyai/zoeyevidence/pkg/document"
	"github.com/zoeyai/zoeyevidence/pkg/ledger"
)

// Session 一次取证会话；状态由监听和控制两个 goroutine 共享
type Session struct {
	mu       sync.Mutex
	state    State
	ledger   *ledger.Ledger
	recorder *Recorder

	stopOnce sync.Once
	done     chan struct{}
}

// New 打开（或继续）st.Dir 下的会话
func New(st State, r Resolver) (*Session, error) {
	if st.Dir == "" {
		return nil, errors.New("截图目录不能为空")
	}
	if err := os.MkdirAll(st.Dir, 0755); err != nil {
		return nil, fmt.Errorf("创建截图目录失败: %w", err)
	}

	l := ledger.Load(st.Dir)
	st.Dir = l.Dir()
	st.Recording, st.Paused = false, false

	return &Session{
		state:    st,
		ledger:   l,
		recorder: NewRecorder(r, l),
		done:     make(chan struct{}),
	}, nil
}

// State 当前状态快照
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ledger 会话台账
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Done 会话停止后关闭
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Start 开始录制
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Recording, s.state.Paused = true, false
	logger.Info("开始录制，截图目录: %s，模式: %s", s.state.Dir, s.state.Mode)
}

// Pause 暂停录制
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Recording {
		return ErrNotRecording
	}
	s.state.Paused = true
	logger.Info("录制已暂停")
	return nil
}

// Resume 继续录制
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Recording {
		return ErrNotRecording
	}
	s.state.Paused = false
	logger.Info("录制已继续")
	return nil
}

// SetMode 切换截图模式，对之后的点击生效
func (s *Session) SetMode(m display.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = m
	logger.Info("截图模式: %s", m)
}

// Stop 停止录制；可重复调用
func (s *Session) Stop() {
	s.mu.Lock()
	s.state.Recording, s.state.Paused = false, false
	s.mu.Unlock()

	s.stopOnce.Do(func() {
		logger.Info("录制已停止，共 %d 张有效证据", len(s.ledger.ActivePaths()))
		close(s.done)
	})
}

// HandleClick 以当前状态快照处理一次点击
func (s *Session) HandleClick(x, y int) (*ledger.Entry, error) {
	return s.recorder.HandleClick(s.State(), x, y)
}

// Delete 先删除图像文件再软删除条目；文件删除失败时台账不变
func (s *Session) Delete(fileName string) error {
	if _, ok := s.ledger.Find(fileName); !ok {
		return fmt.Errorf("%w: %s", ledger.ErrEntryNotFound, fileName)
	}

	err := os.Remove(s.ledger.FilePath(fileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除图像失败: %w", err)
	}
	if err := s.ledger.SoftDelete(fileName); err != nil {
		return err
	}
	logger.Info("证据已删除: %s", fileName)
	return nil
}

// Comment 设置证据备注
func (s *Session) Comment(fileName, text string) error {
	return s.ledger.SetComment(fileName, text)
}

// MoveOverlay 移动时间戳位置（相对图像宽高的比例）
func (s *Session) MoveOverlay(fileName string, x, y float64) error {
	return s.ledger.SetOverlayPosition(fileName, x, y)
}

// Items 有效证据，按截图顺序
func (s *Session) Items() []document.Item {
	entries := s.ledger.ActiveEntries()
	items := make([]document.Item, len(entries))
	for i, e := range entries {
		items[i] = document.Item{
			Path:    s.ledger.FilePath(e.FileName),
			Comment: e.Comment,
			Overlay: e.Overlay,
		}
	}
	return items
}

// Finalize 生成文档；成功后删除台账，失败时保留台账以便重试。
// 文档已写出但台账删除失败时返回 ErrLedgerCleanup。
func (s *Session) Finalize(ctx context.Context, b *document.Builder, out string, keepLedger bool) error {
	if b.Header.Session == "" {
		b.Header.Session = s.State().ID.String()
	}
	if err := b.Build(ctx, s.Items(), out); err != nil {
		return err
	}
	if keepLedger {
		return nil
	}
	if err := s.ledger.Remove(); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerCleanup, err)
	}
	return nil
}
