// Package ledger 维护一次截图会话的证据台账。
//
// 台账只追加、软删除：删除的条目保留在文件里以保证 ID 单调递增。
// 每次修改都同步整体写回磁盘；写盘失败时内存状态回滚，便于用户重试。
package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zoeyai/zoeyevidence/internal/logger"
)

// ErrEntryNotFound 台账中没有该文件的条目
var ErrEntryNotFound = errors.New("台账中没有该证据")

// Ledger 证据台账
type Ledger struct {
	mu    sync.Mutex
	dir   string
	store Store
	snap  Snapshot
	now   func() time.Time
}

// Load 从 dir 加载台账；文件不存在或已损坏时返回空台账，不会失败
func Load(dir string) *Ledger {
	return Open(dir, NewJSONStore(dir))
}

// Open 使用指定存储加载台账
func Open(dir string, store Store) *Ledger {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	l := &Ledger{
		dir:   dir,
		store: store,
		snap:  emptySnapshot(),
		now:   time.Now,
	}

	snap, err := store.Load()
	switch {
	case err == nil:
		snap.normalize()
		l.snap = *snap
	case errors.Is(err, os.ErrNotExist):
	default:
		logger.Warn("台账 %s 无法读取，按空台账处理: %v", store.Path(), err)
	}
	return l
}

// Dir 截图目录
func (l *Ledger) Dir() string {
	return l.dir
}

// Path 台账文件路径
func (l *Ledger) Path() string {
	return l.store.Path()
}

// mutate 在副本上修改并写盘，成功后才替换内存状态
func (l *Ledger) mutate(fn func(s *Snapshot) error) error {
	next := l.snap.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := l.store.Save(&next); err != nil {
		return err
	}
	l.snap = next
	return nil
}

func indexOf(s *Snapshot, fileName string) int {
	for i, e := range s.Entries {
		if e.FileName == fileName {
			return i
		}
	}
	return -1
}

// Append 追加一条证据并立即写盘
func (l *Ledger) Append(fileName string, overlay *Overlay, method string) (Entry, error) {
	if fileName == "" {
		return Entry{}, errors.New("文件名不能为空")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var added Entry
	err := l.mutate(func(s *Snapshot) error {
		added = Entry{
			ID:            s.NextID,
			FileName:      fileName,
			CapturedAt:    l.now().Truncate(time.Second),
			CaptureMethod: method,
		}
		if overlay != nil {
			o := *overlay
			o.X, o.Y = clampFraction(o.X), clampFraction(o.Y)
			added.Overlay = &o
		}
		s.Entries = append(s.Entries, added)
		s.NextID++
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return added.clone(), nil
}

// SetComment 修改条目备注
func (l *Ledger) SetComment(fileName, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(func(s *Snapshot) error {
		i := indexOf(s, fileName)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, fileName)
		}
		s.Entries[i].Comment = text
		return nil
	})
}

// SoftDelete 将条目标记为已删除（图像文件由调用方删除）
func (l *Ledger) SoftDelete(fileName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(func(s *Snapshot) error {
		i := indexOf(s, fileName)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, fileName)
		}
		s.Entries[i].Deleted = true
		return nil
	})
}

// SetOverlayPosition 移动时间戳位置；条目没有时间戳时返回错误
func (l *Ledger) SetOverlayPosition(fileName string, x, y float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mutate(func(s *Snapshot) error {
		i := indexOf(s, fileName)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, fileName)
		}
		o := s.Entries[i].Overlay
		if o == nil {
			return fmt.Errorf("证据 %s 没有时间戳叠加", fileName)
		}
		o.X, o.Y = clampFraction(x), clampFraction(y)
		return nil
	})
}

// CommentFor 返回备注，没有条目时返回空字符串
func (l *Ledger) CommentFor(fileName string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := indexOf(&l.snap, fileName); i >= 0 {
		return l.snap.Entries[i].Comment
	}
	return ""
}

// Find 按文件名查找条目
func (l *Ledger) Find(fileName string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := indexOf(&l.snap, fileName); i >= 0 {
		return l.snap.Entries[i].clone(), true
	}
	return Entry{}, false
}

// FilePath 条目图像的绝对路径
func (l *Ledger) FilePath(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(l.dir, fileName)
}

// ActiveEntries 未删除且图像仍在磁盘上的条目，按追加顺序
func (l *Ledger) ActiveEntries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.snap.Entries {
		if e.Deleted {
			continue
		}
		if _, err := os.Stat(l.FilePath(e.FileName)); err != nil {
			continue
		}
		out = append(out, e.clone())
	}
	return out
}

// ActivePaths 有效证据的绝对路径，按追加顺序
func (l *Ledger) ActivePaths() []string {
	entries := l.ActiveEntries()
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = l.FilePath(e.FileName)
	}
	return paths
}

// Entries 全部条目（含已删除）
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.snap.Entries))
	for i, e := range l.snap.Entries {
		out[i] = e.clone()
	}
	return out
}

// Len 条目总数（含已删除）
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.snap.Entries)
}

// NextID 下一条证据将使用的 ID
func (l *Ledger) NextID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap.NextID
}

// Remove 删除台账文件（文档生成完成后调用），内存状态重置为空
func (l *Ledger) Remove() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Remove(); err != nil {
		return fmt.Errorf("删除台账失败: %w", err)
	}
	l.snap = emptySnapshot()
	return nil
}
