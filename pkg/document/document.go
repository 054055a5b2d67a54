// Package document 将会话中的有效证据汇编为 Word 文档或 PDF
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/ledger"
)

// ErrNoItems 没有可汇编的证据
var ErrNoItems = errors.New("没有有效的证据")

// 正文可用宽度（EMU）：A4 纸去掉左右各 2.5cm 页边距
const contentWidthEMU = 16 * 360000

// Item 一张证据
type Item struct {
	Path    string
	Comment string
	Overlay *ledger.Overlay
}

// Header 文档页眉信息
type Header struct {
	Title   string
	Author  string
	Session string
	Host    string
	Date    time.Time
}

// Builder 文档生成器
type Builder struct {
	Header        Header
	MaxImageWidth int
}

// NewBuilder 创建文档生成器
func NewBuilder(h Header, maxImageWidth int) *Builder {
	if h.Date.IsZero() {
		h.Date = time.Now()
	}
	return &Builder{Header: h, MaxImageWidth: maxImageWidth}
}

// Build 生成 .docx；失败时不留下不完整的输出文件
func (b *Builder) Build(ctx context.Context, items []Item, out string) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	start := time.Now()

	images, err := renderAll(ctx, items, b.MaxImageWidth)
	if err != nil {
		return fmt.Errorf("准备图像失败: %w", err)
	}

	w := docx.New().WithDefaultTheme()
	b.writeHeader(w, len(items))

	for i, item := range items {
		p := w.AddParagraph().Justification("center")
		r, err := p.AddInlineDrawing(images[i])
		if err != nil {
			return fmt.Errorf("插入图像 %s 失败: %w", filepath.Base(item.Path), err)
		}
		fitToPage(r)

		caption := w.AddParagraph()
		caption.AddText(fmt.Sprintf("%d. %s", i+1, filepath.Base(item.Path))).Size("18").Color("808080")
		if item.Comment != "" {
			w.AddParagraph().AddText(item.Comment).Size("22")
		}
	}

	if err := writeFile(out, func(f *os.File) error {
		_, err := w.WriteTo(f)
		return err
	}); err != nil {
		return err
	}

	logger.LogEvent("DOC", true, time.Since(start), fmt.Sprintf("%d 张证据 -> %s", len(items), out))
	return nil
}

func (b *Builder) writeHeader(w *docx.Docx, count int) {
	h := b.Header
	if h.Title != "" {
		w.AddParagraph().Justification("center").AddText(h.Title).Size("36").Bold()
	}

	line := h.Date.Format("02/01/2006 15:04")
	if h.Host != "" {
		line += " | " + h.Host
	}
	if h.Author != "" {
		line += " | " + h.Author
	}
	w.AddParagraph().Justification("center").AddText(line).Size("20")

	meta := fmt.Sprintf("%d evidências", count)
	if h.Session != "" {
		meta += " | sessão " + h.Session
	}
	w.AddParagraph().Justification("center").AddText(meta).Size("18").Color("808080")
}

// fitToPage 图像宽于正文时等比缩放
func fitToPage(r *docx.Run) {
	if len(r.Children) == 0 {
		return
	}
	d, ok := r.Children[0].(*docx.Drawing)
	if !ok || d.Inline == nil || d.Inline.Extent == nil {
		return
	}
	cx, cy := d.Inline.Extent.CX, d.Inline.Extent.CY
	if cx <= contentWidthEMU || cx == 0 {
		return
	}
	d.Inline.Size(contentWidthEMU, cy*contentWidthEMU/cx)
}

// writeFile 先写临时文件，成功后重命名为 out
func writeFile(out string, write func(f *os.File) error) error {
	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".evidencias-*.part")
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	name := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("写入文档失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("写入文档失败: %w", err)
	}
	if err := os.Rename(name, out); err != nil {
		os.Remove(name)
		return fmt.Errorf("保存文档失败: %w", err)
	}
	return nil
}
