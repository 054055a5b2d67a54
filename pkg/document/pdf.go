package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/zoeyai/zoeyevidence/internal/logger"
)

// ExportPDF 每张证据一页导出 PDF（备注不写入）
func ExportPDF(ctx context.Context, items []Item, out string, maxImageWidth int) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	start := time.Now()

	images, err := renderAll(ctx, items, maxImageWidth)
	if err != nil {
		return fmt.Errorf("准备图像失败: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "zoeyevidence-pdf-")
	if err != nil {
		return fmt.Errorf("创建临时目录失败: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	files := make([]string, len(images))
	for i, data := range images {
		files[i] = filepath.Join(tmpDir, fmt.Sprintf("%03d.png", i+1))
		if err := os.WriteFile(files[i], data, 0644); err != nil {
			return fmt.Errorf("写入临时图像失败: %w", err)
		}
	}

	// 输出文件已存在时 pdfcpu 会追加页面，因此先写到临时目录
	tmpOut := filepath.Join(tmpDir, "out.pdf")
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImagesFile(files, tmpOut, pdfcpu.DefaultImportConfig(), conf); err != nil {
		return fmt.Errorf("生成 PDF 失败: %w", err)
	}

	if err := writeFile(out, func(f *os.File) error {
		src, err := os.Open(tmpOut)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = f.ReadFrom(src)
		return err
	}); err != nil {
		return err
	}

	logger.LogEvent("PDF", true, time.Since(start), fmt.Sprintf("%d 页 -> %s", len(items), out))
	return nil
}
