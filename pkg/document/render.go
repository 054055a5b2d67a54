package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/annotate"
)

// Render 读取证据图像，叠加时间戳并按最大宽度缩小
func Render(item Item, maxWidth int) (*image.RGBA, error) {
	f, err := os.Open(item.Path)
	if err != nil {
		return nil, fmt.Errorf("打开图像失败: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码图像 %s 失败: %w", item.Path, err)
	}

	img := annotate.ToRGBA(src)
	if item.Overlay != nil {
		if err := annotate.DrawTimestamp(img, *item.Overlay); err != nil {
			return nil, err
		}
	}
	return downscale(img, maxWidth), nil
}

// downscale 宽度超过 maxWidth 时等比缩小；maxWidth <= 0 不缩放
func downscale(img *image.RGBA, maxWidth int) *image.RGBA {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// renderAll 并发渲染所有证据，结果与 items 顺序一致
func renderAll(ctx context.Context, items []Item, maxWidth int) ([][]byte, error) {
	out := make([][]byte, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range items {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			img, err := Render(items[i], maxWidth)
			if err != nil {
				return fmt.Errorf("证据 %d: %w", i+1, err)
			}
			data, err := encodePNG(img)
			if err != nil {
				return fmt.Errorf("证据 %d: %w", i+1, err)
			}
			out[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("已渲染 %d 张证据图像", len(items))
	return out, nil
}
