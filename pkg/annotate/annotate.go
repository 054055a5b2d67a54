// Package annotate 在截图上绘制点击标记和时间戳
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zoeyai/zoeyevidence/pkg/ledger"
)

// ToRGBA 复制为左上角为 (0,0) 的 *image.RGBA
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ParseHexColor 解析 #RRGGBB 或 #RRGGBBAA
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("无效的颜色: %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("无效的颜色: %q", s)
	}

	if len(hex) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// DrawMarker 以 pt（相对图像左上角）为圆心画实心圆
func DrawMarker(dst draw.Image, pt image.Point, radius int, c color.Color) {
	if radius <= 0 {
		return
	}
	b := dst.Bounds()
	center := b.Min.Add(pt)
	area := image.Rect(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1).Intersect(b)
	src := image.NewUniform(c)

	r2 := radius * radius
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := y - center.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := x - center.X
			if dx*dx+dy*dy <= r2 {
				draw.Draw(dst, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
			}
		}
	}
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func defaultFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

// 时间戳背景框内边距
const overlayPadding = 6

// TimestampBox 计算时间戳背景框（相对图像左上角）；框始终保持在图像内
func TimestampBox(size image.Point, o ledger.Overlay) (image.Rectangle, error) {
	f, err := defaultFont()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("加载字体失败: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: float64(o.FontSize), DPI: 72})
	defer face.Close()

	textW := font.MeasureString(face, o.Text).Ceil()
	m := face.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()

	w := textW + 2*overlayPadding
	h := textH + 2*overlayPadding
	x := int(o.X * float64(size.X))
	y := int(o.Y * float64(size.Y))

	// 位置比例指向框的左上角，越界时向内推
	if x+w > size.X {
		x = size.X - w
	}
	if y+h > size.Y {
		y = size.Y - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// DrawTimestamp 在图像上绘制带背景的时间戳文字
func DrawTimestamp(dst draw.Image, o ledger.Overlay) error {
	if o.Text == "" {
		return nil
	}
	if o.FontSize <= 0 {
		o.FontSize = 20
	}

	fg, err := ParseHexColor(o.Color)
	if err != nil {
		fg = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	bg, err := ParseHexColor(o.Background)
	if err != nil {
		bg = color.NRGBA{A: 0xb4}
	}

	b := dst.Bounds()
	box, err := TimestampBox(b.Size(), o)
	if err != nil {
		return err
	}
	box = box.Add(b.Min)
	draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Over)

	f, _ := defaultFont()
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(float64(o.FontSize))
	c.SetClip(b)
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(fg))
	c.SetHinting(font.HintingFull)

	pt := freetype.Pt(box.Min.X+overlayPadding, box.Min.Y+overlayPadding+int(c.PointToFixed(float64(o.FontSize))>>6))
	if _, err := c.DrawString(o.Text, pt); err != nil {
		return fmt.Errorf("绘制时间戳失败: %w", err)
	}
	return nil
}
