package display

import (
	"image"
	"math"
)

// ScaleInt 缩放整数值
func ScaleInt(value int, factor float64) int {
	if factor <= 0 {
		return value
	}
	return int(math.Round(float64(value) * factor))
}

// ScaleRect 以 (sx, sy) 缩放矩形的两个角；用于 robotgo 坐标 -> 物理像素
func ScaleRect(r image.Rectangle, sx, sy float64) image.Rectangle {
	return image.Rect(
		ScaleInt(r.Min.X, sx), ScaleInt(r.Min.Y, sy),
		ScaleInt(r.Max.X, sx), ScaleInt(r.Max.Y, sy),
	)
}

// UnscaleRect 物理像素矩形 -> robotgo 坐标；非空矩形至少保留 1 像素
func UnscaleRect(r image.Rectangle, sx, sy float64) image.Rectangle {
	if sx <= 0 {
		sx = 1.0
	}
	if sy <= 0 {
		sy = 1.0
	}
	x, y := ScaleInt(r.Min.X, 1/sx), ScaleInt(r.Min.Y, 1/sy)
	w, h := ScaleInt(r.Dx(), 1/sx), ScaleInt(r.Dy(), 1/sy)
	if r.Dx() > 0 && w < 1 {
		w = 1
	}
	if r.Dy() > 0 && h < 1 {
		h = 1
	}
	return image.Rect(x, y, x+w, y+h)
}
