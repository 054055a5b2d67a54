package session

import (
	"context"

	hook "github.com/robotn/gohook"
)

// startHook 启动全局输入钩子，返回事件通道和停止函数
var startHook = func() (<-chan hook.Event, func()) {
	return hook.Start(), hook.End
}

// Listen 监听全局鼠标左键点击，直到 ctx 取消
func Listen(ctx context.Context, handler func(x, y int)) error {
	events, stop := startHook()
	defer stop()
	return listen(ctx, events, handler)
}

func listen(ctx context.Context, events <-chan hook.Event, handler func(x, y int)) error {
	left := hook.MouseMap["left"]
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind == hook.MouseDown && ev.Button == left {
				handler(int(ev.X), int(ev.Y))
			}
		}
	}
}
