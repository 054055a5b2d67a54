package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/display"
)

// ControlHelp 控制台命令说明
const ControlHelp = "命令: p 暂停 | r 继续 | m 切换模式 | s 状态 | q 结束"

// Control 从 r 逐行读取控制命令，直到 q、输入结束或 ctx 取消
func Control(ctx context.Context, r io.Reader, s *Session, out io.Writer) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case line := <-lines:
			if quit := dispatch(strings.TrimSpace(strings.ToLower(line)), s, out); quit {
				return nil
			}
		}
	}
}

func dispatch(cmd string, s *Session, out io.Writer) (quit bool) {
	switch cmd {
	case "":
	case "p":
		if err := s.Pause(); err != nil {
			fmt.Fprintln(out, err)
		}
	case "r":
		if err := s.Resume(); err != nil {
			fmt.Fprintln(out, err)
		}
	case "m":
		if s.State().Mode == display.Full {
			s.SetMode(display.WorkArea)
		} else {
			s.SetMode(display.Full)
		}
	case "s":
		st := s.State()
		fmt.Fprintf(out, "录制: %v 暂停: %v 模式: %s 证据: %d\n",
			st.Recording, st.Paused, st.Mode, len(s.Ledger().ActivePaths()))
	case "q":
		s.Stop()
		return true
	default:
		fmt.Fprintln(out, ControlHelp)
	}
	return false
}

// Run 同时运行点击监听和控制台，直到会话停止或 ctx 取消
func Run(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Start()
	fmt.Fprintln(out, ControlHelp)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-s.Done():
		case <-gctx.Done():
			s.Stop()
		}
		cancel()
		return nil
	})

	g.Go(func() error {
		return Listen(gctx, func(x, y int) {
			if _, err := s.HandleClick(x, y); err != nil && !errors.Is(err, ErrNotRecording) {
				logger.Error("处理点击失败: %v", err)
			}
		})
	})

	g.Go(func() error {
		if err := Control(gctx, in, s, out); err != nil {
			return fmt.Errorf("读取控制命令失败: %w", err)
		}
		return nil
	})

	return g.Wait()
}
