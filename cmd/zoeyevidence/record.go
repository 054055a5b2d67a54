package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zoeyai/zoeyevidence/pkg/permissions"
	"github.com/zoeyai/zoeyevidence/pkg/session"
	"github.com/zoeyai/zoeyevidence/pkg/sysinfo"
)

func newRecordCmd() *cobra.Command {
	var build string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "开始录制：每次鼠标左键点击截取一张证据",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := permissions.Ensure(true); err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			st := s.State()
			printBanner(out, s)

			if err := session.Run(ctx, s, cmd.InOrStdin(), out); err != nil {
				return err
			}

			if build == "" {
				fmt.Fprintf(out, "证据已保存在 %s，使用 build 命令生成文档\n", st.Dir)
				return nil
			}
			return finalize(context.WithoutCancel(ctx), cmd, s, build, false)
		},
	}

	cmd.Flags().StringVarP(&build, "build", "b", "", "结束后直接生成 .docx 到该路径")
	return cmd
}

// printBanner 打印录制启动信息
func printBanner(out io.Writer, s *session.Session) {
	st := s.State()
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "  Zoey Evidence v%s\n", Version)
	fmt.Fprintln(out, "========================================")
	if p, err := sysinfo.CurrentProcess(); err == nil {
		fmt.Fprintf(out, "进程: %s\n", p)
	}
	fmt.Fprintf(out, "主机: %s\n", sysinfo.CurrentHost())
	fmt.Fprintf(out, "会话: %s\n", st.ID)
	fmt.Fprintf(out, "截图目录: %s\n", st.Dir)
	fmt.Fprintf(out, "截图模式: %s\n", st.Mode)
	fmt.Fprintf(out, "已有证据: %d\n\n", len(s.Ledger().ActivePaths()))
}
