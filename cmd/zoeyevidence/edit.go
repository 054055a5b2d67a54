package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoeyai/zoeyevidence/pkg/ledger"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出证据",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}

			entries := s.Ledger().ActiveEntries()
			if all {
				entries = s.Ledger().Entries()
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "没有证据")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\t文件\t时间\t方法\t状态\t备注")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.FileName, formatTime(e), e.CaptureMethod, status(e), e.Comment)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "包含已删除的证据")
	return cmd
}

func formatTime(e ledger.Entry) string {
	if e.CapturedAt.IsZero() {
		return "-"
	}
	return e.CapturedAt.Format("02/01/2006 15:04:05")
}

func status(e ledger.Entry) string {
	if e.Deleted {
		return "已删除"
	}
	return "有效"
}

func newCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment FILE TEXT...",
		Short: "设置证据备注（空文本清除备注）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			return s.Comment(args[0], strings.Join(args[1:], " "))
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FILE...",
		Short: "删除证据图像并在台账中标记为已删除",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := s.Delete(name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "已删除 %s\n", name)
			}
			return nil
		},
	}
}

func newOverlayCmd() *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "overlay FILE",
		Short: "移动证据的时间戳位置（0..1 比例）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			return s.MoveOverlay(args[0], x, y)
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0.80, "水平位置")
	cmd.Flags().Float64Var(&y, "y", 0.94, "垂直位置")
	return cmd
}
