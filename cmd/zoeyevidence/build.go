package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoeyai/zoeyevidence/pkg/document"
	"github.com/zoeyai/zoeyevidence/pkg/session"
	"github.com/zoeyai/zoeyevidence/pkg/sysinfo"
)

func newBuilder() *document.Builder {
	d := settings.Document
	return document.NewBuilder(document.Header{
		Title:  d.Title,
		Author: d.Author,
		Host:   sysinfo.CurrentHost().String(),
	}, d.MaxImageWidth)
}

// finalize 生成文档；成功后台账被删除（keepLedger 时保留）
func finalize(ctx context.Context, cmd *cobra.Command, s *session.Session, out string, keepLedger bool) error {
	n := len(s.Items())
	err := s.Finalize(ctx, newBuilder(), out, keepLedger)
	switch {
	case errors.Is(err, session.ErrLedgerCleanup):
		fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s（%d 张证据）\n", out, n)
		return fmt.Errorf("文档已保存，但台账 %s 未能删除，请手动删除: %w", s.Ledger().Path(), err)
	case err != nil:
		return fmt.Errorf("生成文档失败（台账已保留，可重试）: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s（%d 张证据）\n", out, n)
	return nil
}

func newBuildCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "build OUT.docx",
		Short: "将有效证据汇编为 Word 文档",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			return finalize(cmd.Context(), cmd, s, args[0], keep)
		},
	}

	cmd.Flags().BoolVar(&keep, "keep-ledger", false, "生成后保留台账文件")
	return cmd
}

func newExportPDFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-pdf OUT.pdf",
		Short: "将有效证据导出为 PDF（每张一页，台账保留）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			items := s.Items()
			if err := document.ExportPDF(cmd.Context(), items, args[0], settings.Document.MaxImageWidth); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出 %s（%d 页）\n", args[0], len(items))
			return nil
		},
	}
}
