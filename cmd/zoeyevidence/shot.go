package main

import (
	"fmt"

	"github.com/go-vgo/robotgo"
	"github.com/spf13/cobra"

	"github.com/zoeyai/zoeyevidence/pkg/display"
	"github.com/zoeyai/zoeyevidence/pkg/permissions"
)

func newShotCmd() *cobra.Command {
	var x, y int

	cmd := &cobra.Command{
		Use:   "shot",
		Short: "立即截取一张证据（默认使用当前鼠标位置）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := permissions.Ensure(false); err != nil {
				return err
			}

			if !cmd.Flags().Changed("x") || !cmd.Flags().Changed("y") {
				mx, my := robotgo.Location()
				mx, my = display.ToPhysical(mx, my)
				if !cmd.Flags().Changed("x") {
					x = mx
				}
				if !cmd.Flags().Changed("y") {
					y = my
				}
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			s.Start()
			defer s.Stop()

			e, err := s.HandleClick(x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s (%s)\n", e.ID, e.FileName, e.CaptureMethod)
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "全局 X 坐标（可为负数）")
	cmd.Flags().IntVar(&y, "y", 0, "全局 Y 坐标（可为负数）")
	return cmd
}
