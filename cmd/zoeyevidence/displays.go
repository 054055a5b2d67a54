package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zoeyai/zoeyevidence/pkg/capture"
	"github.com/zoeyai/zoeyevidence/pkg/display"
)

func newDisplaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "显示各截图后端检测到的显示器和策略链",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			mode, err := display.ParseMode(settings.CaptureMode)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "DPI 缩放: %.2f\n", display.DPIScale())
			fmt.Fprintf(out, "策略链: %v\n\n", capture.NewDefaultResolver().Strategies())

			printMonitors(out, "fastgrab", capture.NewFastGrabBackend(), mode)
			printMonitors(out, "enumerate", capture.NewRobotgoBackend(), mode)

			if r, err := capture.NewRobotgoBackend().PrimaryBounds(); err == nil {
				fmt.Fprintf(out, "主显示器: %v\n", r)
			}
			return nil
		},
	}
}

type monitorLister interface {
	Monitors() ([]display.Monitor, error)
}

func printMonitors(out io.Writer, name string, src monitorLister, mode display.Mode) {
	monitors, err := src.Monitors()
	if err != nil {
		fmt.Fprintf(out, "[%s] 不可用: %v\n\n", name, err)
		return
	}

	fmt.Fprintf(out, "[%s]\n", name)
	for _, m := range monitors {
		primary := ""
		if m.Primary {
			primary = " (主)"
		}
		fmt.Fprintf(out, "  #%d%s 范围 %v  %s %v\n", m.Index, primary, m.Bounds, mode, m.Rect(mode))
	}
	fmt.Fprintln(out)
}
