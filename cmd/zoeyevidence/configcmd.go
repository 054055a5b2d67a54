package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "查看、初始化或重置配置文件",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "显示生效的配置（含命令行覆盖）",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(settings)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "写入配置文件（已存在时保留原有取值，不写入命令行覆盖）",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m := configManager
				existed := m.Exists()
				if err := m.Save(fileSettings); err != nil {
					return err
				}
				if existed {
					fmt.Fprintf(cmd.OutOrStdout(), "配置已更新: %s\n", m.GetConfigFile())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "已创建默认配置: %s\n", m.GetConfigFile())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "删除配置文件，恢复默认配置",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := configManager.Clear(); err != nil {
					return fmt.Errorf("删除配置文件失败: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "已删除配置: %s\n", configManager.GetConfigFile())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "显示配置文件路径",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				m := configManager
				if m.Exists() {
					fmt.Fprintln(cmd.OutOrStdout(), m.GetConfigFile())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (不存在，使用默认配置)\n", m.GetConfigFile())
				}
			},
		},
	)
	return cmd
}
