package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoeyai/zoeyevidence/internal/logger"
	"github.com/zoeyai/zoeyevidence/pkg/capture"
	"github.com/zoeyai/zoeyevidence/pkg/config"
	"github.com/zoeyai/zoeyevidence/pkg/display"
	"github.com/zoeyai/zoeyevidence/pkg/session"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// 全局参数，命令行优先于配置文件
var (
	flagDir      string
	flagMode     string
	flagLogLevel string

	configManager = config.GetDefaultManager()

	settings *config.Settings
	// fileSettings 配置文件中的取值（未应用命令行覆盖）
	fileSettings *config.Settings
)

func main() {
	defer logger.Default().Close()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zoeyevidence",
		Short:         "测试证据截图工具",
		Long:          "监听鼠标点击，截取点击所在的显示器，记录证据台账并汇编为 Word 文档。",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flagDir, "dir", "d", "", "截图目录 (默认使用配置中的 output_dir)")
	pf.StringVarP(&flagMode, "mode", "m", "", "截图模式: full | work_area")
	pf.StringVar(&flagLogLevel, "log-level", "", "日志级别: debug | info | warn | error")

	root.AddCommand(
		newRecordCmd(),
		newShotCmd(),
		newListCmd(),
		newCommentCmd(),
		newDeleteCmd(),
		newOverlayCmd(),
		newBuildCmd(),
		newExportPDFCmd(),
		newDisplaysCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// loadSettings 加载配置并应用命令行覆盖
func loadSettings() error {
	s, err := configManager.Load()
	if err != nil {
		logger.Warn("加载配置失败，使用默认配置: %v", err)
	}

	file := *s
	fileSettings = &file

	if flagMode != "" {
		mode, err := display.ParseMode(flagMode)
		if err != nil {
			return err
		}
		s.CaptureMode = mode.String()
	}
	if flagLogLevel != "" {
		s.LogLevel = flagLogLevel
	}
	if flagDir != "" {
		s.OutputDir = flagDir
	}

	log := logger.Default()
	log.SetLevel(logger.ParseLevel(s.LogLevel))
	if s.LogFile != "" {
		if err := log.SetFile(true, s.LogFile); err != nil {
			logger.Warn("打开日志文件失败: %v", err)
		}
	}

	settings = s
	return nil
}

// openSession 打开当前截图目录的会话
func openSession() (*session.Session, error) {
	st, err := session.StateFromSettings(settings, "")
	if err != nil {
		return nil, err
	}
	return session.New(st, capture.NewDefaultResolver())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zoey Evidence v%s\n", Version)
			fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}
