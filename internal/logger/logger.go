// Package logger 提供统一的日志工具
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel 解析日志级别字符串
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DEBUG
	case "INFO", "info":
		return INFO
	case "WARN", "warn", "WARNING", "warning":
		return WARN
	case "ERROR", "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger 日志记录器
type Logger struct {
	mu       sync.Mutex
	level    *slog.LevelVar
	enabled  bool
	console  io.Writer
	fileOut  *os.File
	filePath string
	slog     *slog.Logger
}

// 全局默认 logger
var defaultLogger = New()

// New 创建新的 Logger 实例，默认输出到 stderr
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter 使用指定的控制台输出创建 Logger（nil 表示不输出到控制台）
func NewWithWriter(w io.Writer) *Logger {
	l := &Logger{
		level:   new(slog.LevelVar),
		enabled: true,
		console: w,
	}
	l.level.Set(slog.LevelInfo)
	l.rebuild()
	return l
}

// Default 获取默认 logger
func Default() *Logger {
	return defaultLogger
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// SetEnabled 设置是否启用日志
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// SetFile 设置是否输出到文件
func (l *Logger) SetFile(enabled bool, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 关闭旧文件
	if l.fileOut != nil {
		l.fileOut.Close()
		l.fileOut = nil
	}
	l.filePath = ""

	if enabled && path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l.rebuild()
			return fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.fileOut = f
		l.filePath = path
	}

	l.rebuild()
	return nil
}

// rebuild 根据当前输出重建 slog handler，调用方需持有锁
func (l *Logger) rebuild() {
	var handlers []slog.Handler

	if l.console != nil {
		handlers = append(handlers, tint.NewHandler(l.console, &tint.Options{
			Level:      l.level,
			TimeFormat: "15:04:05",
		}))
	}
	if l.fileOut != nil {
		handlers = append(handlers, slog.NewTextHandler(l.fileOut, &slog.HandlerOptions{
			Level: l.level,
		}))
	}

	switch len(handlers) {
	case 0:
		l.slog = slog.New(slog.NewTextHandler(io.Discard, nil))
	case 1:
		l.slog = slog.New(handlers[0])
	default:
		l.slog = slog.New(fanout(handlers))
	}
}

// log 内部日志方法
func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	enabled, s := l.enabled, l.slog
	l.mu.Unlock()

	if !enabled {
		return
	}
	ctx := context.Background()
	if !s.Enabled(ctx, level.slogLevel()) {
		return
	}
	s.Log(ctx, level.slogLevel(), fmt.Sprintf(format, args...))
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info 输出 INFO 级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error 输出 ERROR 级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// LogEvent 记录带分类的事件日志
func (l *Logger) LogEvent(category string, ok bool, elapsed time.Duration, detail string) {
	l.mu.Lock()
	enabled, s := l.enabled, l.slog
	l.mu.Unlock()
	if !enabled {
		return
	}

	status := "OK"
	level := slog.LevelInfo
	if !ok {
		status = "NG"
		level = slog.LevelError
	}

	s.Log(context.Background(), level, detail,
		slog.String("cat", category),
		slog.String("status", status),
		slog.Float64("ms", float64(elapsed.Microseconds())/1000.0),
	)
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		err := l.fileOut.Close()
		l.fileOut = nil
		l.rebuild()
		return err
	}
	return nil
}

// 包级别便捷函数
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
func LogEvent(category string, ok bool, elapsed time.Duration, detail string) {
	defaultLogger.LogEvent(category, ok, elapsed, detail)
}
