// Package sysinfo 描述截图所在的主机与进程，用于文档页眉
package sysinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/process"
)

// Host 主机信息
type Host struct {
	Hostname string `json:"hostname"`
	Platform string `json:"platform"`
	Version  string `json:"version"`
	Arch     string `json:"arch"`
}

// Process 进程信息
type Process struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// CurrentHost 获取主机信息；查询失败时退回 os/runtime 的值
func CurrentHost() Host {
	h := Host{Platform: runtime.GOOS, Arch: runtime.GOARCH}
	if name, err := os.Hostname(); err == nil {
		h.Hostname = name
	}

	info, err := host.Info()
	if err != nil {
		return h
	}
	if info.Hostname != "" {
		h.Hostname = info.Hostname
	}
	if info.Platform != "" {
		h.Platform = info.Platform
	}
	h.Version = info.PlatformVersion
	if info.KernelArch != "" {
		h.Arch = info.KernelArch
	}
	return h
}

// String 形如 "host (windows 10.0.22631, x86_64)"
func (h Host) String() string {
	platform := strings.TrimSpace(h.Platform + " " + h.Version)
	if h.Hostname == "" {
		return fmt.Sprintf("%s, %s", platform, h.Arch)
	}
	return fmt.Sprintf("%s (%s, %s)", h.Hostname, platform, h.Arch)
}

// CurrentProcess 当前进程信息，用于录制时的启动横幅
func CurrentProcess() (Process, error) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return Process{PID: pid}, fmt.Errorf("查询当前进程失败: %w", err)
	}

	p := Process{PID: pid}
	p.Name, _ = proc.Name()
	p.Path, _ = proc.Exe()
	return p, nil
}

// String 形如 "zoeyevidence (PID 1234)"
func (p Process) String() string {
	name := p.Name
	if name == "" {
		name = filepath.Base(p.Path)
	}
	return fmt.Sprintf("%s (PID %d)", name, p.PID)
}
