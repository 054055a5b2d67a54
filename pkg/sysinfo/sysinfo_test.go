package sysinfo

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentHost(t *testing.T) {
	h := CurrentHost()
	assert.NotEmpty(t, h.Platform)
	assert.NotEmpty(t, h.Arch)
	assert.NotEmpty(t, h.String())
}

func TestHostString(t *testing.T) {
	h := Host{Hostname: "qa-01", Platform: "windows", Version: "10.0.22631", Arch: "x86_64"}
	assert.Equal(t, "qa-01 (windows 10.0.22631, x86_64)", h.String())

	h = Host{Platform: "linux", Arch: "arm64"}
	assert.Equal(t, "linux, arm64", h.String())
}

func TestCurrentProcess(t *testing.T) {
	p, err := CurrentProcess()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), p.PID)
	assert.Contains(t, p.String(), fmt.Sprintf("(PID %d)", os.Getpid()))
}

func TestProcessString(t *testing.T) {
	assert.Equal(t, "zoeyevidence (PID 42)", Process{PID: 42, Name: "zoeyevidence"}.String())
	assert.Equal(t, "zoeyevidence.exe (PID 7)", Process{PID: 7, Path: `C:/tools/zoeyevidence.exe`}.String())
}
