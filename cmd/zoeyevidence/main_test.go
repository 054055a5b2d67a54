package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyevidence/pkg/config"
	"github.com/zoeyai/zoeyevidence/pkg/ledger"
	"github.com/zoeyai/zoeyevidence/pkg/session"
)

// useConfigDir 让命令读写临时配置目录
func useConfigDir(t *testing.T) *config.Manager {
	t.Helper()
	orig := configManager
	configManager = config.NewManagerWithDir(t.TempDir())
	t.Cleanup(func() { configManager = orig })
	return configManager
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if configManager == config.GetDefaultManager() {
		useConfigDir(t)
	}
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Zoey Evidence v"+Version)
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "没有证据")
}

func TestEditCommands(t *testing.T) {
	dir := t.TempDir()
	l := ledger.Load(dir)
	_, err := l.Append("evidencia_001.png", nil, "test")
	require.NoError(t, err)

	_, err = execute(t, "comment", "--dir", dir, "evidencia_001.png", "tela", "de", "login")
	require.NoError(t, err)
	assert.Equal(t, "tela de login", ledger.Load(dir).CommentFor("evidencia_001.png"))

	out, err := execute(t, "list", "--all", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "tela de login")

	_, err = execute(t, "delete", "--dir", dir, "evidencia_001.png")
	require.NoError(t, err)
	e, ok := ledger.Load(dir).Find("evidencia_001.png")
	require.True(t, ok)
	assert.True(t, e.Deleted)

	_, err = execute(t, "comment", "--dir", dir, "nope.png", "x")
	assert.ErrorIs(t, err, ledger.ErrEntryNotFound)
}

func TestBuildWithoutEvidenceKeepsLedger(t *testing.T) {
	dir := t.TempDir()
	l := ledger.Load(dir)
	_, err := l.Append("missing.png", nil, "test")
	require.NoError(t, err)

	_, err = execute(t, "build", "--dir", dir, filepath.Join(dir, "out.docx"))
	assert.Error(t, err)
	assert.FileExists(t, filepath.Join(dir, ledger.FileName))
}

func TestInvalidMode(t *testing.T) {
	_, err := execute(t, "list", "--dir", t.TempDir(), "--mode", "half")
	assert.Error(t, err)
}

func TestModeAliasIsNormalized(t *testing.T) {
	out, err := execute(t, "config", "show", "--mode", "workarea")
	require.NoError(t, err)
	assert.Contains(t, out, "capture_mode: work_area")
}

func TestConfigInitIgnoresFlagOverrides(t *testing.T) {
	m := useConfigDir(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "不存在")

	_, err = execute(t, "config", "init", "--mode", "workarea", "--dir", "/tmp/elsewhere")
	require.NoError(t, err)
	require.True(t, m.Exists())

	saved, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, config.ModeFull, saved.CaptureMode)
	assert.Equal(t, config.DefaultSettings().OutputDir, saved.OutputDir)

	// 已有取值保留
	saved.Document.Title = "Regressão"
	require.NoError(t, m.Save(saved))
	_, err = execute(t, "config", "init")
	require.NoError(t, err)
	again, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "Regressão", again.Document.Title)

	_, err = execute(t, "config", "reset")
	require.NoError(t, err)
	assert.False(t, m.Exists())
}

func TestPrintBanner(t *testing.T) {
	s, err := session.New(session.NewState(t.TempDir()), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	printBanner(&out, s)
	assert.Contains(t, out.String(), "Zoey Evidence v"+Version)
	assert.Contains(t, out.String(), "PID")
	assert.Contains(t, out.String(), s.State().ID.String())
}
