// log/log_test.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogsToGivenDir(t *testing.T) {
	dir := t.TempDir()
	lg := New("info", dir)

	if lg.LogDir != dir {
		t.Errorf("LogDir = %q, want %q", lg.LogDir, dir)
	}
	lg.Info("hello")
	if _, err := os.Stat(lg.LogFile); err != nil {
		t.Errorf("log file %q was not created: %v", lg.LogFile, err)
	}
}

func TestNewDefaultDir(t *testing.T) {
	// With no directory given, logs go to a Skyroute directory under the
	// user config directory. Redirect that via XDG_CONFIG_HOME where the
	// platform honors it so the test doesn't write outside its sandbox.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}

	lg := New("info", "")
	if want := filepath.Join(cfg, "Skyroute"); lg.LogDir != want {
		t.Errorf("LogDir = %q, want %q", lg.LogDir, want)
	}
	if !strings.HasPrefix(lg.LogFile, lg.LogDir) {
		t.Errorf("LogFile %q is outside LogDir %q", lg.LogFile, lg.LogDir)
	}
}

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// Must not panic.
	lg.Debug("d")
	lg.Debugf("d %d", 1)
	lg.Info("i")
	lg.Infof("i %d", 1)
	lg.Warn("w")
	lg.Warnf("w %d", 1)
	lg.Error("e")
	lg.Errorf("e %d", 1)
}
