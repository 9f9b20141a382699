package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoggingFallbackToStderr(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root 不受目录权限限制")
	}
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.Chmod(blocked, 0o000); err != nil {
		t.Fatalf("设置目录权限失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(blocked, 0o755) })

	logPath := filepath.Join(blocked, "sub", "minicache.log")
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "info"
LogFilePath = "%s"
StoragePath = "%s"
`, filepath.ToSlash(logPath), filepath.ToSlash(filepath.Join(dir, "storage"))))

	code, _, stderr := runCLI(t, "--config", configPath, "check-config")
	if code != exitOK {
		t.Fatalf("日志 fallback 不应导致失败，得到 %d: %s", code, stderr)
	}
}

func TestLoggingWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "minicache.log")
	configPath := writeConfigFile(t, fmt.Sprintf(`
LogLevel = "debug"
LogFilePath = "%s"
StoragePath = "%s"
`, filepath.ToSlash(logPath), filepath.ToSlash(filepath.Join(dir, "storage"))))

	if code, _, stderr := runCLI(t, "--config", configPath, "set", "k", "v"); code != exitOK {
		t.Fatalf("set 失败: %s", stderr)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("预期创建日志文件: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("debug 级别下写入应产生日志")
	}
}
