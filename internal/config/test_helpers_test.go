package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testConfigPath 返回 testdata 下的夹具路径，缺失时立即失败以免误判为“可选配置”。
func testConfigPath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("缺少测试夹具 %s: %v", name, err)
	}
	return path
}

// writeTempConfig 写入临时 TOML；未声明 StoragePath 时指向临时目录，避免解析出仓库内路径。
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if !strings.Contains(content, "StoragePath") {
		content = "StoragePath = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n" + content
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}
