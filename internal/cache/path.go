package cache

import (
	"context"
	"path/filepath"

	"github.com/any-hub/minicache/internal/storage"
)

// shardSegments 返回键前 depth 个字符组成的单字符目录段，超出键长时截断。
func shardSegments(key string, depth int) []string {
	if depth > len(key) {
		depth = len(key)
	}
	if depth <= 0 {
		return nil
	}
	segments := make([]string, depth)
	for i := 0; i < depth; i++ {
		segments[i] = key[i : i+1]
	}
	return segments
}

func shardDir(key, root string, shardDepth int) string {
	parts := append([]string{root}, shardSegments(key, shardDepth)...)
	return filepath.Join(parts...)
}

// entryPath 只计算路径，不触碰文件系统，供读取与删除使用。
func entryPath(key, root string, shardDepth int, extension string) string {
	return filepath.Join(shardDir(key, root, shardDepth), key+extension)
}

// resolvePath 计算写入路径，并确保分片目录链存在（已存在视为成功）。
func resolvePath(ctx context.Context, backend storage.Backend, key, root string, shardDepth int, extension string) (string, error) {
	dir := shardDir(key, root, shardDepth)
	if err := backend.MakeDirs(ctx, dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, key+extension), nil
}
