package storage

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

// Backend 抽象缓存引擎所需的全部文件系统原语。所有路径均为绝对路径，
// 由引擎负责计算；实现只需保证 WriteExclusive 对并发读者原子可见。
type Backend interface {
	// Exists 判断 path 是否为已存在的普通文件。
	Exists(ctx context.Context, path string) bool

	// ReadBytes 读取完整文件内容，不存在时返回 ErrNotFound。
	ReadBytes(ctx context.Context, path string) ([]byte, error)

	// WriteExclusive 以独占方式整体替换文件内容：实现需通过临时文件 + rename
	// 保证读者不会看到半写入的数据，并将最终文件权限设为 perm。
	WriteExclusive(ctx context.Context, path string, data []byte, perm fs.FileMode) error

	// Delete 删除文件，返回是否真的删除了文件；文件不存在不是错误。
	Delete(ctx context.Context, path string) (bool, error)

	// ModTime 返回文件最后修改时间，不存在时返回 ErrNotFound。
	ModTime(ctx context.Context, path string) (time.Time, error)

	// ListDir 按名称排序列出目录项，目录不存在时返回 ErrNotFound。
	ListDir(ctx context.Context, path string) ([]fs.DirEntry, error)

	// MakeDirs 递归创建目录；目录已存在（包括并发创建）视为成功。
	MakeDirs(ctx context.Context, path string) error
}

// ErrNotFound 表示目标路径不存在。
var ErrNotFound = errors.New("storage path not found")
