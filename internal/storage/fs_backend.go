package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const dirPerm fs.FileMode = 0o755

// NewFileBackend 构建基于本地文件系统的 Backend，整个进程复用一份实例即可。
func NewFileBackend() Backend {
	return &fileBackend{
		locks: make(map[string]*pathLock),
	}
}

// fileBackend 通过 pathLock 避免同一路径在进程内并发写入/删除，
// 跨进程则依赖目录级 flock 与 rename 的原子性。
type fileBackend struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func (b *fileBackend) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (b *fileBackend) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (b *fileBackend) WriteExclusive(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := b.lockPath(path)
	defer unlock()

	dir := filepath.Dir(path)
	release, err := lockDir(dir)
	if err != nil {
		return fmt.Errorf("lock %s: %w", dir, err)
	}
	defer release()

	tempFile, err := os.CreateTemp(dir, ".minicache-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	// Chmod 不受 umask 影响，保证最终权限与 perm 一致。
	err = tempFile.Chmod(perm)
	if err == nil {
		_, err = tempFile.Write(data)
	}
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func (b *fileBackend) Delete(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	unlock := b.lockPath(path)
	defer unlock()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *fileBackend) ModTime(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	if info.IsDir() {
		return time.Time{}, ErrNotFound
	}
	return info.ModTime(), nil
}

func (b *fileBackend) ListDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entries, nil
}

func (b *fileBackend) MakeDirs(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(path, dirPerm); err != nil {
		// 其它进程可能刚好创建了同一目录。
		if errors.Is(err, fs.ErrExist) {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				return nil
			}
		}
		return err
	}
	return nil
}

func (b *fileBackend) lockPath(path string) func() {
	b.mu.Lock()
	lock := b.locks[path]
	if lock == nil {
		lock = &pathLock{}
		b.locks[path] = lock
	}
	lock.refs++
	b.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		b.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(b.locks, path)
		}
		b.mu.Unlock()
	}
}
